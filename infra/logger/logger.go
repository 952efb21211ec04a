package logger

import corelogger "github.com/romainsacchi/carculator/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component. Output format and level are
// detected from the APP_ENV and APP_LOG_LEVEL environment variables.
func New(component string) Logger {
	return NewZerologLogger(component)
}
