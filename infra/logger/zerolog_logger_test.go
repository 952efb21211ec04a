package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestLevelFromEnv(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_LOG_LEVEL", "warn"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_LOG_LEVEL")) }()
	assert.Equal(t, zerolog.WarnLevel, levelFromEnv())

	assert.NoError(t, os.Setenv("APP_LOG_LEVEL", "unknown"))
	assert.Equal(t, zerolog.InfoLevel, levelFromEnv())
}
