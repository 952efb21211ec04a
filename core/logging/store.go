package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/model"
)

// Record captures one calculation: the request as received, the outcome and
// the headline outputs. Rejected calculations carry their violations or
// error instead of impacts.
type Record struct {
	Timestamp  time.Time               `json:"timestamp"`
	RequestID  string                  `json:"request_id"`
	Request    model.Request           `json:"request"`
	Country    string                  `json:"country"`
	Success    bool                    `json:"success"`
	Error      string                  `json:"error,omitempty"`
	Violations []model.Violation       `json:"violations,omitempty"`
	Impacts    []inventory.ImpactValue `json:"impacts,omitempty"`
	DurationMS int64                   `json:"duration_ms"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start      time.Time
	End        time.Time
	Powertrain model.Powertrain
}

func (q Query) matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Powertrain != "" && r.Request.Powertrain != q.Powertrain {
		return false
	}
	return true
}

// Store persists calculation records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects and tunes the store backend.
type Config struct {
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation of the JSONL file when it exceeds this
	// size in megabytes. Zero disables rotation.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "calculations.log"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// New builds the store the config names. JSONL with a size limit rotates;
// without one it appends to a single file.
func New(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		if cfg.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return NewJSONLStore(cfg.Path)
	}
}
