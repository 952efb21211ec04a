package main

import (
	"fmt"
	"strings"
	"time"
)

// Config holds parameters for the load simulator.
type Config struct {
	APIURL     string
	Token      string
	FleetSize  int
	Requests   int
	Interval   time.Duration
	Timeout    time.Duration
	Countries  []string
	InvalidPct float64
	Seed       uint64
	Verbose    bool
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.FleetSize <= 0 {
		return fmt.Errorf("fleet size must be positive")
	}
	if c.Requests <= 0 {
		return fmt.Errorf("request count must be positive")
	}
	if c.InvalidPct < 0 || c.InvalidPct > 1 {
		return fmt.Errorf("invalid-pct must lie in [0, 1]")
	}
	if len(c.Countries) == 0 {
		c.Countries = []string{"CH"}
	}
	return nil
}

func parseCountries(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
