package config

import "fmt"

// APIConfig defines settings for the HTTP API server.
type APIConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string `json:"address"`
	// BearerToken protects every endpoint except the health check when
	// non-empty.
	BearerToken string `json:"bearer_token"`
	// ResultLimit caps how many calculation summaries are kept in memory
	// for the results endpoint.
	ResultLimit int `json:"result_limit"`
	// ReadTimeoutSeconds bounds how long reading a request may take.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// WriteTimeoutSeconds bounds how long writing a response may take.
	// Fleet calculations with many stochastic iterations need headroom.
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 15
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 120
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	if c.ResultLimit < 0 {
		return fmt.Errorf("result_limit must not be negative")
	}
	return nil
}
