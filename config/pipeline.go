package config

import "fmt"

// PipelineConfig defines defaults for the calculation pipeline.
type PipelineConfig struct {
	// Country is the default use country when a request names none.
	Country string `json:"country"`
	// Cycle is the driving cycle used by the energy model.
	Cycle string `json:"cycle"`
	// Iterations is the number of values along the uncertainty axis.
	// 1 runs the static calculation only.
	Iterations int `json:"iterations"`
	// Seed is the base seed for stochastic draws. 0 picks a fixed default.
	Seed uint64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *PipelineConfig) SetDefaults() {
	if c.Country == "" {
		c.Country = "CH"
	}
	if c.Cycle == "" {
		c.Cycle = "WLTC"
	}
	if c.Iterations == 0 {
		c.Iterations = 1
	}
}

// Validate checks mandatory fields.
func (c PipelineConfig) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	return nil
}
