package model

import (
	"fmt"
	"strings"
)

// InvalidOverrideError reports a request field that cannot be applied to
// the parameter table.
type InvalidOverrideError struct {
	Field  string
	Reason string
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid override %q: %s", e.Field, e.Reason)
}

// DegenerateRatioError reports a zero or undefined range ratio encountered
// while scaling plug-in fuel mass by the charge-sustaining to combined
// range ratio.
type DegenerateRatioError struct {
	Powertrain Powertrain
	Size       string
	Year       int
}

func (e *DegenerateRatioError) Error() string {
	return fmt.Sprintf("degenerate range ratio for %s %s %d: charge-sustaining or combined range is zero", e.Powertrain, e.Size, e.Year)
}

// Violation is one failed plausibility check on solved vehicle data.
type Violation struct {
	Parameter string  `json:"parameter"`
	Rule      string  `json:"rule"`
	Value     float64 `json:"value"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (got %g)", v.Parameter, v.Rule, v.Value)
}

// ValidationError aggregates every violation found on a solved vehicle.
// The pipeline rejects the calculation when at least one is present.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "vehicle validation failed"
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("vehicle validation failed: %s", strings.Join(msgs, "; "))
}
