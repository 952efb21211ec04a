package inventory

import (
	"fmt"

	"github.com/romainsacchi/carculator/core/model"
)

// Impact category names and units.
const (
	CategoryClimateChange     = "climate change"
	CategoryPrimaryEnergy     = "primary energy"
	CategoryParticulateMatter = "particulate matter"

	UnitClimateChange     = "kg CO2-eq/km"
	UnitPrimaryEnergy     = "MJ/km"
	UnitParticulateMatter = "kg PM2.5-eq/km"
)

// Score is one impact category with its per-kilometre values along the
// uncertainty axis. Index 0 always holds the representative (static) run.
type Score struct {
	Category string    `json:"category"`
	Unit     string    `json:"unit"`
	PerKm    []float64 `json:"per_km"`
}

// ImpactValue is a single representative impact figure.
type ImpactValue struct {
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	PerKm    float64 `json:"per_km"`
}

// ResultSet carries the impact scores of one calculated vehicle.
type ResultSet struct {
	Powertrain model.Powertrain `json:"powertrain"`
	Size       string           `json:"size"`
	Year       int              `json:"year"`
	Country    string           `json:"country"`
	Scores     []Score          `json:"scores"`
}

// Values reports the length of the uncertainty axis.
func (rs *ResultSet) Values() int {
	if len(rs.Scores) == 0 {
		return 0
	}
	return len(rs.Scores[0].PerKm)
}

// Representative returns the scores of the static run (value index 0).
func (rs *ResultSet) Representative() []ImpactValue {
	out := make([]ImpactValue, 0, len(rs.Scores))
	for _, s := range rs.Scores {
		if len(s.PerKm) == 0 {
			continue
		}
		out = append(out, ImpactValue{Category: s.Category, Unit: s.Unit, PerKm: s.PerKm[0]})
	}
	return out
}

// Score returns the score for a category, ok reports whether it exists.
func (rs *ResultSet) Score(category string) (Score, bool) {
	for _, s := range rs.Scores {
		if s.Category == category {
			return s, true
		}
	}
	return Score{}, false
}

// Merge appends the other set's draws along the uncertainty axis. Both sets
// must describe the same vehicle and carry the same categories.
func (rs *ResultSet) Merge(other *ResultSet) error {
	if other == nil {
		return fmt.Errorf("inventory: merging nil result set")
	}
	if rs.Powertrain != other.Powertrain || rs.Size != other.Size || rs.Year != other.Year {
		return fmt.Errorf("inventory: merging results of different vehicles (%s/%s/%d vs %s/%s/%d)",
			rs.Powertrain, rs.Size, rs.Year, other.Powertrain, other.Size, other.Year)
	}
	if len(rs.Scores) != len(other.Scores) {
		return fmt.Errorf("inventory: merging results with %d vs %d categories", len(rs.Scores), len(other.Scores))
	}
	for i := range rs.Scores {
		if rs.Scores[i].Category != other.Scores[i].Category {
			return fmt.Errorf("inventory: category mismatch %q vs %q", rs.Scores[i].Category, other.Scores[i].Category)
		}
		rs.Scores[i].PerKm = append(rs.Scores[i].PerKm, other.Scores[i].PerKm...)
	}
	return nil
}
