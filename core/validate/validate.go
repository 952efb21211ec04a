// Package validate checks solved vehicle models for physical plausibility
// and for consistency with the overrides that were requested. It reports
// violations instead of failing fast so a response can carry the complete
// list.
package validate

import (
	"math"

	"github.com/romainsacchi/carculator/core/logger"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/vehicle"
)

// overrideTolerance is the accepted relative deviation between a requested
// override and the solved value.
const overrideTolerance = 1e-3

// Rule inspects the requested row of a solved model and reports violations.
type Rule func(req model.Request, m *vehicle.Model) []model.Violation

// Validator runs a fixed rule list over a solved model.
type Validator struct {
	rules []Rule
	log   logger.Logger
}

// New returns a Validator with the default rule set.
func New(log logger.Logger) *Validator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Validator{
		rules: []Rule{
			massRules,
			energyRules,
			overrideConsistency,
			consumptionConsistency,
			shareBounds,
		},
		log: log,
	}
}

// Validate runs every rule and returns the collected violations, nil when
// the model is clean.
func (v *Validator) Validate(req model.Request, m *vehicle.Model) []model.Violation {
	var out []model.Violation
	for _, rule := range v.rules {
		out = append(out, rule(req, m)...)
	}
	if len(out) > 0 {
		v.log.Warnf("validation found %d violations for %s %s", len(out), req.Powertrain, req.Size)
	}
	return out
}

// row reads a parameter on the requested powertrain row.
func row(req model.Request, m *vehicle.Model, name string) float64 {
	return m.Table().Get(req.Powertrain, req.Size, m.Year(), name)
}

func massRules(req model.Request, m *vehicle.Model) []model.Violation {
	var out []model.Violation
	curb := row(req, m, params.CurbMass)
	driving := row(req, m, params.DrivingMass)
	if curb <= 0 {
		out = append(out, model.Violation{Parameter: params.CurbMass, Rule: "must be positive", Value: curb})
	}
	if driving < curb {
		out = append(out, model.Violation{Parameter: params.DrivingMass, Rule: "must not be below curb mass", Value: driving})
	}
	for _, name := range []string{
		params.GliderBaseMass,
		params.PowertrainMass,
		params.FuelMass,
		params.FuelTankMass,
		params.EnergyBatteryMass,
	} {
		if v := row(req, m, name); v < 0 {
			out = append(out, model.Violation{Parameter: name, Rule: "must not be negative", Value: v})
		}
	}
	return out
}

func energyRules(req model.Request, m *vehicle.Model) []model.Violation {
	var out []model.Violation
	if ttw := row(req, m, params.TtWEnergy); ttw <= 0 {
		out = append(out, model.Violation{Parameter: params.TtWEnergy, Rule: "must be positive", Value: ttw})
	}
	if rng := row(req, m, params.Range); rng <= 0 {
		out = append(out, model.Violation{Parameter: params.Range, Rule: "must be positive", Value: rng})
	}
	if lifetime := row(req, m, params.LifetimeKilometers); lifetime <= 0 {
		out = append(out, model.Violation{Parameter: params.LifetimeKilometers, Rule: "must be positive", Value: lifetime})
	}
	return out
}

// overrideConsistency verifies that requested values survived the solve.
func overrideConsistency(req model.Request, m *vehicle.Model) []model.Violation {
	var out []model.Violation
	check := func(name string, want float64) {
		if want <= 0 {
			return
		}
		got := row(req, m, name)
		if !withinTolerance(got, want) {
			out = append(out, model.Violation{Parameter: name, Rule: "must match the requested override", Value: got})
		}
	}
	check(params.CurbMass, req.CurbMass)
	check(params.TtWEnergy, req.TtWEnergy)
	check(params.Power, req.Power)
	if req.FuelTankVolume > 0 {
		if spec, ok := params.FuelFor(req.Powertrain); ok {
			check(params.FuelMass, req.FuelTankVolume*spec.Density)
		}
	}
	return out
}

func consumptionConsistency(req model.Request, m *vehicle.Model) []model.Violation {
	var out []model.Violation
	fuel := row(req, m, params.FuelConsumption)
	elec := row(req, m, params.ElectricityConsumption)
	switch {
	case req.Powertrain == model.BEV:
		if fuel != 0 {
			out = append(out, model.Violation{Parameter: params.FuelConsumption, Rule: "must be zero for battery electric", Value: fuel})
		}
		if elec <= 0 {
			out = append(out, model.Violation{Parameter: params.ElectricityConsumption, Rule: "must be positive for battery electric", Value: elec})
		}
	case req.Powertrain.IsPlugin():
		if fuel <= 0 {
			out = append(out, model.Violation{Parameter: params.FuelConsumption, Rule: "must be positive for plug-in hybrids", Value: fuel})
		}
		if elec <= 0 {
			out = append(out, model.Violation{Parameter: params.ElectricityConsumption, Rule: "must be positive for plug-in hybrids", Value: elec})
		}
	case req.Powertrain.IsCombustion() || req.Powertrain == model.FCEV:
		if fuel <= 0 {
			out = append(out, model.Violation{Parameter: params.FuelConsumption, Rule: "must be positive for fuel burners", Value: fuel})
		}
	}
	return out
}

func shareBounds(req model.Request, m *vehicle.Model) []model.Violation {
	var out []model.Violation
	if share := row(req, m, params.CombustionPowerShare); share < 0 || share > 1 {
		out = append(out, model.Violation{Parameter: params.CombustionPowerShare, Rule: "must lie in [0, 1]", Value: share})
	}
	if uf := row(req, m, params.ElectricUtilityFactor); uf < 0 || uf > 1 {
		out = append(out, model.Violation{Parameter: params.ElectricUtilityFactor, Rule: "must lie in [0, 1]", Value: uf})
	}
	if dod := row(req, m, params.BatteryDoD); dod < 0 || dod > 1 {
		out = append(out, model.Violation{Parameter: params.BatteryDoD, Rule: "must lie in [0, 1]", Value: dod})
	}
	return out
}

func withinTolerance(got, want float64) bool {
	return math.Abs(got-want) <= overrideTolerance*math.Abs(want)
}
