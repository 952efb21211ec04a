package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/romainsacchi/carculator/core/logger"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/vehicle"
)

const (
	maxMassIterations = 64
	massTolAbs        = 1e-6
	massTolRel        = 1e-9
)

// ErrNoConvergence reports a mass balance that failed to settle within the
// iteration budget.
var ErrNoConvergence = errors.New("mass balance did not converge")

// Error wraps any failure inside the solver. Callers treat solver failures
// as opaque; Op narrows the stage for logs.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("solver: %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Solver resolves a vehicle model: it closes the circular dependency
// between installed power, component masses and curb mass by fixed-point
// iteration, then derives energy use, consumptions and range per row.
type Solver struct {
	log logger.Logger
}

func New(log logger.Logger) *Solver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Solver{log: log}
}

// Solve runs the full solve on the model's table. Pinned request values
// (power, curb mass target, tank-to-wheel energy) shortcut the
// corresponding estimates on the pinned row only.
func (s *Solver) Solve(m *vehicle.Model) error {
	cm, err := cycleFor(m.Class, m.Cycle)
	if err != nil {
		return &Error{Op: "cycle", Err: err}
	}
	if err := s.solveMasses(m); err != nil {
		return err
	}
	if err := s.computeEnergy(m, cm); err != nil {
		return err
	}
	s.log.Debugf("solved %s/%s over %d powertrains", m.Class, m.Cycle, len(m.Table().Powertrains()))
	return nil
}

// RecomputeComponentMasses refreshes the component masses from the current
// power and storage figures, without touching energy use.
func (s *Solver) RecomputeComponentMasses(m *vehicle.Model) { m.SetComponentMasses() }

// RecomputeVehicleMass refreshes curb and driving mass from the current
// component masses.
func (s *Solver) RecomputeVehicleMass(m *vehicle.Model) { m.SetVehicleMass() }

type rowKey struct {
	pt   model.Powertrain
	size string
}

// solveMasses iterates power allocation, component masses and vehicle mass
// to a fixed point. The loop is monotone from below (powers grow with curb
// mass, coefficients are well under unity), so convergence is geometric.
// When a curb mass target is pinned, the glider base mass of the pinned
// row is recalibrated between passes until the solved curb mass meets it.
func (s *Solver) solveMasses(m *vehicle.Model) error {
	t := m.Table()
	year := m.Year()
	target := m.Pins.TargetCurbMass

	prev := make(map[rowKey]float64)
	for iter := 0; iter < maxMassIterations; iter++ {
		for _, pt := range t.Powertrains() {
			for _, size := range t.Sizes() {
				curb := t.Get(pt, size, year, params.CurbMass)
				power := t.Get(pt, size, year, params.PowerToMassRatio) * curb / 1000
				if m.PinnedRow(pt) && m.Pins.Power > 0 {
					power = m.Pins.Power
				}
				share := t.Get(pt, size, year, params.CombustionPowerShare)
				t.Set(power, pt, size, year, params.Power)
				t.Set(share*power, pt, size, year, params.CombustionPower)
				t.Set(power-share*power, pt, size, year, params.ElectricPower)
			}
		}
		m.SetComponentMasses()
		m.SetVehicleMass()

		settled := true
		for _, pt := range t.Powertrains() {
			for _, size := range t.Sizes() {
				curb := t.Get(pt, size, year, params.CurbMass)
				if !scalar.EqualWithinAbsOrRel(curb, prev[rowKey{pt, size}], massTolAbs, massTolRel) {
					settled = false
				}
				prev[rowKey{pt, size}] = curb
			}
		}
		if !settled {
			continue
		}
		if target <= 0 {
			return nil
		}
		// Pull the pinned row's glider mass toward the curb target. The
		// response slightly overshoots (components scale with curb), so a
		// few correction passes are expected.
		calibrated := true
		for _, size := range t.Sizes() {
			curb := t.Get(m.Pins.Powertrain, size, year, params.CurbMass)
			delta := target - curb
			if scalar.EqualWithinAbsOrRel(curb, target, massTolAbs, massTolRel) {
				continue
			}
			t.Add(delta, m.Pins.Powertrain, size, year, params.GliderBaseMass)
			calibrated = false
		}
		if calibrated {
			return nil
		}
	}
	return &Error{Op: "mass balance", Err: ErrNoConvergence}
}

// computeEnergy derives per-row tank-to-wheel energy from the cycle demand
// and the row's efficiency, then splits it into fuel and electricity
// consumption and turns the stored energy into range. Plug-in rows mix the
// electric and fuel paths by their utility factor, taking the fuel path
// efficiency from their charge-sustaining twin.
func (s *Solver) computeEnergy(m *vehicle.Model, cm cycleModel) error {
	t := m.Table()
	year := m.Year()
	for _, pt := range t.Powertrains() {
		for _, size := range t.Sizes() {
			demand := cm.FixedDemand + cm.DemandPerMass*t.Get(pt, size, year, params.DrivingMass)
			uf := t.Get(pt, size, year, params.ElectricUtilityFactor)

			var ttw float64
			switch {
			case m.PinnedRow(pt) && m.Pins.TtWEnergy > 0:
				ttw = m.Pins.TtWEnergy
			case pt.IsPlugin():
				twin, _ := pt.Counterpart()
				if !t.HasPowertrain(twin) {
					return &Error{Op: "energy", Err: fmt.Errorf("%s has no charge-sustaining row in scope", pt)}
				}
				effFuel := t.Get(twin, size, year, params.TtWEfficiency)
				if effFuel <= 0 {
					return &Error{Op: "energy", Err: fmt.Errorf("missing TtW efficiency for %s", twin)}
				}
				ttw = uf*demand/cm.ElectricPathEfficiency + (1-uf)*demand/effFuel
			default:
				eff := t.Get(pt, size, year, params.TtWEfficiency)
				if eff <= 0 {
					return &Error{Op: "energy", Err: fmt.Errorf("missing TtW efficiency for %s", pt)}
				}
				ttw = demand / eff
			}
			t.Set(ttw, pt, size, year, params.TtWEnergy)
			if ttw > 0 {
				t.Set(demand/ttw, pt, size, year, params.TtWEfficiency)
			}

			fuelShare, elecShare := energyShares(pt, uf)

			fuel, hasFuel := params.FuelFor(pt)
			if hasFuel && fuelShare > 0 {
				t.Set(fuelShare*ttw/(fuel.LowerHeatingVal*1000)/fuel.Density, pt, size, year, params.FuelConsumption)
			} else {
				t.Set(0, pt, size, year, params.FuelConsumption)
			}
			t.Set(elecShare*ttw/3600, pt, size, year, params.ElectricityConsumption)

			var available float64 // kJ on board
			if hasFuel && fuelShare > 0 {
				available += t.Get(pt, size, year, params.FuelMass) * fuel.LowerHeatingVal * 1000
			}
			if elecShare > 0 {
				available += t.Get(pt, size, year, params.ElectricEnergyStored) *
					t.Get(pt, size, year, params.BatteryDoD) * 3600
			}
			if ttw > 0 {
				t.Set(available/ttw, pt, size, year, params.Range)
			}
		}
	}
	return nil
}

// energyShares splits tank-to-wheel energy between the fuel and grid
// electricity paths. Hybrids sustain charge from fuel, so their battery
// share is zero; hydrogen counts as fuel.
func energyShares(pt model.Powertrain, uf float64) (fuelShare, elecShare float64) {
	switch {
	case pt == model.BEV:
		return 0, 1
	case pt.IsPlugin():
		return 1 - uf, uf
	default:
		return 1, 0
	}
}
