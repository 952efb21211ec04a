package pipeline

import (
	"fmt"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/core/vehicle"
)

// AdjustPlugin reshapes a solved plug-in hybrid around the requested
// operating figures. The requested row takes the declared consumptions,
// energy figures and power split; its glider is calibrated so the recomputed
// curb mass lands exactly on the requested one. The fuel mass is then scaled
// by the ratio of charge-sustaining range to combined range, so that the
// combined figure reflects how much of the driving actually burns fuel.
func AdjustPlugin(m *vehicle.Model, req model.Request, sol registry.Solver) error {
	pt := req.Powertrain
	twin, ok := pt.Counterpart()
	if !ok {
		return fmt.Errorf("pipeline: %s is not a plug-in hybrid", pt)
	}
	t := m.Table()
	year := m.Year()

	t.SetFor(pt, params.ElectricityConsumption, req.ElectricityConsumption/100)
	t.SetFor(pt, params.FuelConsumption, req.FuelConsumption/100)
	t.SetFor(pt, params.TtWEnergy, req.TtWEnergy)
	t.SetFor(pt, params.ElectricEnergyStored, req.ElectricEnergyStored)

	for _, size := range t.Sizes() {
		delta := req.CurbMass - t.Get(pt, size, year, params.CurbMass)
		t.Add(delta, pt, size, year, params.GliderBaseMass)
	}

	t.SetFor(pt, params.CombustionPower, req.PrimaryPower)
	t.SetFor(pt, params.ElectricPower, req.Power-req.PrimaryPower)
	t.SetFor(pt, params.Power, req.Power)

	// Recompute order matters: curb mass must pick up the calibrated glider
	// while the component masses are still the solved ones, otherwise the
	// requested curb mass no longer survives.
	sol.RecomputeVehicleMass(m)
	sol.RecomputeComponentMasses(m)

	t.SetAll(params.DrivingMass, req.DrivingMass)

	for _, size := range t.Sizes() {
		sustaining := t.Get(twin, size, year, params.Range)
		combined := t.Get(pt, size, year, params.Range)
		if sustaining <= 0 || combined <= 0 {
			return &model.DegenerateRatioError{Powertrain: pt, Size: size, Year: year}
		}
		ratio := sustaining / combined
		fuel := t.Get(pt, size, year, params.FuelMass)
		t.Set(fuel/ratio, pt, size, year, params.FuelMass)
	}
	return nil
}
