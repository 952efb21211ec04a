package pipeline

import (
	"fmt"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/vehicle"
)

// ApplyPreRun applies the overrides that must land before the solver runs.
// A fuel tank volume converts to fuel mass through the density of the
// requested powertrain's fuel and is written across every row in scope, so
// the solver sizes tank and range around it.
func ApplyPreRun(m *vehicle.Model, req model.Request) error {
	if req.FuelTankVolume <= 0 {
		return nil
	}
	spec, ok := params.FuelFor(req.Powertrain)
	if !ok {
		return &model.InvalidOverrideError{
			Field:  "fuel tank volume",
			Reason: fmt.Sprintf("%s carries no fuel", req.Powertrain),
		}
	}
	m.Table().SetAll(params.FuelMass, req.FuelTankVolume*spec.Density)
	return nil
}

// ApplyPostRun overwrites solved values with the overrides the request
// carries, after the solver has run. Each override is applied only when the
// request sets it to a positive value, and is written across every row in
// scope. Consumption figures arrive per 100 km and are stored per km.
func ApplyPostRun(m *vehicle.Model, req model.Request) {
	t := m.Table()
	if req.DrivingMass > 0 {
		t.SetAll(params.DrivingMass, req.DrivingMass)
	}
	if req.TtWEnergy > 0 {
		t.SetAll(params.TtWEnergy, req.TtWEnergy)
	}
	if req.FuelConsumption > 0 {
		t.SetAll(params.FuelConsumption, req.FuelConsumption/100)
	}
	if req.ElectricityConsumption > 0 {
		t.SetAll(params.ElectricityConsumption, req.ElectricityConsumption/100)
	}
	if req.Range > 0 {
		t.SetAll(params.Range, req.Range)
	}
}
