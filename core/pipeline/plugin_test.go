package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/solver"
	"github.com/romainsacchi/carculator/core/vehicle"
)

func pluginRequest() model.Request {
	return model.Request{
		VehicleType:            model.Car,
		Powertrain:             model.PHEVp,
		Size:                   "Medium",
		Year:                   2020,
		CurbMass:               1450,
		Power:                  110,
		PrimaryPower:           65,
		DrivingMass:            1600,
		TtWEnergy:              1900,
		FuelConsumption:        4.2, // L/100 km
		ElectricityConsumption: 12,  // kWh/100 km
		ElectricEnergyStored:   10,
	}
}

func solvedPlugin(t *testing.T) *vehicle.Model {
	t.Helper()
	m := buildModel(t, scopedTable(model.PHEVp, model.PHEVcp), vehicle.Pins{Powertrain: model.PHEVp})
	if err := solver.New(nil).Solve(m); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return m
}

func TestAdjustPluginTakesRequestedFigures(t *testing.T) {
	m := solvedPlugin(t)
	req := pluginRequest()
	if err := AdjustPlugin(m, req, solver.New(nil)); err != nil {
		t.Fatalf("AdjustPlugin: %v", err)
	}
	get := func(pt model.Powertrain, name string) float64 {
		return m.Table().Get(pt, "Medium", 2020, name)
	}

	if got := get(model.PHEVp, params.ElectricityConsumption); math.Abs(got-0.12) > 1e-12 {
		t.Errorf("electricity consumption = %v, want 0.12 kWh/km", got)
	}
	if got := get(model.PHEVp, params.FuelConsumption); math.Abs(got-0.042) > 1e-12 {
		t.Errorf("fuel consumption = %v, want 0.042 L/km", got)
	}
	if got := get(model.PHEVp, params.TtWEnergy); got != 1900 {
		t.Errorf("TtW energy = %v, want 1900", got)
	}
	if got := get(model.PHEVp, params.ElectricEnergyStored); got != 10 {
		t.Errorf("stored energy = %v, want 10", got)
	}
	if got := get(model.PHEVp, params.CombustionPower); got != 65 {
		t.Errorf("combustion power = %v, want 65", got)
	}
	if got := get(model.PHEVp, params.ElectricPower); got != 45 {
		t.Errorf("electric power = %v, want 45", got)
	}
	if got := get(model.PHEVp, params.Power); got != 110 {
		t.Errorf("power = %v, want 110", got)
	}
	// Driving mass is written across the whole scope, curb only lands on
	// the requested row.
	for _, pt := range []model.Powertrain{model.PHEVp, model.PHEVcp} {
		if got := get(pt, params.DrivingMass); got != 1600 {
			t.Errorf("%s driving mass = %v, want 1600", pt, got)
		}
	}
}

func TestAdjustPluginCalibratesCurbMass(t *testing.T) {
	m := solvedPlugin(t)
	req := pluginRequest()
	if err := AdjustPlugin(m, req, solver.New(nil)); err != nil {
		t.Fatalf("AdjustPlugin: %v", err)
	}
	got := m.Table().Get(model.PHEVp, "Medium", 2020, params.CurbMass)
	if math.Abs(got-req.CurbMass) > 1e-6 {
		t.Errorf("curb mass = %v, want the requested %v", got, req.CurbMass)
	}
}

func TestAdjustPluginScalesFuelByRangeRatio(t *testing.T) {
	m := solvedPlugin(t)
	get := func(pt model.Powertrain, name string) float64 {
		return m.Table().Get(pt, "Medium", 2020, name)
	}
	fuelBefore := get(model.PHEVp, params.FuelMass)
	combined := get(model.PHEVp, params.Range)
	sustaining := get(model.PHEVcp, params.Range)
	if combined <= sustaining {
		t.Fatalf("fixture: combined range %v should exceed fuel-only range %v", combined, sustaining)
	}

	if err := AdjustPlugin(m, pluginRequest(), solver.New(nil)); err != nil {
		t.Fatalf("AdjustPlugin: %v", err)
	}
	want := fuelBefore * combined / sustaining
	got := get(model.PHEVp, params.FuelMass)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("fuel mass = %v, want %v", got, want)
	}
	// The combined range counts electric driving the fuel never powers, so
	// the fuel carried per unit of fuel-driven range goes up.
	if got <= fuelBefore {
		t.Errorf("fuel mass = %v, want more than the solved %v", got, fuelBefore)
	}
}

func TestAdjustPluginRangeOverrideNeutralizesRatio(t *testing.T) {
	m := solvedPlugin(t)
	fuelBefore := m.Table().Get(model.PHEVp, "Medium", 2020, params.FuelMass)

	req := pluginRequest()
	req.Range = 800
	ApplyPostRun(m, req) // broadcasts the range to both rows
	if err := AdjustPlugin(m, req, solver.New(nil)); err != nil {
		t.Fatalf("AdjustPlugin: %v", err)
	}
	got := m.Table().Get(model.PHEVp, "Medium", 2020, params.FuelMass)
	if math.Abs(got-fuelBefore) > 1e-9 {
		t.Errorf("fuel mass = %v, want the ratio to cancel at %v", got, fuelBefore)
	}
}

func TestAdjustPluginDegenerateRatio(t *testing.T) {
	m := solvedPlugin(t)
	m.Table().Set(0, model.PHEVcp, "Medium", 2020, params.Range)

	err := AdjustPlugin(m, pluginRequest(), solver.New(nil))
	var dre *model.DegenerateRatioError
	if !errors.As(err, &dre) {
		t.Fatalf("err = %v, want DegenerateRatioError", err)
	}
	if dre.Powertrain != model.PHEVp || dre.Size != "Medium" {
		t.Errorf("error names %s %s, want PHEV-p Medium", dre.Powertrain, dre.Size)
	}
}

func TestAdjustPluginRejectsNonPlugin(t *testing.T) {
	m := buildModel(t, scopedTable(model.ICEVd), vehicle.Pins{Powertrain: model.ICEVd})
	req := pluginRequest()
	req.Powertrain = model.ICEVd
	if err := AdjustPlugin(m, req, solver.New(nil)); err == nil {
		t.Fatal("AdjustPlugin accepted a non-plug-in powertrain")
	}
}
