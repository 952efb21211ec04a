package validate

import (
	"testing"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/vehicle"
)

func solvedModel(t *testing.T, pt model.Powertrain, values map[string]float64) *vehicle.Model {
	t.Helper()
	table := params.New([]model.Powertrain{pt}, []string{"Medium"}, []int{2020}, nil)
	for name, v := range values {
		table.Set(v, pt, "Medium", 2020, name)
	}
	m, err := vehicle.New(model.Car, table, vehicle.Options{Country: "CH", Cycle: "WLTC"})
	if err != nil {
		t.Fatalf("vehicle.New: %v", err)
	}
	return m
}

func cleanValues() map[string]float64 {
	return map[string]float64{
		params.GliderBaseMass:        1000,
		params.PowertrainMass:        200,
		params.FuelMass:              40,
		params.FuelTankMass:          5,
		params.EnergyBatteryMass:     2,
		params.CurbMass:              1300,
		params.DrivingMass:           1450,
		params.TtWEnergy:             2000,
		params.Range:                 860,
		params.LifetimeKilometers:    200000,
		params.FuelConsumption:       0.055,
		params.CombustionPowerShare:  1,
		params.ElectricUtilityFactor: 0,
		params.BatteryDoD:            0.8,
	}
}

func TestValidateCleanModel(t *testing.T) {
	req := model.Request{VehicleType: model.Car, Powertrain: model.ICEVd, Size: "Medium", Year: 2020}
	m := solvedModel(t, model.ICEVd, cleanValues())
	if got := New(nil).Validate(req, m); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}

func TestValidateFlagsImplausibleModel(t *testing.T) {
	values := cleanValues()
	values[params.DrivingMass] = 1200 // below curb
	values[params.TtWEnergy] = 0
	values[params.CombustionPowerShare] = 1.5
	req := model.Request{VehicleType: model.Car, Powertrain: model.ICEVd, Size: "Medium", Year: 2020}
	m := solvedModel(t, model.ICEVd, values)

	got := New(nil).Validate(req, m)
	want := map[string]bool{
		params.DrivingMass:          false,
		params.TtWEnergy:            false,
		params.CombustionPowerShare: false,
	}
	for _, v := range got {
		if _, tracked := want[v.Parameter]; tracked {
			want[v.Parameter] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("expected a violation for %q, got %v", name, got)
		}
	}
}

func TestValidateOverrideConsistency(t *testing.T) {
	req := model.Request{
		VehicleType: model.Car, Powertrain: model.ICEVd, Size: "Medium", Year: 2020,
		CurbMass: 1400,
	}
	m := solvedModel(t, model.ICEVd, cleanValues()) // solved curb stays 1300
	got := New(nil).Validate(req, m)
	found := false
	for _, v := range got {
		if v.Parameter == params.CurbMass && v.Value == 1300 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected curb mass override violation, got %v", got)
	}
}

func TestValidateFuelTankOverride(t *testing.T) {
	values := cleanValues()
	values[params.FuelMass] = 42.5 // 50 L of diesel
	req := model.Request{
		VehicleType: model.Car, Powertrain: model.ICEVd, Size: "Medium", Year: 2020,
		FuelTankVolume: 50,
	}
	if got := New(nil).Validate(req, solvedModel(t, model.ICEVd, values)); len(got) != 0 {
		t.Fatalf("expected consistent tank override, got %v", got)
	}

	values[params.FuelMass] = 40
	got := New(nil).Validate(req, solvedModel(t, model.ICEVd, values))
	found := false
	for _, v := range got {
		if v.Parameter == params.FuelMass {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fuel mass violation for stale tank override, got %v", got)
	}
}

func TestValidateConsumptionByPowertrain(t *testing.T) {
	values := cleanValues()
	values[params.FuelConsumption] = 0.032 // must be zero for a BEV
	values[params.ElectricityConsumption] = 0.18
	values[params.CombustionPowerShare] = 0
	values[params.ElectricUtilityFactor] = 1
	req := model.Request{VehicleType: model.Car, Powertrain: model.BEV, Size: "Medium", Year: 2020}

	got := New(nil).Validate(req, solvedModel(t, model.BEV, values))
	found := false
	for _, v := range got {
		if v.Parameter == params.FuelConsumption && v.Rule == "must be zero for battery electric" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected BEV fuel consumption violation, got %v", got)
	}
}
