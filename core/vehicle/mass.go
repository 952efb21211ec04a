package vehicle

import (
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
)

// SetComponentMasses recomputes the mass of every sized component from the
// current powers and storage values: engines from their power and the
// per-kW coefficients, the tank from the fuel it holds, the battery from
// stored energy and cell properties. Fixed masses only apply to components
// that exist (no combustion fixed mass on a vehicle without an engine).
func (m *Model) SetComponentMasses() {
	t := m.table
	year := m.Year()
	for _, pt := range t.Powertrains() {
		for _, size := range t.Sizes() {
			combPower := t.Get(pt, size, year, params.CombustionPower)
			elecPower := t.Get(pt, size, year, params.ElectricPower)

			combMass := combPower * t.Get(pt, size, year, params.CombustionMassPerPower)
			if combPower > 0 {
				combMass += t.Get(pt, size, year, params.CombustionFixedMass)
			}
			elecMass := elecPower * t.Get(pt, size, year, params.ElectricMassPerPower)
			if elecPower > 0 {
				elecMass += t.Get(pt, size, year, params.ElectricFixedMass)
			}
			t.Set(combMass, pt, size, year, params.CombustionEngineMass)
			t.Set(elecMass, pt, size, year, params.ElectricEngineMass)
			t.Set(combMass+elecMass, pt, size, year, params.PowertrainMass)

			fuelMass := t.Get(pt, size, year, params.FuelMass)
			t.Set(fuelMass*t.Get(pt, size, year, params.FuelTankMassPerFuel), pt, size, year, params.FuelTankMass)

			t.Set(batteryMass(t, pt, size, year), pt, size, year, params.EnergyBatteryMass)
		}
	}
}

// batteryMass converts stored energy to pack mass via cell energy density
// and the cell share of pack mass. Rows without battery data weigh nothing.
func batteryMass(t *params.Table, pt model.Powertrain, size string, year int) float64 {
	stored := t.Get(pt, size, year, params.ElectricEnergyStored)
	if stored <= 0 {
		return 0
	}
	density := t.Get(pt, size, year, params.BatteryCellEnergyDensity)
	share := t.Get(pt, size, year, params.BatteryCellMassShare)
	if density <= 0 || share <= 0 {
		return 0
	}
	return stored / density / share
}

// SetVehicleMass recomputes curb and driving mass from the glider and the
// component masses. SetComponentMasses should have run first for the
// components to be current.
func (m *Model) SetVehicleMass() {
	t := m.table
	year := m.Year()
	for _, pt := range t.Powertrains() {
		for _, size := range t.Sizes() {
			curb := t.Get(pt, size, year, params.GliderBaseMass) +
				t.Get(pt, size, year, params.PowertrainMass) +
				t.Get(pt, size, year, params.EnergyBatteryMass) +
				t.Get(pt, size, year, params.FuelMass) +
				t.Get(pt, size, year, params.FuelTankMass)
			t.Set(curb, pt, size, year, params.CurbMass)

			driving := curb +
				t.Get(pt, size, year, params.AveragePassengers)*t.Get(pt, size, year, params.PassengerMass) +
				t.Get(pt, size, year, params.CargoMass)
			t.Set(driving, pt, size, year, params.DrivingMass)
		}
	}
}
