package params

import "github.com/romainsacchi/carculator/core/model"

// FuelSpec describes the fuel carried by a combustion or fuel cell
// powertrain. Compressed fuels use the density at their usual storage
// pressure (200 bar for natural gas, 700 bar for hydrogen).
type FuelSpec struct {
	Name            string
	Density         float64 // kg/L
	LowerHeatingVal float64 // MJ/kg
	CO2PerKg        float64 // kg CO2 per kg fuel burned
}

var (
	diesel   = FuelSpec{Name: "diesel", Density: 0.85, LowerHeatingVal: 43.0, CO2PerKg: 3.15}
	petrol   = FuelSpec{Name: "petrol", Density: 0.75, LowerHeatingVal: 42.6, CO2PerKg: 3.18}
	gas      = FuelSpec{Name: "compressed gas", Density: 0.18, LowerHeatingVal: 47.5, CO2PerKg: 2.68}
	hydrogen = FuelSpec{Name: "hydrogen", Density: 0.042, LowerHeatingVal: 120.0, CO2PerKg: 0}
)

var fuelByPowertrain = map[model.Powertrain]FuelSpec{
	model.ICEVd:  diesel,
	model.ICEVp:  petrol,
	model.ICEVg:  gas,
	model.HEVd:   diesel,
	model.HEVp:   petrol,
	model.PHEVd:  diesel,
	model.PHEVp:  petrol,
	model.PHEVcd: diesel,
	model.PHEVcp: petrol,
	model.FCEV:   hydrogen,
}

// FuelFor returns the fuel carried by pt. ok is false for battery electric
// powertrains, which carry none.
func FuelFor(pt model.Powertrain) (FuelSpec, bool) {
	spec, ok := fuelByPowertrain[pt]
	return spec, ok
}
