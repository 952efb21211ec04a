package params

// Canonical parameter names. They follow the vocabulary of the fleet
// inventory datasets, spaces included, and are the only keys accepted by
// Table. Values live in the units noted per group; conversions happen at
// the edges (request decoding, export), never inside the table.
const (
	// Masses, kg.
	GliderBaseMass       = "glider base mass"
	CurbMass             = "curb mass"
	DrivingMass          = "driving mass"
	CargoMass            = "cargo mass"
	PassengerMass        = "passenger mass"
	CombustionEngineMass = "combustion engine mass"
	ElectricEngineMass   = "electric engine mass"
	PowertrainMass       = "powertrain mass"
	FuelMass             = "fuel mass"
	FuelTankMass         = "fuel tank mass"
	EnergyBatteryMass    = "energy battery mass"

	// Occupancy, persons.
	AveragePassengers = "average passengers"

	// Power, kW.
	Power           = "power"
	CombustionPower = "combustion power"
	ElectricPower   = "electric power"

	// Component sizing. Power-to-mass ratio is W/kg, mass-per-power
	// coefficients are kg/kW, fixed masses kg, shares fractions of one.
	PowerToMassRatio       = "power to mass ratio"
	CombustionPowerShare   = "combustion power share"
	CombustionMassPerPower = "combustion mass per power"
	CombustionFixedMass    = "combustion fixed mass"
	ElectricMassPerPower   = "electric mass per power"
	ElectricFixedMass      = "electric fixed mass"
	FuelTankMassPerFuel    = "fuel tank mass per fuel"

	// Energy storage. Stored energy in kWh, cell energy density kWh/kg,
	// cell mass share and depth of discharge fractions of one.
	ElectricEnergyStored     = "electric energy stored"
	BatteryCellEnergyDensity = "battery cell energy density"
	BatteryCellMassShare     = "battery cell mass share"
	BatteryDoD               = "battery DoD"

	// Energy use per km: TtW energy in kJ/km, fuel in L/km, electricity
	// in kWh/km, range in km, efficiency and utility factor fractions.
	TtWEnergy              = "TtW energy"
	TtWEfficiency          = "TtW efficiency"
	FuelConsumption        = "fuel consumption"
	ElectricityConsumption = "electricity consumption"
	ElectricUtilityFactor  = "electric utility factor"
	Range                  = "range"

	// Usage, km.
	LifetimeKilometers = "lifetime kilometers"
	KilometersPerYear  = "kilometers per year"
)

// Names returns every canonical parameter name in table axis order.
func Names() []string {
	return []string{
		GliderBaseMass,
		CurbMass,
		DrivingMass,
		CargoMass,
		PassengerMass,
		CombustionEngineMass,
		ElectricEngineMass,
		PowertrainMass,
		FuelMass,
		FuelTankMass,
		EnergyBatteryMass,
		AveragePassengers,
		Power,
		CombustionPower,
		ElectricPower,
		PowerToMassRatio,
		CombustionPowerShare,
		CombustionMassPerPower,
		CombustionFixedMass,
		ElectricMassPerPower,
		ElectricFixedMass,
		FuelTankMassPerFuel,
		ElectricEnergyStored,
		BatteryCellEnergyDensity,
		BatteryCellMassShare,
		BatteryDoD,
		TtWEnergy,
		TtWEfficiency,
		FuelConsumption,
		ElectricityConsumption,
		ElectricUtilityFactor,
		Range,
		LifetimeKilometers,
		KilometersPerYear,
	}
}
