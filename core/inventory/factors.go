package inventory

// chainFactors are the impact intensities of one supply chain, expressed per
// unit of the flow they characterize.
type chainFactors struct {
	ClimateChange     float64
	PrimaryEnergy     float64
	ParticulateMatter float64
}

// fuelChains characterizes the well-to-tank chain plus non-CO2 exhaust per MJ
// of fuel burned, keyed by fuel name.
var fuelChains = map[string]chainFactors{
	"diesel":         {ClimateChange: 0.0181, PrimaryEnergy: 1.19, ParticulateMatter: 8.5e-6},
	"petrol":         {ClimateChange: 0.0196, PrimaryEnergy: 1.21, ParticulateMatter: 6.0e-6},
	"compressed gas": {ClimateChange: 0.0123, PrimaryEnergy: 1.13, ParticulateMatter: 3.1e-6},
	"hydrogen":       {ClimateChange: 0.0915, PrimaryEnergy: 1.62, ParticulateMatter: 4.4e-6},
}

// electricityChains characterizes national low-voltage mixes per kWh drawn
// from the grid, charging losses included.
var electricityChains = map[string]chainFactors{
	"CH": {ClimateChange: 0.041, PrimaryEnergy: 7.2, ParticulateMatter: 6.0e-6},
	"NO": {ClimateChange: 0.019, PrimaryEnergy: 4.1, ParticulateMatter: 3.2e-6},
	"SE": {ClimateChange: 0.024, PrimaryEnergy: 5.6, ParticulateMatter: 4.1e-6},
	"FR": {ClimateChange: 0.062, PrimaryEnergy: 11.1, ParticulateMatter: 8.7e-6},
	"AT": {ClimateChange: 0.110, PrimaryEnergy: 6.4, ParticulateMatter: 1.3e-5},
	"GB": {ClimateChange: 0.231, PrimaryEnergy: 8.1, ParticulateMatter: 3.4e-5},
	"IT": {ClimateChange: 0.278, PrimaryEnergy: 8.8, ParticulateMatter: 4.4e-5},
	"ES": {ClimateChange: 0.196, PrimaryEnergy: 7.9, ParticulateMatter: 2.9e-5},
	"DE": {ClimateChange: 0.348, PrimaryEnergy: 9.0, ParticulateMatter: 5.9e-5},
	"PL": {ClimateChange: 0.661, PrimaryEnergy: 10.8, ParticulateMatter: 1.4e-4},
	"EU": {ClimateChange: 0.247, PrimaryEnergy: 8.5, ParticulateMatter: 4.0e-5},
	"US": {ClimateChange: 0.379, PrimaryEnergy: 9.6, ParticulateMatter: 7.1e-5},
	"CN": {ClimateChange: 0.549, PrimaryEnergy: 10.4, ParticulateMatter: 1.2e-4},
	"JP": {ClimateChange: 0.462, PrimaryEnergy: 9.8, ParticulateMatter: 6.3e-5},
	"IN": {ClimateChange: 0.708, PrimaryEnergy: 11.2, ParticulateMatter: 1.6e-4},
}

// fallbackMix stands in for countries without a dedicated mix.
const fallbackMix = "EU"

// Manufacturing chains per kg of component, amortized by the caller over the
// vehicle lifetime.
var (
	batteryChain = chainFactors{ClimateChange: 11.8, PrimaryEnergy: 152.0, ParticulateMatter: 5.2e-5}
	gliderChain  = chainFactors{ClimateChange: 4.9, PrimaryEnergy: 78.0, ParticulateMatter: 2.1e-5}
)

// electricityFor resolves the grid factors for a country code, falling back
// to the European average.
func electricityFor(country string) (chainFactors, bool) {
	if f, ok := electricityChains[country]; ok {
		return f, true
	}
	return electricityChains[fallbackMix], false
}
