package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/romainsacchi/carculator/core/model"
)

// VehicleDef describes one fleet request in a scenario file.
type VehicleDef struct {
	ID                     string  `yaml:"id"`
	VehicleType            string  `yaml:"vehicle_type"`
	Powertrain             string  `yaml:"powertrain"`
	Size                   string  `yaml:"size"`
	Year                   int     `yaml:"year"`
	Power                  float64 `yaml:"power,omitempty"`
	CurbMass               float64 `yaml:"curb_mass,omitempty"`
	DrivingMass            float64 `yaml:"driving_mass,omitempty"`
	TtWEnergy              float64 `yaml:"ttw_energy,omitempty"`
	FuelTankVolume         float64 `yaml:"fuel_tank_volume,omitempty"`
	FuelConsumption        float64 `yaml:"fuel_consumption,omitempty"`
	ElectricityConsumption float64 `yaml:"electricity_consumption,omitempty"`
	Range                  float64 `yaml:"range,omitempty"`
	ElectricEnergyStored   float64 `yaml:"electric_energy_stored,omitempty"`
	BatteryTechnology      string  `yaml:"battery_technology,omitempty"`
	PrimaryEnginePower     float64 `yaml:"primary_engine_power,omitempty"`
	TotalEnginePower       float64 `yaml:"total_engine_power,omitempty"`
	PrimaryPower           float64 `yaml:"primary_power,omitempty"`
}

func (v VehicleDef) ToRequest() model.Request {
	return model.Request{
		ID:                     v.ID,
		VehicleType:            model.VehicleClass(v.VehicleType),
		Powertrain:             model.Powertrain(v.Powertrain),
		Size:                   v.Size,
		Year:                   v.Year,
		Power:                  v.Power,
		CurbMass:               v.CurbMass,
		DrivingMass:            v.DrivingMass,
		TtWEnergy:              v.TtWEnergy,
		FuelTankVolume:         v.FuelTankVolume,
		FuelConsumption:        v.FuelConsumption,
		ElectricityConsumption: v.ElectricityConsumption,
		Range:                  v.Range,
		ElectricEnergyStored:   v.ElectricEnergyStored,
		BatteryTechnology:      v.BatteryTechnology,
		PrimaryEnginePower:     v.PrimaryEnginePower,
		TotalEnginePower:       v.TotalEnginePower,
		PrimaryPower:           v.PrimaryPower,
	}
}

// Expected states the outcome a scenario must produce.
type Expected struct {
	Accepted int `yaml:"accepted"`
	Rejected int `yaml:"rejected"`
	// MaxClimatePerKm bounds the representative climate change score of
	// every accepted vehicle when positive.
	MaxClimatePerKm float64 `yaml:"max_climate_per_km,omitempty"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Country     string       `yaml:"country,omitempty"`
	Iterations  int          `yaml:"iterations,omitempty"`
	Vehicles    []VehicleDef `yaml:"vehicles"`
	Expected    Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
