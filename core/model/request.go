package model

import "fmt"

// VehicleClass identifies the fleet segment a request belongs to. Each
// class has its own base parameter dataset and size vocabulary.
type VehicleClass string

const (
	Car        VehicleClass = "car"
	Truck      VehicleClass = "truck"
	Bus        VehicleClass = "bus"
	TwoWheeler VehicleClass = "two_wheeler"
)

// VehicleClasses lists every supported vehicle class.
func VehicleClasses() []VehicleClass {
	return []VehicleClass{Car, Truck, Bus, TwoWheeler}
}

// IsValid reports whether vc is a known vehicle class.
func (vc VehicleClass) IsValid() bool {
	switch vc {
	case Car, Truck, Bus, TwoWheeler:
		return true
	}
	return false
}

func (vc VehicleClass) String() string { return string(vc) }

// Request carries one vehicle calculation order. The JSON field names match
// the upstream fleet data exchange format, which mixes snake_case keys with
// spaced keys; they must not be renamed.
//
// All override fields are optional. A zero or missing value means "keep the
// model's own estimate"; the pipeline only consumes overrides that are
// strictly positive.
type Request struct {
	// ID correlates the request with its result. Assigned by the caller,
	// or generated server-side when empty.
	ID string `json:"id,omitempty"`

	VehicleType VehicleClass `json:"vehicle_type"`
	Powertrain  Powertrain   `json:"powertrain"`
	Size        string       `json:"size"`
	Year        int          `json:"year"`

	// Nameplate data used before the model run.
	FuelTankVolume float64 `json:"fuel tank volume,omitempty"` // L
	CurbMass       float64 `json:"curb mass,omitempty"`        // kg
	Power          float64 `json:"power,omitempty"`            // kW

	// Measured data folded in after the model run.
	DrivingMass            float64 `json:"driving mass,omitempty"`            // kg
	TtWEnergy              float64 `json:"TtW energy,omitempty"`              // kJ/km
	FuelConsumption        float64 `json:"fuel consumption,omitempty"`        // L/100 km
	ElectricityConsumption float64 `json:"electricity consumption,omitempty"` // kWh/100 km
	Range                  float64 `json:"range,omitempty"`                   // km

	// Battery data, consumed by the model constructor.
	ElectricEnergyStored float64 `json:"electric energy stored,omitempty"` // kWh
	BatteryTechnology    string  `json:"battery technology,omitempty"`

	// Engine split, required for full hybrids.
	PrimaryEnginePower float64 `json:"primary_engine_power,omitempty"` // kW
	TotalEnginePower   float64 `json:"total_engine_power,omitempty"`   // kW
	PrimaryPower       float64 `json:"primary power,omitempty"`        // kW
}

// Validate checks the request's identity fields and the consistency of the
// optional overrides. It does not check overrides against the base dataset;
// that happens when the pipeline runs.
func (r *Request) Validate() error {
	if !r.VehicleType.IsValid() {
		return &InvalidOverrideError{Field: "vehicle_type", Reason: fmt.Sprintf("unknown vehicle class %q", r.VehicleType)}
	}
	if !r.Powertrain.IsValid() {
		return &InvalidOverrideError{Field: "powertrain", Reason: fmt.Sprintf("unknown powertrain %q", r.Powertrain)}
	}
	if r.Powertrain.IsChargeSustaining() {
		return &InvalidOverrideError{Field: "powertrain", Reason: fmt.Sprintf("%s is an internal operating point, not an orderable powertrain", r.Powertrain)}
	}
	if r.Size == "" {
		return &InvalidOverrideError{Field: "size", Reason: "size is required"}
	}
	if r.Year <= 0 {
		return &InvalidOverrideError{Field: "year", Reason: "year is required"}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"fuel tank volume", r.FuelTankVolume},
		{"curb mass", r.CurbMass},
		{"power", r.Power},
		{"driving mass", r.DrivingMass},
		{"TtW energy", r.TtWEnergy},
		{"fuel consumption", r.FuelConsumption},
		{"electricity consumption", r.ElectricityConsumption},
		{"range", r.Range},
		{"electric energy stored", r.ElectricEnergyStored},
		{"primary_engine_power", r.PrimaryEnginePower},
		{"total_engine_power", r.TotalEnginePower},
		{"primary power", r.PrimaryPower},
	} {
		if f.value < 0 {
			return &InvalidOverrideError{Field: f.name, Reason: "must not be negative"}
		}
	}
	// Full hybrids need the engine split to derive their combustion power
	// share; plug-in hybrids need the full measured set for the range
	// correction. Their absence used to surface as a lookup crash deep in
	// the pipeline, so they are checked up front instead.
	if r.Powertrain.IsHybrid() {
		if r.PrimaryEnginePower <= 0 {
			return &InvalidOverrideError{Field: "primary_engine_power", Reason: "required for full hybrids"}
		}
		if r.TotalEnginePower <= 0 {
			return &InvalidOverrideError{Field: "total_engine_power", Reason: "required for full hybrids"}
		}
		if r.PrimaryEnginePower > r.TotalEnginePower {
			return &InvalidOverrideError{Field: "primary_engine_power", Reason: "exceeds total_engine_power"}
		}
	}
	if r.Powertrain.IsPlugin() {
		for _, f := range []struct {
			name  string
			value float64
		}{
			{"curb mass", r.CurbMass},
			{"power", r.Power},
			{"primary power", r.PrimaryPower},
			{"driving mass", r.DrivingMass},
			{"TtW energy", r.TtWEnergy},
			{"fuel consumption", r.FuelConsumption},
			{"electricity consumption", r.ElectricityConsumption},
			{"electric energy stored", r.ElectricEnergyStored},
		} {
			if f.value <= 0 {
				return &InvalidOverrideError{Field: f.name, Reason: "required for plug-in hybrids"}
			}
		}
		if r.PrimaryPower > r.Power {
			return &InvalidOverrideError{Field: "primary power", Reason: "exceeds power"}
		}
	}
	return nil
}
