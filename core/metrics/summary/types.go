package summary

import "time"

// Record aggregates calculation KPIs for one vehicle class and day.
type Record struct {
	VehicleClass string
	Date         time.Time
	Calculations int
	Rejections   int
	ClimateKgCO2 float64
}

// MeanClimatePerKm returns the mean climate change score per kilometre over
// the aggregated calculations, in kg CO2-eq/km.
func (r Record) MeanClimatePerKm() float64 {
	if r.Calculations == 0 {
		return 0
	}
	return r.ClimateKgCO2 / float64(r.Calculations)
}

// AcceptanceRate returns the share of requests that produced a result.
func (r Record) AcceptanceRate() float64 {
	total := r.Calculations + r.Rejections
	if total == 0 {
		return 0
	}
	return float64(r.Calculations) / float64(total)
}
