// Package inventory turns a solved vehicle model into per-kilometre
// environmental impact scores. The inventory covers direct exhaust, the fuel
// supply chain, the country-specific electricity chain and manufacturing
// amortized over the vehicle lifetime, characterized into impact categories
// through a factor matrix.
package inventory

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/romainsacchi/carculator/core/logger"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/vehicle"
)

// Flow vector layout. Each flow is per vehicle-kilometre.
const (
	flowTailpipeCO2 = iota // kg CO2
	flowFuel               // MJ burned
	flowElectricity        // kWh drawn from the grid
	flowBattery            // kg battery, lifetime-amortized
	flowGlider             // kg rest-of-vehicle, lifetime-amortized
	numFlows
)

var categories = []struct {
	name string
	unit string
}{
	{CategoryClimateChange, UnitClimateChange},
	{CategoryPrimaryEnergy, UnitPrimaryEnergy},
	{CategoryParticulateMatter, UnitParticulateMatter},
}

// Calculator computes impact scores for solved models.
type Calculator struct {
	log logger.Logger
}

// New returns a Calculator.
func New(log logger.Logger) *Calculator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Calculator{log: log}
}

// CalculateImpacts characterizes the requested powertrain row of the model.
// The model must carry a pinned powertrain and a solved table.
func (c *Calculator) CalculateImpacts(ctx context.Context, m *vehicle.Model) (*ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pt := m.Pins.Powertrain
	if pt == "" {
		return nil, fmt.Errorf("inventory: model carries no requested powertrain")
	}
	if !m.Table().HasPowertrain(pt) {
		return nil, fmt.Errorf("inventory: powertrain %s missing from the model table", pt)
	}
	sizes := m.Table().Sizes()
	if len(sizes) != 1 {
		return nil, fmt.Errorf("inventory: expected a single size, table has %d", len(sizes))
	}
	size := sizes[0]
	year := m.Year()

	flows, err := flowVector(m, pt, size, year)
	if err != nil {
		return nil, err
	}
	factors := c.factorMatrix(m.Country, pt)

	var impacts mat.VecDense
	impacts.MulVec(factors, flows)

	rs := &ResultSet{Powertrain: pt, Size: size, Year: year, Country: m.Country}
	for i, cat := range categories {
		rs.Scores = append(rs.Scores, Score{
			Category: cat.name,
			Unit:     cat.unit,
			PerKm:    []float64{impacts.AtVec(i)},
		})
	}
	c.log.Debugf("characterized %s %s %d for %s", pt, size, year, m.Country)
	return rs, nil
}

// flowVector assembles the per-kilometre inventory flows of one row.
func flowVector(m *vehicle.Model, pt model.Powertrain, size string, year int) (*mat.VecDense, error) {
	t := m.Table()
	lifetime := t.Get(pt, size, year, params.LifetimeKilometers)
	if lifetime <= 0 {
		return nil, fmt.Errorf("inventory: non-positive lifetime kilometers for %s %s", pt, size)
	}

	flows := make([]float64, numFlows)
	if spec, ok := params.FuelFor(pt); ok {
		fuelKgPerKm := t.Get(pt, size, year, params.FuelConsumption) * spec.Density
		flows[flowTailpipeCO2] = fuelKgPerKm * spec.CO2PerKg
		flows[flowFuel] = fuelKgPerKm * spec.LowerHeatingVal
	}
	flows[flowElectricity] = t.Get(pt, size, year, params.ElectricityConsumption)

	battery := t.Get(pt, size, year, params.EnergyBatteryMass)
	rest := t.Get(pt, size, year, params.CurbMass) - battery
	if rest < 0 {
		rest = 0
	}
	flows[flowBattery] = battery / lifetime
	flows[flowGlider] = rest / lifetime

	return mat.NewVecDense(numFlows, flows), nil
}

// factorMatrix builds the characterization matrix (categories x flows) for a
// use country and powertrain fuel.
func (c *Calculator) factorMatrix(country string, pt model.Powertrain) *mat.Dense {
	elec, known := electricityFor(country)
	if !known {
		c.log.Warnf("no electricity mix for country %q, using %s average", country, fallbackMix)
	}
	var fuel chainFactors
	if spec, ok := params.FuelFor(pt); ok {
		fuel = fuelChains[spec.Name]
	}

	cf := mat.NewDense(len(categories), numFlows, nil)
	setColumn := func(flow int, f chainFactors) {
		cf.Set(0, flow, f.ClimateChange)
		cf.Set(1, flow, f.PrimaryEnergy)
		cf.Set(2, flow, f.ParticulateMatter)
	}
	setColumn(flowTailpipeCO2, chainFactors{ClimateChange: 1})
	setColumn(flowFuel, fuel)
	setColumn(flowElectricity, elec)
	setColumn(flowBattery, batteryChain)
	setColumn(flowGlider, gliderChain)
	return cf
}
