package inventory

import (
	"context"
	"testing"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/vehicle"
)

func solvedModel(t *testing.T, pt model.Powertrain, country string, values map[string]float64) *vehicle.Model {
	t.Helper()
	table := params.New([]model.Powertrain{pt}, []string{"Medium"}, []int{2020}, nil)
	for name, v := range values {
		table.Set(v, pt, "Medium", 2020, name)
	}
	m, err := vehicle.New(model.Car, table, vehicle.Options{
		Country: country,
		Cycle:   "WLTC",
		Pins:    vehicle.Pins{Powertrain: pt},
	})
	if err != nil {
		t.Fatalf("vehicle.New: %v", err)
	}
	return m
}

func dieselValues() map[string]float64 {
	return map[string]float64{
		params.FuelConsumption:    0.055, // L/km
		params.CurbMass:           1300,
		params.EnergyBatteryMass:  2,
		params.LifetimeKilometers: 200000,
	}
}

func bevValues() map[string]float64 {
	return map[string]float64{
		params.ElectricityConsumption: 0.18, // kWh/km
		params.CurbMass:               1600,
		params.EnergyBatteryMass:      300,
		params.LifetimeKilometers:     200000,
	}
}

func TestCalculateImpactsCombustion(t *testing.T) {
	m := solvedModel(t, model.ICEVd, "CH", dieselValues())
	rs, err := New(nil).CalculateImpacts(context.Background(), m)
	if err != nil {
		t.Fatalf("CalculateImpacts: %v", err)
	}
	if rs.Values() != 1 {
		t.Fatalf("expected a single value draw, got %d", rs.Values())
	}

	climate, ok := rs.Score(CategoryClimateChange)
	if !ok {
		t.Fatalf("missing climate change score")
	}
	// 0.055 L/km of diesel is 0.04675 kg/km burning to ~0.147 kg CO2/km
	// tailpipe; chains and manufacturing add roughly another 0.07.
	if got := climate.PerKm[0]; got < 0.15 || got > 0.30 {
		t.Fatalf("diesel climate score out of band: %f", got)
	}

	energy, _ := rs.Score(CategoryPrimaryEnergy)
	// ~2 MJ/km of fuel at a primary energy factor just above 1.
	if got := energy.PerKm[0]; got < 2.0 || got > 4.0 {
		t.Fatalf("diesel primary energy out of band: %f", got)
	}

	pm, _ := rs.Score(CategoryParticulateMatter)
	if pm.PerKm[0] <= 0 {
		t.Fatalf("expected positive particulate score, got %f", pm.PerKm[0])
	}
}

func TestCalculateImpactsGridSensitivity(t *testing.T) {
	ch, err := New(nil).CalculateImpacts(context.Background(), solvedModel(t, model.BEV, "CH", bevValues()))
	if err != nil {
		t.Fatalf("CH: %v", err)
	}
	de, err := New(nil).CalculateImpacts(context.Background(), solvedModel(t, model.BEV, "DE", bevValues()))
	if err != nil {
		t.Fatalf("DE: %v", err)
	}
	chClimate, _ := ch.Score(CategoryClimateChange)
	deClimate, _ := de.Score(CategoryClimateChange)
	if chClimate.PerKm[0] >= deClimate.PerKm[0] {
		t.Fatalf("expected Swiss grid below German grid: CH=%f DE=%f",
			chClimate.PerKm[0], deClimate.PerKm[0])
	}

	// A BEV on a clean grid undercuts the diesel's climate score.
	icev, err := New(nil).CalculateImpacts(context.Background(), solvedModel(t, model.ICEVd, "CH", dieselValues()))
	if err != nil {
		t.Fatalf("ICEV: %v", err)
	}
	icevClimate, _ := icev.Score(CategoryClimateChange)
	if chClimate.PerKm[0] >= icevClimate.PerKm[0] {
		t.Fatalf("expected BEV on CH grid below diesel: BEV=%f ICEV=%f",
			chClimate.PerKm[0], icevClimate.PerKm[0])
	}
}

func TestCalculateImpactsUnknownCountryFallsBack(t *testing.T) {
	got, err := New(nil).CalculateImpacts(context.Background(), solvedModel(t, model.BEV, "ZZ", bevValues()))
	if err != nil {
		t.Fatalf("ZZ: %v", err)
	}
	eu, err := New(nil).CalculateImpacts(context.Background(), solvedModel(t, model.BEV, "EU", bevValues()))
	if err != nil {
		t.Fatalf("EU: %v", err)
	}
	g, _ := got.Score(CategoryClimateChange)
	e, _ := eu.Score(CategoryClimateChange)
	if g.PerKm[0] != e.PerKm[0] {
		t.Fatalf("unknown country should use the EU mix: got %f want %f", g.PerKm[0], e.PerKm[0])
	}
}

func TestCalculateImpactsErrors(t *testing.T) {
	t.Run("no pinned powertrain", func(t *testing.T) {
		table := params.New([]model.Powertrain{model.BEV}, []string{"Medium"}, []int{2020}, nil)
		table.Set(200000, model.BEV, "Medium", 2020, params.LifetimeKilometers)
		m, err := vehicle.New(model.Car, table, vehicle.Options{Country: "CH", Cycle: "WLTC"})
		if err != nil {
			t.Fatalf("vehicle.New: %v", err)
		}
		if _, err := New(nil).CalculateImpacts(context.Background(), m); err == nil {
			t.Fatalf("expected error without pinned powertrain")
		}
	})

	t.Run("zero lifetime", func(t *testing.T) {
		values := bevValues()
		values[params.LifetimeKilometers] = 0
		m := solvedModel(t, model.BEV, "CH", values)
		if _, err := New(nil).CalculateImpacts(context.Background(), m); err == nil {
			t.Fatalf("expected error for zero lifetime")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := solvedModel(t, model.BEV, "CH", bevValues())
		if _, err := New(nil).CalculateImpacts(ctx, m); err == nil {
			t.Fatalf("expected context error")
		}
	})
}

func TestResultSetMerge(t *testing.T) {
	m := solvedModel(t, model.BEV, "CH", bevValues())
	first, err := New(nil).CalculateImpacts(context.Background(), m)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := New(nil).CalculateImpacts(context.Background(), m)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if err := first.Merge(second); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if first.Values() != 2 {
		t.Fatalf("expected 2 draws after merge, got %d", first.Values())
	}
	rep := first.Representative()
	if len(rep) != 3 {
		t.Fatalf("expected 3 representative scores, got %d", len(rep))
	}
	for _, iv := range rep {
		s, _ := first.Score(iv.Category)
		if iv.PerKm != s.PerKm[0] {
			t.Fatalf("representative must be draw 0 for %s", iv.Category)
		}
	}

	other := *second
	other.Size = "Large"
	if err := first.Merge(&other); err == nil {
		t.Fatalf("expected merge error for different vehicles")
	}
}
