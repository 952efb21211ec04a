package main

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/romainsacchi/carculator/core/model"
)

// FleetConfig holds parameters for bulk fleet generation.
type FleetConfig struct {
	Size       int
	InvalidPct float64
	Countries  []string
	Seed       uint64
}

// classScope enumerates what the generator may order per vehicle class.
var classScope = map[model.VehicleClass]struct {
	powertrains []model.Powertrain
	sizes       []string
	years       []int
}{
	model.Car: {
		powertrains: []model.Powertrain{model.ICEVd, model.ICEVp, model.HEVd, model.PHEVp, model.BEV},
		sizes:       []string{"Small", "Lower medium", "Medium", "Large", "SUV"},
		years:       []int{2010, 2020, 2025, 2030},
	},
	model.Truck: {
		powertrains: []model.Powertrain{model.ICEVd, model.ICEVg, model.BEV},
		sizes:       []string{"3.5t", "7.5t", "18t", "26t", "40t"},
		years:       []int{2010, 2020, 2025, 2030},
	},
	model.Bus: {
		powertrains: []model.Powertrain{model.ICEVd, model.BEV},
		sizes:       []string{"9m", "13m-city", "13m-coach", "18m"},
		years:       []int{2010, 2020, 2025, 2030},
	},
	model.TwoWheeler: {
		powertrains: []model.Powertrain{model.ICEVp, model.BEV},
		sizes:       []string{"<4kW", "4-11kW", ">11kW"},
		years:       []int{2010, 2020},
	},
}

// classes weights passenger cars higher, the way real request traffic does.
var classes = []model.VehicleClass{
	model.Car, model.Car, model.Car,
	model.Truck, model.Bus, model.TwoWheeler,
}

// GenerateFleet creates Size requests with IDs sim0001..simNNNN, all bound
// for one randomly chosen country. The same seed reproduces the same fleet.
func GenerateFleet(cfg FleetConfig) (string, []model.Request) {
	if cfg.Size <= 0 {
		return "", nil
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	rng := rand.New(src)
	country := "CH"
	if len(cfg.Countries) > 0 {
		country = cfg.Countries[rng.IntN(len(cfg.Countries))]
	}

	reqs := make([]model.Request, cfg.Size)
	for i := range reqs {
		class := classes[rng.IntN(len(classes))]
		scope := classScope[class]
		pt := scope.powertrains[rng.IntN(len(scope.powertrains))]
		req := model.Request{
			ID:          fmt.Sprintf("sim%04d", i+1),
			VehicleType: class,
			Powertrain:  pt,
			Size:        scope.sizes[rng.IntN(len(scope.sizes))],
			Year:        scope.years[rng.IntN(len(scope.years))],
		}
		switch {
		case pt.IsHybrid():
			total := distuv.Uniform{Min: 80, Max: 140, Src: src}.Rand()
			req.TotalEnginePower = total
			req.PrimaryEnginePower = total * distuv.Uniform{Min: 0.5, Max: 0.8, Src: src}.Rand()
		case pt.IsPlugin():
			curb := distuv.Uniform{Min: 1350, Max: 1750, Src: src}.Rand()
			power := distuv.Uniform{Min: 95, Max: 140, Src: src}.Rand()
			req.CurbMass = curb
			req.DrivingMass = curb + distuv.Uniform{Min: 120, Max: 280, Src: src}.Rand()
			req.Power = power
			req.PrimaryPower = power * distuv.Uniform{Min: 0.5, Max: 0.75, Src: src}.Rand()
			req.TtWEnergy = distuv.Uniform{Min: 1600, Max: 2300, Src: src}.Rand()
			req.FuelConsumption = distuv.Uniform{Min: 3.5, Max: 5.5, Src: src}.Rand()
			req.ElectricityConsumption = distuv.Uniform{Min: 9, Max: 15, Src: src}.Rand()
			req.ElectricEnergyStored = distuv.Uniform{Min: 8, Max: 14, Src: src}.Rand()
		}
		// A slice of the traffic carries masses that cannot validate, to
		// exercise the rejection path end to end.
		if cfg.InvalidPct > 0 && rng.Float64() < cfg.InvalidPct {
			req.CurbMass = 2200
			req.DrivingMass = 1000
		}
		reqs[i] = req
	}
	return country, reqs
}
