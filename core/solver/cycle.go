package solver

import (
	"fmt"
	"sort"

	"github.com/romainsacchi/carculator/core/model"
)

// cycleModel linearizes a driving cycle's mechanical energy demand per km:
// a mass-independent share (mostly aerodynamic) plus a per-kg share
// (rolling resistance and acceleration work). The electric path efficiency
// is the tank-to-wheel efficiency of driving on stored electricity, used
// for the electric share of plug-in operation.
type cycleModel struct {
	FixedDemand            float64 // kJ/km
	DemandPerMass          float64 // kJ/km per kg driving mass
	ElectricPathEfficiency float64
}

var cycleModels = map[model.VehicleClass]map[string]cycleModel{
	model.Car: {
		"WLTC": {FixedDemand: 180, DemandPerMass: 0.24, ElectricPathEfficiency: 0.85},
		"NEDC": {FixedDemand: 150, DemandPerMass: 0.22, ElectricPathEfficiency: 0.85},
	},
	model.Truck: {
		"WLTC":              {FixedDemand: 1000, DemandPerMass: 0.13, ElectricPathEfficiency: 0.85},
		"Urban delivery":    {FixedDemand: 1250, DemandPerMass: 0.16, ElectricPathEfficiency: 0.85},
		"Regional delivery": {FixedDemand: 1000, DemandPerMass: 0.13, ElectricPathEfficiency: 0.85},
		"Long haul":         {FixedDemand: 900, DemandPerMass: 0.11, ElectricPathEfficiency: 0.85},
	},
	model.Bus: {
		"WLTC":  {FixedDemand: 2000, DemandPerMass: 0.25, ElectricPathEfficiency: 0.85},
		"Urban": {FixedDemand: 2300, DemandPerMass: 0.28, ElectricPathEfficiency: 0.85},
	},
	model.TwoWheeler: {
		"WLTC": {FixedDemand: 110, DemandPerMass: 0.35, ElectricPathEfficiency: 0.85},
		"WMTC": {FixedDemand: 120, DemandPerMass: 0.37, ElectricPathEfficiency: 0.85},
	},
}

func cycleFor(class model.VehicleClass, cycle string) (cycleModel, error) {
	byCycle, ok := cycleModels[class]
	if !ok {
		return cycleModel{}, fmt.Errorf("no driving cycles for vehicle class %q", class)
	}
	cm, ok := byCycle[cycle]
	if !ok {
		return cycleModel{}, fmt.Errorf("driving cycle %q not available for %s (have %v)", cycle, class, Cycles(class))
	}
	return cm, nil
}

// Cycles lists the driving cycles supported for a vehicle class.
func Cycles(class model.VehicleClass) []string {
	byCycle := cycleModels[class]
	names := make([]string, 0, len(byCycle))
	for name := range byCycle {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
