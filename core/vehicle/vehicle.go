package vehicle

import (
	"fmt"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
)

// Pins are request values the solver must honor instead of its own
// estimates. They apply to the pinned powertrain row only; sibling rows
// (the charge-sustaining twin of a plug-in) keep their dataset values.
// A zero pin means "not pinned".
type Pins struct {
	Powertrain model.Powertrain

	ElectricEnergyStored float64 // kWh
	BatteryTechnology    string
	Power                float64 // kW
	TargetCurbMass       float64 // kg
	TtWEnergy            float64 // kJ/km
}

// Options configure a vehicle model at construction.
type Options struct {
	Country string // ISO country code of the use location
	Cycle   string // driving cycle name
	Pins    Pins
}

// Model is the working state of one vehicle calculation: the scoped
// parameter table, its identity, and the solver pins. The impact results
// are attached once the inventory has run.
type Model struct {
	Class   model.VehicleClass
	Country string
	Cycle   string
	Pins    Pins

	table *params.Table

	// Results holds the computed impacts, nil until then. The concrete
	// type is owned by the inventory package; keeping it opaque here
	// avoids an import cycle.
	Results any
}

// New builds a model over a single-year scoped table. The pinned stored
// energy is written into the table immediately, mirroring how a battery
// capacity ordered by the caller replaces the dataset pack size before
// anything is solved.
func New(class model.VehicleClass, table *params.Table, opts Options) (*Model, error) {
	if table == nil {
		return nil, fmt.Errorf("vehicle: nil table")
	}
	if len(table.Years()) != 1 {
		return nil, fmt.Errorf("vehicle: table must carry exactly one year, has %d", len(table.Years()))
	}
	if opts.Country == "" {
		return nil, fmt.Errorf("vehicle: country is required")
	}
	if opts.Cycle == "" {
		return nil, fmt.Errorf("vehicle: cycle is required")
	}
	if opts.Pins.Powertrain != "" && !table.HasPowertrain(opts.Pins.Powertrain) {
		return nil, fmt.Errorf("vehicle: pinned powertrain %s not in table scope", opts.Pins.Powertrain)
	}
	if p := opts.Pins; p.Powertrain == "" &&
		(p.ElectricEnergyStored > 0 || p.BatteryTechnology != "" || p.Power > 0 || p.TargetCurbMass > 0 || p.TtWEnergy > 0) {
		return nil, fmt.Errorf("vehicle: pins set without a pinned powertrain")
	}
	m := &Model{
		Class:   class,
		Country: opts.Country,
		Cycle:   opts.Cycle,
		Pins:    opts.Pins,
		table:   table,
	}
	if p := opts.Pins; p.Powertrain != "" && p.ElectricEnergyStored > 0 {
		m.table.SetFor(p.Powertrain, params.ElectricEnergyStored, p.ElectricEnergyStored)
	}
	return m, nil
}

// Table returns the model's parameter table.
func (m *Model) Table() *params.Table { return m.table }

// Year returns the single year the model is resolved on.
func (m *Model) Year() int { return m.table.Years()[0] }

// PinnedRow reports whether pt is the row the pins apply to.
func (m *Model) PinnedRow(pt model.Powertrain) bool {
	return m.Pins.Powertrain != "" && m.Pins.Powertrain == pt
}

// DropCombinedVariants removes the charge-sustaining plug-in rows from the
// table. They exist so the plug-in correction can read the fuel-only range;
// once a car model is finalized they are modelling scaffolding, not
// vehicles, and are dropped from the deliverable.
func (m *Model) DropCombinedVariants() {
	var drop []model.Powertrain
	for _, pt := range m.table.Powertrains() {
		if pt.IsChargeSustaining() {
			drop = append(drop, pt)
		}
	}
	if len(drop) == 0 {
		return
	}
	m.table = m.table.DropPowertrains(drop...)
}
