// Package registry wires each vehicle class to the collaborators that
// calculate it. The calculation pipeline only ever sees these interfaces;
// adding a vehicle class means registering one more entry.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/romainsacchi/carculator/core/inputs"
	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/logger"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/solver"
	"github.com/romainsacchi/carculator/core/vehicle"
)

// InputsProvider serves the default parameter data of a vehicle class.
type InputsProvider interface {
	Powertrains(class model.VehicleClass) ([]model.Powertrain, error)
	Sizes(class model.VehicleClass) ([]string, error)
	Years(class model.VehicleClass) ([]int, error)
	BaseTable(class model.VehicleClass, scope []model.Powertrain, sizes []string) (*params.Table, error)
	Sample(class model.VehicleClass, scope []model.Powertrain, sizes []string, seed uint64) (*params.Table, error)
}

// Solver resolves the physics of a vehicle model.
type Solver interface {
	Solve(m *vehicle.Model) error
	RecomputeComponentMasses(m *vehicle.Model)
	RecomputeVehicleMass(m *vehicle.Model)
}

// ImpactCalculator characterizes a solved model into impact scores.
type ImpactCalculator interface {
	CalculateImpacts(ctx context.Context, m *vehicle.Model) (*inventory.ResultSet, error)
}

// Entry bundles the collaborators of one vehicle class.
type Entry struct {
	Inputs    InputsProvider
	Solver    Solver
	Inventory ImpactCalculator
}

// Registry maps vehicle classes to their collaborator entries.
type Registry struct {
	mu      sync.RWMutex
	entries map[model.VehicleClass]Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[model.VehicleClass]Entry)}
}

// Register adds the entry for a vehicle class. Every collaborator must be
// set; registering a class twice replaces its entry.
func (r *Registry) Register(class model.VehicleClass, e Entry) error {
	if !class.IsValid() {
		return fmt.Errorf("registry: unknown vehicle class %q", class)
	}
	if e.Inputs == nil || e.Solver == nil || e.Inventory == nil {
		return fmt.Errorf("registry: incomplete entry for %s", class)
	}
	r.mu.Lock()
	r.entries[class] = e
	r.mu.Unlock()
	return nil
}

// For returns the entry registered for a vehicle class.
func (r *Registry) For(class model.VehicleClass) (Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[class]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, fmt.Errorf("registry: no entry for vehicle class %q", class)
	}
	return e, nil
}

// Classes returns the registered vehicle classes in sorted order.
func (r *Registry) Classes() []model.VehicleClass {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.VehicleClass, 0, len(r.entries))
	for class := range r.entries {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Default builds a registry covering every embedded vehicle class dataset,
// with all classes sharing one provider, solver and calculator.
func Default(log logger.Logger) (*Registry, error) {
	provider, err := inputs.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("registry: loading datasets: %w", err)
	}
	entry := Entry{
		Inputs:    provider,
		Solver:    solver.New(log),
		Inventory: inventory.New(log),
	}
	r := New()
	for _, class := range model.VehicleClasses() {
		if err := r.Register(class, entry); err != nil {
			return nil, err
		}
	}
	return r, nil
}
