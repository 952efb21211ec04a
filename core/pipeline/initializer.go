package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/logger"
	"github.com/romainsacchi/carculator/core/metrics"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/monitoring"
	"github.com/romainsacchi/carculator/core/params"
	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/core/vehicle"
	"github.com/romainsacchi/carculator/internal/eventbus"
)

// Validator checks a solved model against its request.
type Validator interface {
	Validate(req model.Request, m *vehicle.Model) []model.Violation
}

// Options tune how the Initializer runs calculations.
type Options struct {
	Country    string // default use country when a request names none
	Cycle      string // driving cycle
	Iterations int    // values along the uncertainty axis; 1 runs static only
	Seed       uint64 // base seed for stochastic draws
}

func (o *Options) setDefaults() {
	if o.Country == "" {
		o.Country = "CH"
	}
	if o.Cycle == "" {
		o.Cycle = "WLTC"
	}
	if o.Iterations < 1 {
		o.Iterations = 1
	}
}

// Initializer drives requests through the calculation stages: base
// parameters, overrides, solve, plug-in adjustment, hybrid drop, validation
// and impact characterization. Stage transitions are published on the event
// bus and recorded by the metrics sink.
type Initializer struct {
	reg  *registry.Registry
	val  Validator
	sink metrics.MetricsSink
	bus  *eventbus.Bus[metrics.StageEvent]
	log  logger.Logger
	opts Options
}

// New builds an Initializer. The registry and validator are required; sink,
// bus and logger may be nil.
func New(reg *registry.Registry, val Validator, sink metrics.MetricsSink, bus *eventbus.Bus[metrics.StageEvent], log logger.Logger, opts Options) (*Initializer, error) {
	if reg == nil {
		return nil, fmt.Errorf("pipeline: registry is required")
	}
	if val == nil {
		return nil, fmt.Errorf("pipeline: validator is required")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	opts.setDefaults()
	return &Initializer{reg: reg, val: val, sink: sink, bus: bus, log: log, opts: opts}, nil
}

// Run executes the full pipeline for one request. country may be empty, in
// which case the configured default applies. On success the returned model
// carries the representative impact values in Results, and the full result
// set, stochastic draws included, is returned alongside.
func (init *Initializer) Run(ctx context.Context, req model.Request, country string) (*vehicle.Model, *inventory.ResultSet, error) {
	started := time.Now()
	if country == "" {
		country = init.opts.Country
	}
	track := newTracker()

	reject := func(reason string, err error) (*vehicle.Model, *inventory.ResultSet, error) {
		_ = track.advance(StageRejected)
		init.recordStage(req.ID, StageRejected)
		if rec, ok := init.sink.(metrics.RejectionRecorder); ok {
			if rerr := rec.RecordRejection(metrics.RejectionEvent{RequestID: req.ID, Reason: reason, Time: time.Now()}); rerr != nil {
				init.log.Warnf("record rejection: %v", rerr)
			}
		}
		init.recordCalculation(req, country, false, started)
		monitoring.CaptureException(err, map[string]string{
			"module":     "pipeline",
			"request_id": req.ID,
			"powertrain": string(req.Powertrain),
			"reason":     reason,
		})
		init.log.Warnf("calculation rejected (%s): %v", reason, err)
		return nil, nil, err
	}
	enter := func(st Stage) error {
		if err := track.advance(st); err != nil {
			return err
		}
		init.recordStage(req.ID, st)
		return nil
	}

	if err := req.Validate(); err != nil {
		return reject("invalid request", err)
	}
	entry, err := init.reg.For(req.VehicleType)
	if err != nil {
		return reject("unknown vehicle class", err)
	}

	base, err := entry.Inputs.BaseTable(req.VehicleType, ScopeFor(req.Powertrain), []string{req.Size})
	if err != nil {
		return reject("base parameters", err)
	}
	if err := enter(StageBaseParameters); err != nil {
		return reject("stage machine", err)
	}

	m, reason, err := init.assemble(entry, req, country, base, enter)
	if err != nil {
		return reject(reason, err)
	}

	if violations := init.val.Validate(req, m); len(violations) > 0 {
		return reject("validation", &model.ValidationError{Violations: violations})
	}
	if err := enter(StageValidated); err != nil {
		return reject("stage machine", err)
	}

	res, err := entry.Inventory.CalculateImpacts(ctx, m)
	if err != nil {
		return reject("impacts", err)
	}
	for k := 1; k < init.opts.Iterations; k++ {
		draw, err := init.stochasticDraw(ctx, entry, req, country, init.opts.Seed+uint64(k))
		if err != nil {
			return reject("stochastic draw", err)
		}
		if err := res.Merge(draw); err != nil {
			return reject("stochastic draw", err)
		}
	}
	if err := enter(StageImpactsComputed); err != nil {
		return reject("stage machine", err)
	}

	m.Results = res.Representative()
	if err := enter(StageDone); err != nil {
		return reject("stage machine", err)
	}
	init.recordCalculation(req, country, true, started)
	init.recordImpacts(req, res)
	init.log.Infof("calculated %s %s %s %d in %s",
		req.VehicleType, req.Powertrain, req.Size, req.Year, time.Since(started).Round(time.Millisecond))
	return m, res, nil
}

// assemble builds and solves one model from a base table. enter may be nil
// for reruns that should not emit stage events. On failure the returned
// reason classifies the failing step for metrics and monitoring.
func (init *Initializer) assemble(entry registry.Entry, req model.Request, country string, base *params.Table, enter func(Stage) error) (*vehicle.Model, string, error) {
	if enter == nil {
		enter = func(Stage) error { return nil }
	}

	tbl := params.InterpolateYear(base, req.Year)
	if err := SetCombustionPowerShare(tbl, req); err != nil {
		return nil, "classification", err
	}

	pins := vehicle.Pins{Powertrain: req.Powertrain}
	if req.ElectricEnergyStored > 0 {
		pins.ElectricEnergyStored = req.ElectricEnergyStored
	}
	if req.BatteryTechnology != "" {
		pins.BatteryTechnology = req.BatteryTechnology
	}
	if req.Power > 0 {
		pins.Power = req.Power
	}
	if req.CurbMass > 0 {
		pins.TargetCurbMass = req.CurbMass
	}
	if req.TtWEnergy > 0 {
		pins.TtWEnergy = req.TtWEnergy
	}

	m, err := vehicle.New(req.VehicleType, tbl, vehicle.Options{
		Country: country,
		Cycle:   init.opts.Cycle,
		Pins:    pins,
	})
	if err != nil {
		return nil, "model construction", err
	}

	if err := ApplyPreRun(m, req); err != nil {
		return nil, "overrides", err
	}
	if err := enter(StagePreRunOverrides); err != nil {
		return nil, "stage machine", err
	}

	if err := entry.Solver.Solve(m); err != nil {
		return nil, "solver", err
	}
	if err := enter(StageSolved); err != nil {
		return nil, "stage machine", err
	}

	ApplyPostRun(m, req)
	if err := enter(StagePostRunOverrides); err != nil {
		return nil, "stage machine", err
	}

	if req.Powertrain.IsPlugin() {
		if err := AdjustPlugin(m, req, entry.Solver); err != nil {
			return nil, "plugin adjustment", err
		}
		if err := enter(StagePluginAdjusted); err != nil {
			return nil, "stage machine", err
		}
	}

	if req.VehicleType == model.Car {
		m.DropCombinedVariants()
		if err := enter(StageHybridDropped); err != nil {
			return nil, "stage machine", err
		}
	}
	return m, "", nil
}

// stochasticDraw samples the input parameters and reruns the assembly for
// one extra value on the uncertainty axis. Draws skip validation; the static
// run gates the calculation.
func (init *Initializer) stochasticDraw(ctx context.Context, entry registry.Entry, req model.Request, country string, seed uint64) (*inventory.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, err := entry.Inputs.Sample(req.VehicleType, ScopeFor(req.Powertrain), []string{req.Size}, seed)
	if err != nil {
		return nil, err
	}
	m, _, err := init.assemble(entry, req, country, base, nil)
	if err != nil {
		return nil, err
	}
	return entry.Inventory.CalculateImpacts(ctx, m)
}

func (init *Initializer) recordStage(id string, st Stage) {
	ev := metrics.StageEvent{RequestID: id, Stage: st.String(), Time: time.Now()}
	if init.bus != nil {
		init.bus.Publish(ev)
	}
	if rec, ok := init.sink.(metrics.StageRecorder); ok {
		if err := rec.RecordStageTransition(ev); err != nil {
			init.log.Warnf("record stage transition: %v", err)
		}
	}
}

func (init *Initializer) recordCalculation(req model.Request, country string, success bool, started time.Time) {
	ev := metrics.CalculationEvent{
		RequestID:    req.ID,
		VehicleClass: req.VehicleType,
		Powertrain:   req.Powertrain,
		Size:         req.Size,
		Year:         req.Year,
		Country:      country,
		Success:      success,
		Duration:     time.Since(started),
		Time:         time.Now(),
	}
	if err := init.sink.RecordCalculation(ev); err != nil {
		init.log.Warnf("record calculation: %v", err)
	}
}

func (init *Initializer) recordImpacts(req model.Request, res *inventory.ResultSet) {
	rec, ok := init.sink.(metrics.ImpactRecorder)
	if !ok {
		return
	}
	for _, iv := range res.Representative() {
		ev := metrics.ImpactEvent{
			RequestID:    req.ID,
			VehicleClass: req.VehicleType,
			Powertrain:   req.Powertrain,
			Size:         req.Size,
			Category:     iv.Category,
			Unit:         iv.Unit,
			PerKm:        iv.PerKm,
			Time:         time.Now(),
		}
		if err := rec.RecordImpact(ev); err != nil {
			init.log.Warnf("record impact: %v", err)
		}
	}
}
