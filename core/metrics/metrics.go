package metrics

import (
	"time"

	"github.com/romainsacchi/carculator/core/model"
)

// CalculationEvent describes one finished calculation, successful or not.
type CalculationEvent struct {
	RequestID    string
	VehicleClass model.VehicleClass
	Powertrain   model.Powertrain
	Size         string
	Year         int
	Country      string
	Success      bool
	Duration     time.Duration
	Time         time.Time
}

// MetricsSink records calculation outcomes for observability purposes.
type MetricsSink interface {
	RecordCalculation(ev CalculationEvent) error
}

// StageEvent marks the pipeline entering a named stage for a request. The
// stage is carried as a plain string so sinks need no knowledge of the
// pipeline package.
type StageEvent struct {
	RequestID string
	Stage     string
	Time      time.Time
}

// StageRecorder records pipeline stage transitions.
type StageRecorder interface {
	RecordStageTransition(ev StageEvent) error
}

// ImpactEvent carries one per-kilometre impact score from a finished
// calculation.
type ImpactEvent struct {
	RequestID    string
	VehicleClass model.VehicleClass
	Powertrain   model.Powertrain
	Size         string
	Category     string
	Unit         string
	PerKm        float64
	Time         time.Time
}

// ImpactRecorder records impact scores.
type ImpactRecorder interface {
	RecordImpact(ev ImpactEvent) error
}

// RejectionEvent captures a request that never reached a result.
type RejectionEvent struct {
	RequestID string
	Reason    string
	Time      time.Time
}

// RejectionRecorder records rejected requests.
type RejectionRecorder interface {
	RecordRejection(ev RejectionEvent) error
}

// SolverIterationsRecorder records how many mass-balance iterations a
// calculation needed, a cheap proxy for input pathologies.
type SolverIterationsRecorder interface {
	RecordSolverIterations(requestID string, iterations int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordCalculation(CalculationEvent) error { return nil }
func (NopSink) RecordStageTransition(StageEvent) error   { return nil }
func (NopSink) RecordImpact(ImpactEvent) error           { return nil }
func (NopSink) RecordRejection(RejectionEvent) error     { return nil }
func (NopSink) RecordSolverIterations(string, int) error { return nil }
