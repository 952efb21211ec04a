package metrics

// MultiSink fans events out to multiple sinks. Optional capabilities are
// forwarded only to the sinks that implement them.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCalculation forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordCalculation(ev CalculationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCalculation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordStageTransition forwards stage events to sinks that record them.
func (m *MultiSink) RecordStageTransition(ev StageEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(StageRecorder); ok {
			if err := rec.RecordStageTransition(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordImpact forwards impact scores to sinks that record them.
func (m *MultiSink) RecordImpact(ev ImpactEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ImpactRecorder); ok {
			if err := rec.RecordImpact(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRejection forwards rejection events to sinks that record them.
func (m *MultiSink) RecordRejection(ev RejectionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RejectionRecorder); ok {
			if err := rec.RecordRejection(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSolverIterations forwards iteration counts to sinks that record them.
func (m *MultiSink) RecordSolverIterations(requestID string, iterations int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SolverIterationsRecorder); ok {
			if err := rec.RecordSolverIterations(requestID, iterations); err != nil {
				return err
			}
		}
	}
	return nil
}
