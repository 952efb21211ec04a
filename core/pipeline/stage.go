package pipeline

import "fmt"

// Stage identifies a step of the calculation pipeline. A request moves
// through the stages strictly forward; rejected and done are terminal.
type Stage string

const (
	StageUninitialized    Stage = "uninitialized"
	StageBaseParameters   Stage = "base_parameters_loaded"
	StagePreRunOverrides  Stage = "pre_run_overrides_applied"
	StageSolved           Stage = "solved"
	StagePostRunOverrides Stage = "post_run_overrides_applied"
	StagePluginAdjusted   Stage = "plugin_adjusted"
	StageHybridDropped    Stage = "hybrid_dropped"
	StageValidated        Stage = "validated"
	StageImpactsComputed  Stage = "impacts_computed"
	StageRejected         Stage = "rejected"
	StageDone             Stage = "done"
)

// stageRank orders the forward stages. Conditional stages (plugin
// adjustment, hybrid drop) are simply skipped by requests that do not need
// them.
var stageRank = map[Stage]int{
	StageUninitialized:    0,
	StageBaseParameters:   1,
	StagePreRunOverrides:  2,
	StageSolved:           3,
	StagePostRunOverrides: 4,
	StagePluginAdjusted:   5,
	StageHybridDropped:    6,
	StageValidated:        7,
	StageImpactsComputed:  8,
	StageDone:             9,
}

// Stages lists the forward stages in order, for observers that want to
// render progress.
func Stages() []Stage {
	return []Stage{
		StageUninitialized,
		StageBaseParameters,
		StagePreRunOverrides,
		StageSolved,
		StagePostRunOverrides,
		StagePluginAdjusted,
		StageHybridDropped,
		StageValidated,
		StageImpactsComputed,
		StageDone,
	}
}

func (s Stage) String() string { return string(s) }

// tracker enforces forward-only stage movement for one request.
type tracker struct {
	current Stage
}

func newTracker() *tracker { return &tracker{current: StageUninitialized} }

// advance moves to the target stage. Moving backwards or restarting a
// terminal request is a programming error and is reported as one.
func (t *tracker) advance(to Stage) error {
	if t.current == StageRejected || t.current == StageDone {
		return fmt.Errorf("pipeline: request already terminal in %s", t.current)
	}
	if to == StageRejected {
		t.current = to
		return nil
	}
	from, ok := stageRank[t.current]
	if !ok {
		return fmt.Errorf("pipeline: unknown stage %q", t.current)
	}
	next, ok := stageRank[to]
	if !ok {
		return fmt.Errorf("pipeline: unknown stage %q", to)
	}
	if next <= from {
		return fmt.Errorf("pipeline: cannot move from %s to %s", t.current, to)
	}
	t.current = to
	return nil
}
