package pipeline

import "testing"

func TestStagesOrdered(t *testing.T) {
	stages := Stages()
	if len(stages) == 0 || stages[0] != StageUninitialized {
		t.Fatalf("Stages() = %v, want to start at %s", stages, StageUninitialized)
	}
	if stages[len(stages)-1] != StageDone {
		t.Fatalf("Stages() = %v, want to end at %s", stages, StageDone)
	}
	for _, st := range stages {
		if st == StageRejected {
			t.Fatalf("Stages() includes %s, which is off the success path", StageRejected)
		}
	}
}

func TestTrackerForwardOnly(t *testing.T) {
	tr := newTracker()
	if tr.current != StageUninitialized {
		t.Fatalf("new tracker at %s, want %s", tr.current, StageUninitialized)
	}
	for _, st := range []Stage{StageBaseParameters, StagePreRunOverrides, StageSolved} {
		if err := tr.advance(st); err != nil {
			t.Fatalf("advance(%s): %v", st, err)
		}
	}
	if err := tr.advance(StageBaseParameters); err == nil {
		t.Error("advance back to an earlier stage succeeded, want error")
	}
	if err := tr.advance(StageSolved); err == nil {
		t.Error("advance to the current stage succeeded, want error")
	}
	// Skipping optional stages forward is allowed; not every calculation
	// passes through the plug-in adjustment.
	if err := tr.advance(StageValidated); err != nil {
		t.Errorf("advance(%s) skipping optional stages: %v", StageValidated, err)
	}
}

func TestTrackerTerminalStages(t *testing.T) {
	tr := newTracker()
	if err := tr.advance(StageRejected); err != nil {
		t.Fatalf("advance(rejected): %v", err)
	}
	if err := tr.advance(StageBaseParameters); err == nil {
		t.Error("advance past rejected succeeded, want error")
	}

	tr = newTracker()
	for _, st := range Stages()[1:] {
		if err := tr.advance(st); err != nil {
			t.Fatalf("advance(%s): %v", st, err)
		}
	}
	if err := tr.advance(StageRejected); err == nil {
		t.Error("advance past done succeeded, want error")
	}
}

func TestTrackerUnknownStage(t *testing.T) {
	tr := newTracker()
	if err := tr.advance(Stage("warp")); err == nil {
		t.Error("advance to unknown stage succeeded, want error")
	}
}
