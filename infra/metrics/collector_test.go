package metrics

import (
	"context"
	"testing"
	"time"

	coremetrics "github.com/romainsacchi/carculator/core/metrics"
	"github.com/romainsacchi/carculator/internal/eventbus"
)

type chanRecorder struct{ ch chan coremetrics.StageEvent }

func (c *chanRecorder) RecordStageTransition(ev coremetrics.StageEvent) error {
	c.ch <- ev
	return nil
}

func TestCollectorForwardsStageEvents(t *testing.T) {
	bus := eventbus.New[coremetrics.StageEvent]()
	defer bus.Close()
	rec := &chanRecorder{ch: make(chan coremetrics.StageEvent, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartCollector(ctx, bus, rec)
	bus.Publish(coremetrics.StageEvent{RequestID: "r1", Stage: "solved"})

	select {
	case ev := <-rec.ch:
		if ev.RequestID != "r1" || ev.Stage != "solved" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event forwarded")
	}
}

func TestCollectorStopsOnCancel(t *testing.T) {
	bus := eventbus.New[coremetrics.StageEvent]()
	defer bus.Close()
	rec := &chanRecorder{ch: make(chan coremetrics.StageEvent, 1)}
	ctx, cancel := context.WithCancel(context.Background())

	StartCollector(ctx, bus, rec)
	if bus.Subscribers() != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for bus.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("collector did not unsubscribe")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCollectorNilArgs(t *testing.T) {
	// must not panic
	StartCollector(context.Background(), nil, nil)
}
