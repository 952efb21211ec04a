package metrics

import (
	"context"

	coremetrics "github.com/romainsacchi/carculator/core/metrics"
	"github.com/romainsacchi/carculator/internal/eventbus"
)

// StartCollector subscribes to the stage event bus and forwards every
// transition to the recorder. It stops when the context is canceled. The
// pipeline already feeds its own metrics sink directly; the collector exists
// for recorders that watch progress out of band, such as the stage store
// behind the API.
func StartCollector(ctx context.Context, bus *eventbus.Bus[coremetrics.StageEvent], rec coremetrics.StageRecorder) {
	if bus == nil || rec == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = rec.RecordStageTransition(ev)
			}
		}
	}()
}
