package mqtt

import (
	"fmt"
	"testing"
	"time"

	coremon "github.com/romainsacchi/carculator/core/monitoring"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) CapturePanic(any)    {}
func (r *recordMonitor) Flush(time.Duration) {}

func TestPublishErrorCaptured(t *testing.T) {
	mc := stubClient(t)
	mc.publishErrs = []error{fmt.Errorf("net fail"), fmt.Errorf("net fail")}
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	cfg := Config{Broker: "tcp://localhost:1883", ClientID: "id", MaxRetries: 1, BackoffMS: 1}
	g, err := NewGateway(cfg, &fakeRunner{})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	body := `{"request_id":"mon-1","country":"CH","vehicle":{"vehicle_type":"car","powertrain":"ICEV-d","size":"Medium","year":2020}}`
	inject(t, mc, "carculator/requests", []byte(body))
	g.Close()

	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["module"] != "mqtt" || mon.tags["request_id"] != "mon-1" {
		t.Fatalf("tags not set: %v", mon.tags)
	}
}
