package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/logger"
	"github.com/romainsacchi/carculator/core/pipeline"
	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/core/validate"
	"github.com/romainsacchi/carculator/infra/metrics"
)

// RunScenario drives every vehicle of the scenario through a freshly built
// pipeline and checks the expected outcome.
func RunScenario(t *testing.T, sc *Scenario) {
	preg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(preg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	reg, err := registry.Default(logger.NopLogger{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	pipe, err := pipeline.New(reg, validate.New(nil), sink, nil, logger.NopLogger{}, pipeline.Options{
		Country:    sc.Country,
		Iterations: sc.Iterations,
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	accepted, rejected := 0, 0
	for _, vd := range sc.Vehicles {
		_, res, err := pipe.Run(context.Background(), vd.ToRequest(), sc.Country)
		if err != nil {
			rejected++
			continue
		}
		accepted++
		for _, iv := range res.Representative() {
			if iv.PerKm <= 0 {
				t.Errorf("vehicle %s: %s = %v, want positive", vd.ID, iv.Category, iv.PerKm)
			}
		}
		if sc.Expected.MaxClimatePerKm > 0 {
			if score, ok := res.Score(inventory.CategoryClimateChange); ok {
				for _, v := range score.PerKm {
					if v > sc.Expected.MaxClimatePerKm {
						t.Errorf("vehicle %s: climate change %v exceeds bound %v", vd.ID, v, sc.Expected.MaxClimatePerKm)
					}
				}
			}
		}
	}

	if accepted != sc.Expected.Accepted {
		t.Errorf("scenario %s expected %d accepted, got %d", sc.Name, sc.Expected.Accepted, accepted)
	}
	if rejected != sc.Expected.Rejected {
		t.Errorf("scenario %s expected %d rejected, got %d", sc.Name, sc.Expected.Rejected, rejected)
	}
}
