package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/romainsacchi/carculator/api"
	"github.com/romainsacchi/carculator/app"
	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/logging"
	coremetrics "github.com/romainsacchi/carculator/core/metrics"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/pipeline"
	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/core/resultstore"
	"github.com/romainsacchi/carculator/core/stagewatch"
	"github.com/romainsacchi/carculator/core/validate"
	"github.com/romainsacchi/carculator/infra/logger"
	"github.com/romainsacchi/carculator/infra/metrics"
	"github.com/romainsacchi/carculator/internal/eventbus"
	"github.com/romainsacchi/carculator/test/util"
)

// newStack wires the full serving stack in-process: registry, pipeline with
// a Prometheus sink and stage bus, recording runner, and the HTTP handlers
// on a test server. The metrics endpoint is mounted on the same mux.
func newStack(t *testing.T) (*httptest.Server, *stagewatch.MemoryStore) {
	t.Helper()

	reg, err := registry.Default(logger.NopLogger{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	preg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(preg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	bus := eventbus.New[coremetrics.StageEvent]()
	pipe, err := pipeline.New(reg, validate.New(nil), sink, bus, logger.NopLogger{}, pipeline.Options{Country: "CH"})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	logs, err := logging.NewJSONLStore(filepath.Join(t.TempDir(), "calculations.jsonl"))
	if err != nil {
		t.Fatalf("log store: %v", err)
	}
	results := resultstore.NewMemoryStore(0)
	stages := stagewatch.NewMemoryStore(0)
	runner := app.NewRecorder(pipe, logs, results, logger.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	metrics.StartCollector(ctx, bus, stages)

	mux := http.NewServeMux()
	mux.Handle("/healthz", api.NewHealthHandler())
	mux.Handle("/api/v1/calculations", api.NewCalculationHandler(runner, ""))
	mux.Handle("/api/v1/results", api.NewResultsHandler(results, ""))
	mux.Handle("/api/v1/stages", api.NewStagesHandler(stages, ""))
	mux.Handle("/api/v1/logs", api.NewLogsHandler(logs, ""))
	mux.Handle("/metrics", promhttp.HandlerFor(preg, promhttp.HandlerOpts{}))
	srv := httptest.NewServer(mux)

	t.Cleanup(func() {
		srv.Close()
		cancel()
		bus.Close()
		_ = logs.Close()
	})
	return srv, stages
}

func postFleet(t *testing.T, srv *httptest.Server, req api.CalculationRequest) (int, api.CalculationResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+"/api/v1/calculations", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post calculations: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var out api.CalculationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func climateImpact(t *testing.T, impacts []inventory.ImpactValue) float64 {
	t.Helper()
	for _, iv := range impacts {
		if iv.Category == inventory.CategoryClimateChange {
			return iv.PerKm
		}
	}
	t.Fatalf("no climate change impact in %v", impacts)
	return 0
}

func TestHTTPCalculationFlow(t *testing.T) {
	srv, stages := newStack(t)

	status, resp := postFleet(t, srv, api.CalculationRequest{
		Country: "FR",
		Fleet: []model.Request{
			{ID: "it-1", VehicleType: model.Car, Powertrain: model.BEV, Size: "Medium", Year: 2020},
			{ID: "it-2", VehicleType: model.Car, Powertrain: model.ICEVd, Size: "Medium", Year: 2020, CurbMass: 2200, DrivingMass: 1000},
		},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a partially rejected fleet, got %d", status)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	byID := map[string]api.VehicleResult{}
	for _, r := range resp.Results {
		byID[r.RequestID] = r
	}
	ok := byID["it-1"]
	if ok.Error != "" {
		t.Fatalf("healthy vehicle rejected: %s", ok.Error)
	}
	if ok.Country != "FR" {
		t.Errorf("expected country FR, got %s", ok.Country)
	}
	if c := climateImpact(t, ok.Impacts); c <= 0 {
		t.Errorf("expected positive climate impact, got %g", c)
	}
	bad := byID["it-2"]
	if bad.Error == "" {
		t.Fatal("implausible masses were accepted")
	}
	if len(bad.Violations) == 0 {
		t.Error("expected violations on the rejected vehicle")
	}

	if code := getJSON(t, srv.URL+"/healthz", &map[string]string{}); code != http.StatusOK {
		t.Errorf("healthz returned %d", code)
	}

	var summaries []resultstore.Summary
	if code := getJSON(t, srv.URL+"/api/v1/results?powertrain=BEV", &summaries); code != http.StatusOK {
		t.Fatalf("results returned %d", code)
	}
	if len(summaries) != 1 || summaries[0].RequestID != "it-1" {
		t.Fatalf("expected one BEV summary for it-1, got %+v", summaries)
	}

	var single resultstore.Summary
	if code := getJSON(t, srv.URL+"/api/v1/results?request_id=it-1", &single); code != http.StatusOK {
		t.Fatalf("single result returned %d", code)
	}
	if len(single.Impacts) == 0 {
		t.Error("stored summary has no impacts")
	}
	if code := getJSON(t, srv.URL+"/api/v1/results?request_id=nope", &single); code != http.StatusNotFound {
		t.Errorf("unknown request id returned %d", code)
	}

	var records []logging.Record
	if code := getJSON(t, srv.URL+"/api/v1/logs?powertrain=BEV", &records); code != http.StatusOK {
		t.Fatalf("logs returned %d", code)
	}
	if len(records) != 1 || !records[0].Success {
		t.Fatalf("expected one successful BEV record, got %+v", records)
	}

	// Stage events travel over the bus, so the store fills asynchronously.
	err := util.WaitFor(2*time.Second, func() bool {
		st, found := stages.Get("it-1")
		return found && st.Stage == pipeline.StageDone.String()
	})
	if err != nil {
		t.Fatalf("stage store never saw it-1 finish: %v", err)
	}
	var st stagewatch.Status
	if code := getJSON(t, srv.URL+"/api/v1/stages?request_id=it-1", &st); code != http.StatusOK {
		t.Fatalf("stages returned %d", code)
	}
	if len(st.Transitions) == 0 {
		t.Error("expected recorded stage transitions")
	}
	err = util.WaitFor(2*time.Second, func() bool {
		st, found := stages.Get("it-2")
		return found && st.Stage == pipeline.StageRejected.String()
	})
	if err != nil {
		t.Errorf("stage store never saw it-2 rejected: %v", err)
	}
}

func TestMetricsHTTPExposure(t *testing.T) {
	srv, _ := newStack(t)

	status, _ := postFleet(t, srv, api.CalculationRequest{
		Country: "CH",
		Fleet: []model.Request{
			{ID: "m-1", VehicleType: model.Car, Powertrain: model.ICEVp, Size: "Small", Year: 2020},
		},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	metricsURL := srv.URL + "/metrics"
	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := util.WaitForMetric(waitCtx, metricsURL, "lca_calculations_total"); err != nil {
		t.Fatalf("calculation counter not exposed: %v", err)
	}
	waitCtx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if err := util.WaitForMetric(waitCtx2, metricsURL, fmt.Sprintf(`lca_stage_transitions_total{stage=%q}`, pipeline.StageDone)); err != nil {
		t.Fatalf("stage counter not exposed: %v", err)
	}
}
