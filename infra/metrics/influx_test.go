package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/romainsacchi/carculator/core/metrics"
	"github.com/romainsacchi/carculator/core/model"
)

func TestInfluxSink_RecordCalculation(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	ev := coremetrics.CalculationEvent{
		RequestID:    "r1",
		VehicleClass: model.Car,
		Powertrain:   model.ICEVd,
		Size:         "Medium",
		Year:         2020,
		Country:      "CH",
		Success:      true,
		Duration:     250 * time.Millisecond,
		Time:         now,
	}
	if err := sink.RecordCalculation(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("calculation_event").
		AddTag("vehicle_type", "car").
		AddTag("powertrain", "ICEV-d").
		AddTag("size", "Medium").
		AddTag("country", "CH").
		AddTag("success", "true").
		AddTag("component", "pipeline").
		AddField("duration_ms", 250.0).
		AddField("year", 2020).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestInfluxSink_RecordImpact(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	ev := coremetrics.ImpactEvent{
		RequestID:    "r1",
		VehicleClass: model.Car,
		Powertrain:   model.BEV,
		Size:         "Small",
		Category:     "climate change",
		Unit:         "kg CO2-eq/km",
		PerKm:        0.105,
		Time:         now,
	}
	if err := sink.RecordImpact(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("impact_score").
		AddTag("vehicle_type", "car").
		AddTag("powertrain", "BEV").
		AddTag("size", "Small").
		AddTag("category", "climate change").
		AddTag("unit", "kg CO2-eq/km").
		AddTag("component", "pipeline").
		AddField("per_km", 0.105).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
