package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/romainsacchi/carculator/core/metrics"
	"github.com/romainsacchi/carculator/infra/logger"
)

// InfluxSink writes calculation events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordCalculation writes one finished calculation as a point.
func (s *InfluxSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("calculation_event").
		AddTag("vehicle_type", string(ev.VehicleClass)).
		AddTag("powertrain", string(ev.Powertrain)).
		AddTag("size", ev.Size).
		AddTag("country", ev.Country).
		AddTag("success", strconv.FormatBool(ev.Success)).
		AddTag("component", "pipeline").
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("year", ev.Year).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordImpact writes one representative impact score.
func (s *InfluxSink) RecordImpact(ev coremetrics.ImpactEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("impact_score").
		AddTag("vehicle_type", string(ev.VehicleClass)).
		AddTag("powertrain", string(ev.Powertrain)).
		AddTag("size", ev.Size).
		AddTag("category", ev.Category).
		AddTag("unit", ev.Unit).
		AddTag("component", "pipeline").
		AddField("per_km", ev.PerKm).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRejection writes a rejected request.
func (s *InfluxSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("calculation_rejected").
		AddTag("reason", ev.Reason).
		AddTag("request_id", ev.RequestID).
		AddTag("component", "pipeline").
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordStageTransition writes a pipeline stage entry.
func (s *InfluxSink) RecordStageTransition(ev coremetrics.StageEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_stage").
		AddTag("stage", ev.Stage).
		AddTag("request_id", ev.RequestID).
		AddTag("component", "pipeline").
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
