package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/romainsacchi/carculator/core/metrics"
)

// PromSink records calculation outcomes in Prometheus metrics.
type PromSink struct {
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	impacts      *prometheus.GaugeVec
	rejections   *prometheus.CounterVec
	stages       *prometheus.CounterVec
}

// NewPromSink registers calculation metrics on the default Prometheus
// registerer. The metrics HTTP server is started separately by the service.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_calculations_total",
		Help: "Total number of vehicle calculations",
	}, []string{"vehicle_type", "powertrain", "success"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lca_calculation_duration_seconds",
		Help:    "Time between request receipt and finished characterization",
		Buckets: prometheus.DefBuckets,
	}, []string{"vehicle_type", "powertrain"})
	impacts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lca_impact_per_km",
		Help: "Last representative impact score per kilometre",
	}, []string{"powertrain", "size", "category"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_rejections_total",
		Help: "Total number of rejected calculation requests",
	}, []string{"reason"})
	stages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_stage_transitions_total",
		Help: "Total number of pipeline stage transitions",
	}, []string{"stage"})

	if err := reg.Register(calculations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			calculations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(impacts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			impacts = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rejections); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rejections = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(stages); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			stages = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		calculations: calculations,
		duration:     duration,
		impacts:      impacts,
		rejections:   rejections,
		stages:       stages,
	}, nil
}

// RecordCalculation counts the calculation and observes its duration.
func (s *PromSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	s.calculations.WithLabelValues(string(ev.VehicleClass), string(ev.Powertrain), strconv.FormatBool(ev.Success)).Inc()
	s.duration.WithLabelValues(string(ev.VehicleClass), string(ev.Powertrain)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordStageTransition counts pipeline stage entries.
func (s *PromSink) RecordStageTransition(ev coremetrics.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Inc()
	return nil
}

// RecordImpact sets the impact gauge to the latest representative score.
func (s *PromSink) RecordImpact(ev coremetrics.ImpactEvent) error {
	s.impacts.WithLabelValues(string(ev.Powertrain), ev.Size, ev.Category).Set(ev.PerKm)
	return nil
}

// RecordRejection counts rejected requests by reason.
func (s *PromSink) RecordRejection(ev coremetrics.RejectionEvent) error {
	s.rejections.WithLabelValues(ev.Reason).Inc()
	return nil
}
