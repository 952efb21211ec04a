package metrics

// Package metrics defines the events emitted by the calculation pipeline and
// the sink interfaces that record them. Sinks like the Prometheus and InfluxDB
// implementations under infra/metrics record calculation outcomes, stage
// transitions and per-kilometre impact scores, and can be combined with
// NewMultiSink. The factory helpers return a MultiSink automatically when
// multiple sinks are configured.
