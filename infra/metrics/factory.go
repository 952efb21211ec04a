package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/romainsacchi/carculator/core/factory"
	coremetrics "github.com/romainsacchi/carculator/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	coremetrics.RegisterMetricsSink("prometheus", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			Port string `json:"port"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		// The port only matters to the HTTP server started by the service.
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
