// Package factory provides a small generic registry used to build pluggable
// modules from configuration. A module is named by a type string and
// configured by a raw settings map; registered factories decode the settings
// into typed structs and return the concrete implementation.
//
// Example:
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("prometheus", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ Listen string `json:"listen"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return prom.New(c.Listen)
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "prometheus", Conf: map[string]any{"listen": ":9106"}})
package factory
