package app

import (
	"context"
	"fmt"
	"time"

	"github.com/romainsacchi/carculator/api"
	"github.com/romainsacchi/carculator/config"
	"github.com/romainsacchi/carculator/core/factory"
	corelogging "github.com/romainsacchi/carculator/core/logging"
	coremetrics "github.com/romainsacchi/carculator/core/metrics"
	coremon "github.com/romainsacchi/carculator/core/monitoring"
	"github.com/romainsacchi/carculator/core/pipeline"
	"github.com/romainsacchi/carculator/core/registry"
	"github.com/romainsacchi/carculator/core/resultstore"
	"github.com/romainsacchi/carculator/core/stagewatch"
	"github.com/romainsacchi/carculator/core/validate"
	"github.com/romainsacchi/carculator/infra/logger"
	"github.com/romainsacchi/carculator/infra/metrics"
	"github.com/romainsacchi/carculator/infra/monitoring"
	"github.com/romainsacchi/carculator/infra/mqtt"
	"github.com/romainsacchi/carculator/internal/eventbus"
)

// Service wires the calculation pipeline to its serving surfaces: the HTTP
// API and, when a broker is configured, the MQTT gateway.
type Service struct {
	API     *api.Server
	Gateway *mqtt.Gateway

	bus         *eventbus.Bus[coremetrics.StageEvent]
	stages      *stagewatch.MemoryStore
	logs        corelogging.Store
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	coremon.Init(monitor)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	promEnabled, promPort := promServerSettings(cfg.Metrics.Sinks)

	logs, err := corelogging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("calculation log: %w", err)
	}

	reg, err := registry.Default(logg)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("parameter registry: %w", err)
	}

	bus := eventbus.New[coremetrics.StageEvent]()
	pipe, err := pipeline.New(reg, validate.New(logg), sink, bus, logg, pipeline.Options{
		Country:    cfg.Pipeline.Country,
		Cycle:      cfg.Pipeline.Cycle,
		Iterations: cfg.Pipeline.Iterations,
		Seed:       cfg.Pipeline.Seed,
	})
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	results := resultstore.NewMemoryStore(cfg.API.ResultLimit)
	stages := stagewatch.NewMemoryStore(0)
	runner := NewRecorder(pipe, logs, results, logg)

	svc := &Service{
		API:         api.NewServer(cfg.API, runner, results, stages, logs),
		bus:         bus,
		stages:      stages,
		logs:        logs,
		log:         logg,
		promEnabled: promEnabled,
		promPort:    promPort,
	}
	if cfg.MQTT.Broker != "" {
		gw, err := mqtt.NewGateway(cfg.MQTT, runner)
		if err != nil {
			logs.Close()
			return nil, fmt.Errorf("mqtt gateway: %w", err)
		}
		svc.Gateway = gw
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartCollector(ctx, s.bus, s.stages)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return s.API.Start(ctx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.Gateway != nil {
		s.Gateway.Close()
	}
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return s.logs.Close()
}

// promServerSettings reports whether a prometheus sink is configured and on
// which port the scrape endpoint should listen.
func promServerSettings(sinks []factory.ModuleConfig) (bool, string) {
	for _, mc := range sinks {
		if mc.Type != "prometheus" {
			continue
		}
		var conf struct {
			Port string `json:"port"`
		}
		if err := factory.Decode(mc.Conf, &conf); err == nil && conf.Port != "" {
			return true, conf.Port
		}
		return true, "2112"
	}
	return false, ""
}
