package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/model"
	coremon "github.com/romainsacchi/carculator/core/monitoring"
	"github.com/romainsacchi/carculator/core/vehicle"
	"github.com/romainsacchi/carculator/infra/logger"
)

// Runner starts one calculation for a single vehicle. The pipeline
// initializer satisfies it.
type Runner interface {
	Run(ctx context.Context, req model.Request, country string) (*vehicle.Model, *inventory.ResultSet, error)
}

// requestEnvelope is the wire format consumed from the request topic.
type requestEnvelope struct {
	RequestID string        `json:"request_id"`
	Country   string        `json:"country"`
	Vehicle   model.Request `json:"vehicle"`
}

// resultEnvelope is published below the result topic once a calculation
// finishes, keyed by request ID for correlation.
type resultEnvelope struct {
	RequestID  string                  `json:"request_id"`
	Country    string                  `json:"country"`
	Powertrain string                  `json:"powertrain,omitempty"`
	Size       string                  `json:"size,omitempty"`
	Year       int                     `json:"year,omitempty"`
	Impacts    []inventory.ImpactValue `json:"impacts,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Violations []model.Violation       `json:"violations,omitempty"`
	Timestamp  int64                   `json:"timestamp"`
}

// Gateway bridges an MQTT broker to the calculation pipeline. Requests are
// consumed from the request topic, computed, and answered on a per-request
// subtopic of the result topic.
type Gateway struct {
	cli    pahoClient
	runner Runner
	cfg    Config
	log    logger.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	maxRetries int
	backoff    time.Duration
}

// NewGateway connects to the broker and subscribes to the request topic.
func NewGateway(cfg Config, runner Runner) (*Gateway, error) {
	if runner == nil {
		return nil, errors.New("mqtt: nil runner")
	}
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_gateway")
	ctx, cancel := context.WithCancel(context.Background())
	g := &Gateway{
		runner:     runner,
		cfg:        cfg,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	if g.maxRetries <= 0 {
		g.maxRetries = 3
	}
	if g.backoff <= 0 {
		g.backoff = 100 * time.Millisecond
	}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		qos := byte(0)
		if q, ok := cfg.QoS["request"]; ok {
			qos = q
		}
		if token := c.Subscribe(cfg.RequestTopic, qos, g.onRequest); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		cancel()
		return nil, token.Error()
	}
	g.cli = c
	return g, nil
}

func (g *Gateway) onRequest(_ paho.Client, msg paho.Message) {
	var env requestEnvelope
	if err := json.Unmarshal(msg.Payload(), &env); err != nil {
		g.log.Errorf("failed to decode request: %v", err)
		return
	}
	if env.RequestID != "" {
		env.Vehicle.ID = env.RequestID
	}
	if env.Vehicle.ID == "" {
		env.Vehicle.ID = uuid.NewString()
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer coremon.Recover()
		g.process(env)
	}()
}

func (g *Gateway) process(env requestEnvelope) {
	out := resultEnvelope{
		RequestID: env.Vehicle.ID,
		Country:   env.Country,
		Timestamp: time.Now().UnixMilli(),
	}
	_, res, err := g.runner.Run(g.ctx, env.Vehicle, env.Country)
	if err != nil {
		out.Error = err.Error()
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			out.Violations = verr.Violations
		}
		g.log.Warnf("calculation %s failed: %v", env.Vehicle.ID, err)
	} else {
		out.Country = res.Country
		out.Powertrain = string(res.Powertrain)
		out.Size = res.Size
		out.Year = res.Year
		out.Impacts = res.Representative()
	}
	g.publishResult(out)
}

func (g *Gateway) publishResult(out resultEnvelope) {
	payload, err := json.Marshal(out)
	if err != nil {
		g.log.Errorf("failed to encode result %s: %v", out.RequestID, err)
		return
	}
	topic := g.cfg.ResultTopic + "/" + out.RequestID
	qos := byte(0)
	if q, ok := g.cfg.QoS["result"]; ok {
		qos = q
	}
	var publishErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		token := g.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			g.log.Infof("published result %s to %s", out.RequestID, topic)
			return
		}
		g.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(g.backoff * time.Duration(1<<attempt))
	}
	coremon.CaptureException(publishErr, map[string]string{
		"module":     "mqtt",
		"request_id": out.RequestID,
	})
}

// Close stops in-flight calculations and disconnects from the broker.
func (g *Gateway) Close() {
	g.cancel()
	g.wg.Wait()
	if g.cli != nil && g.cli.IsConnected() {
		g.cli.Disconnect(250)
	}
}
