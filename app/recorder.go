package app

import (
	"context"
	"errors"
	"time"

	"github.com/romainsacchi/carculator/core/inventory"
	corelogging "github.com/romainsacchi/carculator/core/logging"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/resultstore"
	"github.com/romainsacchi/carculator/core/vehicle"
	"github.com/romainsacchi/carculator/infra/logger"
)

// Runner mirrors the pipeline entry point so the recorder can wrap it.
type Runner interface {
	Run(ctx context.Context, req model.Request, country string) (*vehicle.Model, *inventory.ResultSet, error)
}

// recordingRunner decorates the pipeline with persistence: every calculation
// is appended to the log store and successful ones are summarized in the
// result store. Both the HTTP API and the MQTT gateway run through it.
type recordingRunner struct {
	inner   Runner
	logs    corelogging.Store
	results resultstore.Store
	log     logger.Logger
}

// NewRecorder wraps a runner so its outcomes land in the given stores.
// Either store may be nil.
func NewRecorder(inner Runner, logs corelogging.Store, results resultstore.Store, log logger.Logger) Runner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &recordingRunner{inner: inner, logs: logs, results: results, log: log}
}

func (r *recordingRunner) Run(ctx context.Context, req model.Request, country string) (*vehicle.Model, *inventory.ResultSet, error) {
	start := time.Now()
	m, res, err := r.inner.Run(ctx, req, country)

	rec := corelogging.Record{
		Timestamp:  start,
		RequestID:  req.ID,
		Request:    req,
		Country:    country,
		Success:    err == nil,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			rec.Violations = verr.Violations
		}
	} else if res != nil {
		rec.Country = res.Country
		rec.Impacts = res.Representative()
	}
	// Append with a fresh context so the record survives request
	// cancellation.
	if r.logs != nil {
		if aerr := r.logs.Append(context.Background(), rec); aerr != nil {
			r.log.Errorf("append calculation record: %v", aerr)
		}
	}
	if err == nil && res != nil && r.results != nil {
		r.results.Add(resultstore.Summary{
			RequestID:    req.ID,
			VehicleType:  req.VehicleType,
			Powertrain:   res.Powertrain,
			Size:         res.Size,
			Year:         res.Year,
			Country:      res.Country,
			Impacts:      res.Representative(),
			CalculatedAt: time.Now(),
		})
	}
	return m, res, err
}
