// Package api exposes the calculation pipeline over HTTP. Handlers follow
// the original service contract: requests carry the vehicle configuration
// with its original field names, responses carry per-vehicle impact results
// or the validation violations that rejected them.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/romainsacchi/carculator/core/inventory"
	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/vehicle"
)

// Runner starts one calculation for a single vehicle. The pipeline
// initializer satisfies it.
type Runner interface {
	Run(ctx context.Context, req model.Request, country string) (*vehicle.Model, *inventory.ResultSet, error)
}

// CalculationRequest is the body of POST /api/v1/calculations: one use
// country and a fleet of vehicle configurations.
type CalculationRequest struct {
	Country string          `json:"country"`
	Fleet   []model.Request `json:"fleet"`
}

// VehicleResult is the outcome for one fleet entry.
type VehicleResult struct {
	RequestID   string                  `json:"request_id"`
	VehicleType model.VehicleClass      `json:"vehicle_type"`
	Powertrain  model.Powertrain        `json:"powertrain"`
	Size        string                  `json:"size"`
	Year        int                     `json:"year"`
	Country     string                  `json:"country"`
	Impacts     []inventory.ImpactValue `json:"impacts,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Violations  []model.Violation       `json:"violations,omitempty"`
}

// CalculationResponse is the body returned by the calculations endpoint.
type CalculationResponse struct {
	Country string          `json:"country"`
	Results []VehicleResult `json:"results"`
}

// authorized checks the Authorization header against the configured bearer
// token. An empty token disables the check.
func authorized(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewCalculationHandler returns the handler for POST /api/v1/calculations.
// Every fleet entry is calculated; one failing vehicle does not abort the
// rest. The response is 200 when all entries succeeded and 422 when at
// least one was rejected.
func NewCalculationHandler(runner Runner, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req CalculationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Fleet) == 0 {
			http.Error(w, "fleet must not be empty", http.StatusBadRequest)
			return
		}

		resp := CalculationResponse{Country: req.Country, Results: make([]VehicleResult, 0, len(req.Fleet))}
		rejected := false
		for _, vr := range req.Fleet {
			if vr.ID == "" {
				vr.ID = uuid.NewString()
			}
			out := VehicleResult{
				RequestID:   vr.ID,
				VehicleType: vr.VehicleType,
				Powertrain:  vr.Powertrain,
				Size:        vr.Size,
				Year:        vr.Year,
				Country:     req.Country,
			}
			_, res, err := runner.Run(r.Context(), vr, req.Country)
			if err != nil {
				rejected = true
				out.Error = err.Error()
				var verr *model.ValidationError
				if errors.As(err, &verr) {
					out.Violations = verr.Violations
				}
			} else {
				out.Country = res.Country
				out.Impacts = res.Representative()
			}
			resp.Results = append(resp.Results, out)
		}

		status := http.StatusOK
		if rejected {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, resp)
	})
}
