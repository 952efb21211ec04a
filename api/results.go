package api

import (
	"net/http"

	"github.com/romainsacchi/carculator/core/model"
	"github.com/romainsacchi/carculator/core/resultstore"
)

// NewResultsHandler returns the handler for GET /api/v1/results. Summaries
// are filtered with the vehicle_type and powertrain query parameters; a
// request_id parameter returns the single matching summary.
func NewResultsHandler(store resultstore.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if id := r.URL.Query().Get("request_id"); id != "" {
			sum, ok := store.Get(id)
			if !ok {
				http.Error(w, "unknown request id", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, sum)
			return
		}
		f := resultstore.Filter{
			VehicleType: model.VehicleClass(r.URL.Query().Get("vehicle_type")),
			Powertrain:  model.Powertrain(r.URL.Query().Get("powertrain")),
		}
		writeJSON(w, http.StatusOK, store.List(f))
	})
}
