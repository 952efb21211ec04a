package api

import (
	"net/http"
	"time"

	"github.com/romainsacchi/carculator/core/logging"
	"github.com/romainsacchi/carculator/core/model"
)

// NewLogsHandler returns the handler for GET /api/v1/logs, exposing the
// calculation log store. start and end take RFC3339 timestamps; powertrain
// filters by drivetrain.
func NewLogsHandler(store logging.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q := logging.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.Powertrain = model.Powertrain(r.URL.Query().Get("powertrain"))
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})
}
