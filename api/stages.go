package api

import (
	"net/http"

	"github.com/romainsacchi/carculator/core/stagewatch"
)

// NewStagesHandler returns the handler for GET /api/v1/stages, exposing how
// far recent requests travelled through the pipeline. A request_id parameter
// narrows the answer to one request.
func NewStagesHandler(store stagewatch.Store, token string) http.Handler {
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
			st, ok := store.Get(id)
			if !ok {
				http.Error(w, "unknown request id", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, st)
			return
		}
		writeJSON(w, http.StatusOK, store.List())
	})
}
