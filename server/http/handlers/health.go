package handlers

import (
	"encoding/json"
	"net/http"

	"quote-service/internal/catalog"
)

// Health reports liveness plus the size of the loaded catalog.
func Health(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"catalog": store.Snapshot().Len(),
		})
	}
}
