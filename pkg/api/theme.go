package api

import (
	"encoding/json"
	"net/http"

	"elele/pkg/logger"
)

// getTheme handles GET /v1/theme. Missing key defaults to "light".
func (a *API) getTheme(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	theme, ok, err := a.Sub.Get(a.Keys.Theme)
	if err != nil {
		logger.Error("theme_read_failed", "key", a.Keys.Theme, "error", err)
	}
	if !ok || (theme != "dark" && theme != "light") {
		theme = "light"
	}
	_ = json.NewEncoder(w).Encode(struct {
		Theme string `json:"theme"`
	}{Theme: theme})
}

// putTheme handles PUT /v1/theme. Persistence is best-effort; a failed
// write is logged, not surfaced.
func (a *API) putTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Theme != "dark" && req.Theme != "light" {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":"theme must be \"dark\" or \"light\""}`, http.StatusBadRequest)
		return
	}
	if err := a.Sub.Set(a.Keys.Theme, req.Theme); err != nil {
		logger.Error("theme_write_failed", "key", a.Keys.Theme, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
