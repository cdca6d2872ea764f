// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	scene SceneReader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(scene SceneReader) *HealthHandler {
	return &HealthHandler{scene: scene}
}

type healthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version uint64 `json:"version"`
}

// HandleHealth handles GET /healthz requests. The process is healthy once it
// serves; ready once a frame has been published.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	resp := healthResponse{Status: "ok"}
	if snap, err := h.scene.Snapshot(r.Context()); err == nil {
		resp.Ready = true
		resp.Version = snap.Version
	}
	writeJSON(w, http.StatusOK, resp)
}
