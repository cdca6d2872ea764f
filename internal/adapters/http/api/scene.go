// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// SceneHandler handles scene requests.
type SceneHandler struct {
	scene SceneReader
}

// NewSceneHandler creates a new scene handler.
func NewSceneHandler(scene SceneReader) *SceneHandler {
	return &SceneHandler{scene: scene}
}

// HandleGetScene handles GET /api/scene?elements=bool requests.
// Elements are included unless elements=false.
func (h *SceneHandler) HandleGetScene(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scene"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	withElements := true
	if raw := r.URL.Query().Get("elements"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeDomainError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		withElements = v
	}

	snap, err := h.scene.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toSceneResponse(snap, withElements))
}
