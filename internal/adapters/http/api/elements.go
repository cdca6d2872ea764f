// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// ElementHandler handles single element requests.
type ElementHandler struct {
	scene SceneReader
}

// NewElementHandler creates a new element handler.
func NewElementHandler(scene SceneReader) *ElementHandler {
	return &ElementHandler{scene: scene}
}

// HandleGetElement handles GET /api/elements/{id} requests.
func (h *ElementHandler) HandleGetElement(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_element"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /api/elements/
	path := strings.TrimPrefix(r.URL.Path, "/api/elements/")
	if path == "" || strings.Contains(path, "/") {
		writeDomainError(w, NewKind(op, ErrBadRequest))
		return
	}
	id, err := strconv.Atoi(path)
	if err != nil {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	e, err := h.scene.Element(r.Context(), id)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toElementDTO(&e))
}
