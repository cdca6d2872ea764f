// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"io"
	"net/http"
)

type layoutRequest struct {
	Seed int64 `json:"seed"`
}

type layoutResponse struct {
	Seed      int64          `json:"seed"`
	Counts    map[string]int `json:"counts"`
	Fallbacks []int          `json:"fallbacks"`
}

// LayoutHandler handles layout regeneration.
type LayoutHandler struct {
	layout LayoutController
}

// NewLayoutHandler creates a new layout handler.
func NewLayoutHandler(layout LayoutController) *LayoutHandler {
	return &LayoutHandler{layout: layout}
}

// HandlePostLayout handles POST /api/layout requests. An empty body or a zero
// seed derives the seed from the clock.
func (h *LayoutHandler) HandlePostLayout(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_layout"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req layoutRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	report, err := h.layout.Regenerate(r.Context(), req.Seed)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}

	counts := make(map[string]int, len(report.Counts))
	for kind, n := range report.Counts {
		counts[kind.String()] = n
	}
	fallbacks := report.Fallbacks
	if fallbacks == nil {
		fallbacks = []int{}
	}
	writeJSON(w, http.StatusOK, layoutResponse{Seed: report.Seed, Counts: counts, Fallbacks: fallbacks})
}
