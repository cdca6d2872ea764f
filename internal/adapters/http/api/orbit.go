// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"math"
	"net/http"
)

// orbitRequest carries rotation deltas in radians.
type orbitRequest struct {
	Azimuth float32 `json:"azimuth"`
	Polar   float32 `json:"polar"`
}

func (req orbitRequest) validate() error {
	for _, v := range []float32{req.Azimuth, req.Polar} {
		if math.IsNaN(float64(v)) || math.Abs(float64(v)) > 2*math.Pi {
			return errors.New("deltas must be within one turn")
		}
	}
	return nil
}

// OrbitHandler handles user camera rotation.
type OrbitHandler struct {
	orbit OrbitController
}

// NewOrbitHandler creates a new orbit handler.
func NewOrbitHandler(orbit OrbitController) *OrbitHandler {
	return &OrbitHandler{orbit: orbit}
}

// HandlePostOrbit handles POST /api/orbit requests.
func (h *OrbitHandler) HandlePostOrbit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_orbit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req orbitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	v, err := h.orbit.Orbit(r.Context(), req.Azimuth, req.Polar)
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, viewDTO{Azimuth: v.Azimuth, Polar: v.Polar, Distance: v.Distance})
}
