// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
)

// Sample limits.
const maxHands = 4

// landmarkRequest mirrors the OpenAPI schema for POST /api/landmarks.
type landmarkRequest struct {
	TimestampMS *int64 `json:"timestamp_ms"`
	Hands       [][]struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		Z float32 `json:"z"`
	} `json:"hands"`
}

func (req landmarkRequest) validate() error {
	switch {
	case req.TimestampMS == nil:
		return errors.New("missing timestamp_ms")
	case *req.TimestampMS < 0:
		return errors.New("timestamp_ms must not be negative")
	case len(req.Hands) > maxHands:
		return errors.New("too many hands")
	}
	return nil
}

// hands converts the wire sample. Hands with too few landmarks pass through;
// the classifier ignores them.
func (req landmarkRequest) hands() []model.Hand {
	out := make([]model.Hand, len(req.Hands))
	for i, h := range req.Hands {
		out[i] = make(model.Hand, len(h))
		for j, lm := range h {
			out[i][j] = model.Landmark{X: lm.X, Y: lm.Y, Z: lm.Z}
		}
	}
	return out
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// LandmarksHandler handles landmark sample submissions.
type LandmarksHandler struct {
	sink LandmarkSink
}

// NewLandmarksHandler creates a new landmarks handler.
func NewLandmarksHandler(sink LandmarkSink) *LandmarksHandler {
	return &LandmarksHandler{sink: sink}
}

// HandlePostLandmarks handles POST /api/landmarks requests.
func (h *LandmarksHandler) HandlePostLandmarks(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_landmarks"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req landmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	ts := time.Duration(*req.TimestampMS) * time.Millisecond
	accepted, err := h.sink.PushLandmarks(r.Context(), ts, req.hands())
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}
	if !accepted {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
