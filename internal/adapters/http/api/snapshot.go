// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"net/http"
	"strconv"
)

// SnapshotHandler serves rendered frames.
type SnapshotHandler struct {
	scene   SceneReader
	encoder FrameEncoder
}

// NewSnapshotHandler creates a new snapshot handler. A nil encoder disables
// the endpoint.
func NewSnapshotHandler(scene SceneReader, encoder FrameEncoder) *SnapshotHandler {
	return &SnapshotHandler{scene: scene, encoder: encoder}
}

// HandleGetSnapshot handles GET /api/snapshot.png requests.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if h.encoder == nil {
		writeDomainError(w, NewKind(op, ErrUnsupported))
		return
	}

	snap, err := h.scene.Snapshot(r.Context())
	if err != nil {
		writeDomainError(w, Wrap(op, err))
		return
	}

	// Encode fully before writing so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.encoder.EncodePNG(&buf, snap.Frame); err != nil {
		writeDomainError(w, WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Scene-Version", strconv.FormatUint(snap.Version, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
