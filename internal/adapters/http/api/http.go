// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	service "github.com/okian/evergreen/internal/app"
	"github.com/okian/evergreen/internal/adapters/repository"
	"github.com/okian/evergreen/internal/domain/layout"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/scene"
	"github.com/okian/evergreen/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the session implementation.
type Dependencies interface {
	SceneReader
	LandmarkSink
	LayoutController
	OrbitController
}

// SceneReader exposes published scene state.
type SceneReader interface {
	Snapshot(ctx context.Context) (*repository.Snapshot, error)
	Element(ctx context.Context, id int) (model.Element, error)
}

// LandmarkSink accepts landmark samples. Returns false for a repeated timestamp.
type LandmarkSink interface {
	PushLandmarks(ctx context.Context, ts time.Duration, hands []model.Hand) (bool, error)
}

// LayoutController regenerates the element set.
type LayoutController interface {
	Regenerate(ctx context.Context, seed int64) (layout.Report, error)
}

// OrbitController applies user camera rotation.
type OrbitController interface {
	Orbit(ctx context.Context, dAzimuth, dPolar float32) (model.ViewState, error)
}

// FrameEncoder renders a frame as PNG.
type FrameEncoder interface {
	EncodePNG(w io.Writer, f scene.Frame) error
}

// Server wires HTTP routes for the scene API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sceneHandler     *SceneHandler
	elementHandler   *ElementHandler
	landmarksHandler *LandmarksHandler
	layoutHandler    *LayoutHandler
	orbitHandler     *OrbitHandler
	snapshotHandler  *SnapshotHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, encoder FrameEncoder) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		sceneHandler:     NewSceneHandler(deps),
		elementHandler:   NewElementHandler(deps),
		landmarksHandler: NewLandmarksHandler(deps),
		layoutHandler:    NewLayoutHandler(deps),
		orbitHandler:     NewOrbitHandler(deps),
		snapshotHandler:  NewSnapshotHandler(deps, encoder),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/scene", MetricsMiddleware(s.sceneHandler.HandleGetScene, "scene"))
	mux.HandleFunc("/api/elements/", MetricsMiddleware(s.elementHandler.HandleGetElement, "elements"))
	mux.HandleFunc("/api/landmarks", MetricsMiddleware(s.landmarksHandler.HandlePostLandmarks, "landmarks"))
	mux.HandleFunc("/api/layout", MetricsMiddleware(s.layoutHandler.HandlePostLayout, "layout"))
	mux.HandleFunc("/api/orbit", MetricsMiddleware(s.orbitHandler.HandlePostOrbit, "orbit"))
	mux.HandleFunc("/api/snapshot.png", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates session and store errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrElementNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrPushUnsupported), errors.Is(err, ErrUnsupported):
		writeError(w, http.StatusConflict, "unsupported", err)
	case errors.Is(err, repository.ErrNoSnapshot),
		errors.Is(err, service.ErrSessionNotStarted),
		errors.Is(err, ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

const maxBodyBytes = 1 << 20
