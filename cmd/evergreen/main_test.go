package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	service "github.com/okian/evergreen/internal/app"
	"github.com/okian/evergreen/internal/config"
	"github.com/okian/evergreen/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func newStartedSession(ctx context.Context) *service.Session {
	cfg := config.New()
	cfg.ElementCount = 60
	cfg.Seed = 3
	cfg.Detector = config.DetectorPush

	sess, err := service.New(cfg, service.WithLogger(logger.Default()), service.WithLoops(false))
	convey.So(err, convey.ShouldBeNil)
	convey.So(sess.Start(ctx), convey.ShouldBeNil)
	return sess
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("EVERGREEN_ADDR", ":8080")
			_ = os.Setenv("EVERGREEN_DETECTOR", "push")
			defer func() {
				_ = os.Unsetenv("EVERGREEN_ADDR")
				_ = os.Unsetenv("EVERGREEN_DETECTOR")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Detector, convey.ShouldEqual, config.DetectorPush)
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("EVERGREEN_ADDR", " ")
			defer func() { _ = os.Unsetenv("EVERGREEN_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMux(t *testing.T) {
	convey.Convey("Given a started session", t, func() {
		ctx := context.Background()
		sess := newStartedSession(ctx)
		defer func() { _ = sess.Stop(ctx) }()

		mux, err := newMux(ctx, sess)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then every surface should be routed", func() {
			for path, code := range map[string]int{
				"/":                 http.StatusOK,
				"/healthz":          http.StatusOK,
				"/metrics":          http.StatusOK,
				"/stats":            http.StatusOK,
				"/dashboard":        http.StatusOK,
				"/api-docs":         http.StatusOK,
				"/openapi.yaml":     http.StatusOK,
				"/api/scene":        http.StatusOK,
				"/api/elements/0":   http.StatusOK,
				"/api/snapshot.png": http.StatusOK,
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, code)
			}
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs until cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When metrics are updated directly", func() {
			ctx := context.Background()
			sess := newStartedSession(ctx)
			defer func() { _ = sess.Stop(ctx) }()

			convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
			convey.So(func() { updateSessionMetrics(sess) }, convey.ShouldNotPanic)
		})
	})
}
