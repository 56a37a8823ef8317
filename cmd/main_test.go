package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/smarrtifai/github-optimizer/internal/bootstrap"
	"github.com/smarrtifai/github-optimizer/internal/config"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

func TestMainHandler(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	convey.Convey("Given a service built from default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.CORSAllowedOrigins = []string{"https://app.example.com"}
		svc, err := bootstrap.Build(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(ctx, cfg, svc)

		convey.Convey("When the status route is called from an allowed origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/status", http.NoBody)
			req.Header.Set("Origin", "https://app.example.com")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then CORS headers and a request id are set", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://app.example.com")
				convey.So(w.Header().Get("X-Request-ID"), convey.ShouldNotBeBlank)
			})
		})

		convey.Convey("When a preflight request arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/profile/octo", http.NoBody)
			req.Header.Set("Origin", "https://app.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then it is answered without reaching the API", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNoContent)
				convey.So(w.Header().Get("Access-Control-Allow-Methods"), convey.ShouldContainSubstring, http.MethodGet)
			})
		})

		convey.Convey("When a disallowed origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/status", http.NoBody)
			req.Header.Set("Origin", "https://evil.example.com")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then no allow-origin header is sent", func() {
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the docs and stats routes are called", func() {
			for _, target := range []string{"/openapi.yaml", "/api-docs", "/stats", "/healthz"} {
				req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("When the service gauges are refreshed", func() {
			convey.So(func() { updateServiceMetrics(ctx, svc) }, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given the background metric updaters", t, func() {
		convey.Convey("Then the system updater stops with its context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a direct system update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
