package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/derby/internal/config"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("DERBY_ADDR", ":8080")
			_ = os.Setenv("DERBY_QUEUE_SIZE", "50")
			_ = os.Setenv("DERBY_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("DERBY_ADDR")
				_ = os.Unsetenv("DERBY_QUEUE_SIZE")
				_ = os.Unsetenv("DERBY_WORKER_COUNT")
			}()

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 50)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
		})

		convey.Convey("When the service is built for both store drivers", func() {
			for _, driver := range []string{config.StoreFile, config.StoreSQLite} {
				cfg := config.New()
				cfg.StoreDriver = driver
				cfg.StorePath = filepath.Join(t.TempDir(), "teams."+driver)
				cfg.WorkerCount = 1

				svc, err := newService(context.Background(), cfg, logger.Discard())
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
				convey.So(svc.Stop(context.Background()), convey.ShouldBeNil)
			}
		})

		convey.Convey("When the store driver is unknown", func() {
			cfg := config.New()
			cfg.StoreDriver = "postgres"
			_, err := newService(context.Background(), cfg, logger.Discard())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given the HTTP handler of a running service", t, func() {
		cfg := config.New()
		cfg.StorePath = filepath.Join(t.TempDir(), "teams.json")
		svc, err := newService(context.Background(), cfg, logger.Discard())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop(context.Background())

		h := newHandler(svc, []string{"https://derby.example"})

		convey.Convey("Then health is served", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the API docs are served", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then allowed origins get CORS headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/teams", nil)
			req.Header.Set("Origin", "https://derby.example")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			convey.So(rec.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://derby.example")
		})

		convey.Convey("Then other origins do not", func() {
			req := httptest.NewRequest(http.MethodGet, "/teams", nil)
			req.Header.Set("Origin", "https://elsewhere.example")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			convey.So(rec.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
		})

		convey.Convey("Then service metrics can be refreshed", func() {
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the metrics registry", t, func() {
		convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)

		families, err := metrics.GetRegistry().Gather()
		convey.So(err, convey.ShouldBeNil)
		convey.So(len(families), convey.ShouldBeGreaterThan, 0)
	})
}
