package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/okian/panenka/internal/adapters/http/api"
	app "github.com/okian/panenka/internal/app"
	"github.com/okian/panenka/internal/config"
	"github.com/okian/panenka/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			// Test with environment variables
			_ = os.Setenv("PANENKA_ADDR", ":8080")
			_ = os.Setenv("PANENKA_QUEUE_SIZE", "1000")
			_ = os.Setenv("PANENKA_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("PANENKA_ADDR")
				_ = os.Unsetenv("PANENKA_QUEUE_SIZE")
				_ = os.Unsetenv("PANENKA_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithWorkerCount(8),
					app.WithQueueSize(2000),
					app.WithDedupeSize(1000),
					app.WithMatchDuration(90*time.Minute),
					app.WithOpenWindow(12*time.Hour),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc, svc, 100)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then it should stop when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics update", func() {
			svc := app.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateServiceMetrics(svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}
