package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with derby defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "derby")
				So(manager.subsystem, ShouldEqual, "sim")
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And metric names should carry the prefix and const labels", func() {
				manager.matchesScheduled.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_pfx_matches_scheduled_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When zero-value options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(-time.Second),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "derby")
				So(manager.subsystem, ShouldEqual, "sim")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a match runs through its lifecycle", func() {
			scheduled := testutil.ToFloat64(globalManager.matchesScheduled)
			active := testutil.ToFloat64(globalManager.matchesActive)
			homeWins := testutil.ToFloat64(globalManager.matchesFinished.WithLabelValues("home"))

			RecordMatchScheduled()
			RecordMatchStarted()
			RecordMinuteSimulated()
			RecordMatchEvent("GOAL")
			RecordMatchFinished("home", 3, 12.5)

			Convey("Then counters and gauges should move", func() {
				So(testutil.ToFloat64(globalManager.matchesScheduled), ShouldEqual, scheduled+1)
				So(testutil.ToFloat64(globalManager.matchesActive), ShouldEqual, active)
				So(testutil.ToFloat64(globalManager.matchesFinished.WithLabelValues("home")), ShouldEqual, homeWins+1)
				So(testutil.ToFloat64(globalManager.matchEvents.WithLabelValues("GOAL")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When a match is aborted", func() {
			aborted := testutil.ToFloat64(globalManager.matchesAborted)
			RecordMatchStarted()
			RecordMatchAborted(3)

			Convey("Then the abort counter should increase", func() {
				So(testutil.ToFloat64(globalManager.matchesAborted), ShouldEqual, aborted+1)
			})
		})

		Convey("When recording operational metrics", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateQueueUtilization(0.07)
			UpdateWorkerCount(4)
			UpdateWorkerActiveCount(2)
			UpdateTeamsTotal(12)

			Convey("Then gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 100)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.workerActiveCount), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.teamsTotal), ShouldEqual, 12)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordRenderFallback()
					RecordDeliveryError()
					RecordStoreLatency("get", 0.4)
					RecordStoreError("put")
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(1)
					RecordWorkerProcessingLatency(2)
					RecordWorkerError()
					RecordHTTPRequest("/teams", "GET", "200")
					RecordHTTPRequestDuration("/teams", "GET", "200", 1.2)
					RecordErrorByComponent("runner", "abort")
					RecordErrorByEndpoint("/matches", "POST", "bad_request")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordMatchScheduled()
		families, err := GetRegistry().Gather()

		Convey("Then it should expose derby metrics", func() {
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			joined := strings.Join(names, ",")
			So(joined, ShouldContainSubstring, "derby_sim_matches_scheduled_total")
			So(joined, ShouldNotContainSubstring, "go_goroutines")
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						RecordMinuteSimulated()
						RecordMatchEvent("ATTACK")
						UpdateQueueSize(j)
					}
				}()
			}
			wg.Wait()

			Convey("Then it should handle concurrent access without panics", func() {
				So(testutil.ToFloat64(globalManager.minutesSimulated), ShouldBeGreaterThanOrEqualTo, 1000)
			})
		})
	})
}
