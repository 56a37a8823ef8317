package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it uses the analyzer namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				manager.cacheHits.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "ghopt_analyzer_cache_hits_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithLatencyBuckets([]float64{1.0, 0.1, 0.5}),
				WithEnabled(false),
				WithRefreshInterval(time.Second),
				WithConstLabels(map[string]string{"env": "test", "": "dropped"}),
				WithRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.refreshInterval, ShouldEqual, time.Second)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				manager.workerErrors.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() != "test_unit_persist_worker_errors_total" {
						continue
					}
					found = true
					So(f.GetMetric()[0].GetLabel(), ShouldHaveLength, 1)
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					So(f.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When zero-valued options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(0),
				WithRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "ghopt")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording upstream calls", func() {
			before := value(globalManager.upstreamRequests.WithLabelValues("events", "ok"))
			RecordUpstreamRequest("events", "ok", 12.5)
			RecordPageFetched("events")
			RecordFeedStop("short_page")

			Convey("Then the counters move", func() {
				after := value(globalManager.upstreamRequests.WithLabelValues("events", "ok"))
				So(after-before, ShouldEqual, 1)
				So(value(globalManager.feedStops.WithLabelValues("short_page")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording cache outcomes", func() {
			hits := value(globalManager.cacheHits)
			RecordCacheHit()
			RecordCacheMiss()
			RecordCacheError()

			Convey("Then the hit counter moves by one", func() {
				So(value(globalManager.cacheHits)-hits, ShouldEqual, 1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateWorkerCount(3)
			UpdateProfilesStored(42)

			Convey("Then the gauges hold the last value", func() {
				So(value(globalManager.queueSize), ShouldEqual, 7)
				So(value(globalManager.queueCapacity), ShouldEqual, 100)
				So(value(globalManager.workerCount), ShouldEqual, 3)
				So(value(globalManager.profilesStored), ShouldEqual, 42)
			})
		})

		Convey("When recording everything else", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordEventClassified("push")
					RecordMalformedRecord("event")
					RecordDegradedMetric("pull_requests")
					RecordRating(54)
					RecordAggregateLatency(120)
					RecordInsight("ok", 900)
					RecordQueueEnqueueError()
					RecordQueueDequeue()
					RecordWorkerProcessingLatency(3)
					RecordWorkerError()
					RecordHTTPRequest("/api/profile", "GET", "200")
					RecordHTTPRequestDuration("/api/profile", "GET", "200", 15)
					RecordErrorByComponent("api", "not_found")
					RecordErrorByType("upstream", "warning")
					RecordErrorByEndpoint("/api/profile", "GET", "rate_limited")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the registry", func() {
			RecordRating(60)
			families, err := GetRegistry().Gather()

			Convey("Then every family carries the ghopt prefix", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "ghopt_analyzer_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestSince(t *testing.T) {
	Convey("Since reports elapsed milliseconds", t, func() {
		start := time.Now().Add(-25 * time.Millisecond)
		So(Since(start), ShouldBeGreaterThanOrEqualTo, 25)
		So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
	})
}

func value(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	switch {
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	}
	return -1
}
