package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording game lifecycle metrics", func() {
			Convey("Then it should record created games", func() {
				So(func() {
					RecordGameCreated()
					RecordGameCreated()
				}, ShouldNotPanic)
			})

			Convey("And it should record started games", func() {
				So(func() {
					RecordGameStarted()
					RecordGameStarted()
				}, ShouldNotPanic)
			})

			Convey("And it should record archived games", func() {
				So(func() {
					RecordGameArchived()
					RecordGameArchived()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording stage metrics", func() {
			Convey("Then it should record advances and retreats", func() {
				So(func() {
					RecordStageAdvance()
					RecordStageAdvance()
					RecordStageRetreat()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording scoring metrics", func() {
			Convey("Then it should record results and revisions", func() {
				So(func() {
					RecordResultRecorded()
					RecordResultRevised()
					RecordAdjustmentApplied()
				}, ShouldNotPanic)
			})

			Convey("And it should record read path latencies", func() {
				So(func() {
					RecordScoreboardLatency(5.0)
					RecordScoreboardLatency(10.0)
					RecordStandingsLatency(25.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording export metrics", func() {
			Convey("Then it should record exports, errors, and latency", func() {
				So(func() {
					RecordGameExported()
					RecordExportError()
					RecordExportLatency(150.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/games", "POST", "201")
					RecordHTTPRequest("/games/{id}/scoreboard", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/games", "POST", "201", 10.0)
					RecordHTTPRequestDuration("/standings", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store metrics", func() {
			Convey("Then it should update store totals", func() {
				So(func() {
					UpdateStoreGamesTotal(120)
					UpdateStoreTeamsTotal(40)
				}, ShouldNotPanic)
			})

			Convey("And it should record store latencies", func() {
				So(func() {
					RecordStoreUpdateLatency(5.0)
					RecordStoreQueryLatency(2.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue metrics", func() {
			Convey("Then it should update queue gauges", func() {
				So(func() {
					UpdateQueueCapacity(1024)
					UpdateQueueSize(12)
					UpdateQueueUtilization(0.05)
				}, ShouldNotPanic)
			})

			Convey("And it should record queue counters", func() {
				So(func() {
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording worker metrics", func() {
			Convey("Then it should update worker counts", func() {
				So(func() {
					UpdateWorkerActiveCount(4)
					UpdateWorkerIdleCount(2)
				}, ShouldNotPanic)
			})

			Convey("And it should record worker latency and errors", func() {
				So(func() {
					RecordWorkerProcessingLatency(50.0)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record errors by component", func() {
				So(func() {
					RecordErrorByComponent("store", "not_found")
					RecordErrorByComponent("queue", "full")
					RecordErrorByComponent("worker", "export_error")
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by type", func() {
				So(func() {
					RecordErrorByType("export_error", "high")
					RecordErrorByType("validation_error", "warning")
				}, ShouldNotPanic)
			})

			Convey("And it should record errors by endpoint", func() {
				So(func() {
					RecordErrorByEndpoint("/games", "POST", "validation_error")
					RecordErrorByEndpoint("/games/{id}/results", "PUT", "conflict")
				}, ShouldNotPanic)
			})

			Convey("And it should record error latency", func() {
				So(func() {
					RecordErrorLatency("store", "not_found", 2.0)
					RecordErrorLatency("worker", "export_error", 150.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024 * 100) // 100MB
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(1.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When recording metrics with edge values", func() {
			Convey("And using zero values", func() {
				So(func() {
					UpdateQueueSize(0)
					UpdateStoreGamesTotal(0)
					RecordScoreboardLatency(0.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
				}, ShouldNotPanic)
			})

			Convey("And using negative values", func() {
				So(func() {
					UpdateQueueSize(-100)
					UpdateWorkerActiveCount(-10)
					UpdateStoreTeamsTotal(-1)
				}, ShouldNotPanic)
			})

			Convey("And using very large values", func() {
				So(func() {
					UpdateQueueSize(1000000)
					UpdateStoreGamesTotal(10000000)
					RecordScoreboardLatency(10000.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 30000.0)
				}, ShouldNotPanic)
			})

			Convey("And using empty strings", func() {
				So(func() {
					RecordHTTPRequest("", "", "200")
					RecordHTTPRequestDuration("", "", "200", 10.0)
					RecordErrorByComponent("", "")
					RecordErrorByType("", "")
					RecordErrorByEndpoint("", "", "")
					RecordErrorLatency("", "", 10.0)
				}, ShouldNotPanic)
			})

			Convey("And using special characters in labels", func() {
				So(func() {
					RecordHTTPRequest("/games?season=abc&status=live", "GET", "200")
					RecordErrorByComponent("component-with-dash", "error_with_underscore")
					RecordErrorByType("error.with.dots", "error")
					RecordErrorByEndpoint("/games/{id}/bonus-round", "POST", "conflict")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			// Start multiple goroutines recording metrics
			for i := 0; i < 10; i++ {
				go func(id int) {
					for j := 0; j < 100; j++ {
						RecordResultRecorded()
						UpdateQueueSize(j)
						RecordScoreboardLatency(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}(i)
			}

			// Wait for all goroutines to complete
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given metrics options validation", t, func() {
		Convey("When creating with empty namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty subsystem", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithSubsystem(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithHistogramBuckets([]float64{}), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with a nil registry option", func() {
			manager := NewManager(WithPrometheusRegistry(nil), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When using the global registry", func() {
			Convey("Then it should expose the custom registry", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
