package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "perfscore")
				So(manager.subsystem, ShouldEqual, "predictor")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordSubmission("completed", "form")

			Convey("Then names and labels reflect the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_namespace_test_subsystem_test_prefix_submissions_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry), WithMetricsEnabled(false), WithRuntimeCollectors(true))
			manager.RecordSubmission("completed", "api")
			manager.RecordCacheLookup(true)

			Convey("Then recorders work but nothing is exported", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldEqual, 0)
			})
		})

		Convey("When runtime collectors are enabled", func() {
			registry := prometheus.NewRegistry()
			_ = NewManager(WithPrometheusRegistry(registry), WithRuntimeCollectors(true))

			Convey("Then Go runtime metrics are exported", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var goMetrics bool
				for _, mf := range families {
					if strings.HasPrefix(mf.GetName(), "go_") {
						goMetrics = true
					}
				}
				So(goMetrics, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording submissions", func() {
			m.RecordSubmission("completed", "form")
			m.RecordSubmission("completed", "form")
			m.RecordSubmission("rejected", "api")

			Convey("Then counts are kept per outcome and source", func() {
				So(testutil.ToFloat64(m.submissions.WithLabelValues("completed", "form")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.submissions.WithLabelValues("rejected", "api")), ShouldEqual, 1)
			})
		})

		Convey("When recording rejections and errors", func() {
			m.RecordValidationRejection("training_hours")
			m.RecordPredictionError("capability")
			m.RecordError("predict", "POST", "client_error", "medium")

			Convey("Then each vector has the sample", func() {
				So(testutil.ToFloat64(m.validationRejections.WithLabelValues("training_hours")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.predictionErrors.WithLabelValues("capability")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByEndpoint.WithLabelValues("predict", "POST", "client_error")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByType.WithLabelValues("client_error", "medium")), ShouldEqual, 1)
			})
		})

		Convey("When recording cache lookups", func() {
			m.RecordCacheLookup(true)
			m.RecordCacheLookup(false)
			m.RecordCacheLookup(false)

			Convey("Then hits and misses are split", func() {
				So(testutil.ToFloat64(m.cacheHits), ShouldEqual, 1)
				So(testutil.ToFloat64(m.cacheMisses), ShouldEqual, 2)
			})
		})

		Convey("When publishing model info twice", func() {
			m.SetModelInfo("linear_regression", true)
			m.SetModelInfo("standard_scaler", false)

			Convey("Then only the latest estimator is reported", func() {
				So(testutil.CollectAndCount(m.modelInfo), ShouldEqual, 1)
				So(testutil.ToFloat64(m.modelInfo.WithLabelValues("standard_scaler")), ShouldEqual, 0)
			})
		})

		Convey("When recording HTTP traffic", func() {
			m.RecordHTTPRequest("predict", "POST", "200", 1.5)
			m.RecordRateLimited("predict")

			Convey("Then the request counter and histogram are updated", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("predict", "POST", "200")), ShouldEqual, 1)
				So(testutil.CollectAndCount(m.httpRequestDuration), ShouldEqual, 1)
				So(testutil.ToFloat64(m.rateLimited.WithLabelValues("predict")), ShouldEqual, 1)
			})
		})

		Convey("When observing latency", func() {
			m.RecordPredictionLatency(0.4)

			Convey("Then the histogram has one series", func() {
				So(testutil.CollectAndCount(m.predictionLatency), ShouldEqual, 1)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through package functions", func() {
			So(func() {
				RecordSubmission("completed", "cli")
				RecordValidationRejection("tasks_completed")
				RecordPredictionLatency(1)
				RecordPredictionError("feature_mismatch")
				RecordCacheLookup(false)
				SetModelInfo("linear_regression", true)
				RecordHTTPRequest("form", "GET", "200", 2)
				RecordRateLimited("form")
				RecordError("form", "POST", "server_error", "high")
			}, ShouldNotPanic)

			Convey("Then the custom registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
