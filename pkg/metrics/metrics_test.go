package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("Then the registry should expose the configured metrics", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_predictor_dataset_rows"], ShouldBeTrue)
				So(names["test_predictor_predictions_total"], ShouldBeTrue)
				// Labelled vecs stay empty until the first labelled increment.
				So(names["test_predictor_validation_failures_total"], ShouldBeFalse)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording through package-level helpers", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					UpdateDatasetRows(125000)
					RecordDatasetRejects(12)
					RecordDatasetReload(250*time.Millisecond, true)
					RecordDatasetReload(10*time.Millisecond, false)
					RecordPrediction(42, 3*time.Millisecond)
					RecordEmptyPrediction()
					RecordValidationFailure("invalid_rank")
					RecordCacheHit()
					RecordCacheMiss()
					RecordHTTPRequest("predict", "POST", "200")
					RecordHTTPRequestDuration("predict", "POST", 2*time.Millisecond)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			UpdateDatasetRows(99)
			families, err := GetRegistry().Gather()

			Convey("Then the dataset gauge reflects the latest value", func() {
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "josaa_predictor_dataset_rows" {
						found = true
						So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 99)
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
