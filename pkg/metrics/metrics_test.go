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
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "juryboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_ns"),
				WithSubsystem("test_sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.sheetsProcessed.WithLabelValues("ok").Inc()

			Convey("Then metric names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, fam := range families {
					if fam.GetName() == "test_ns_test_sub_sheets_processed_total" {
						found = true
						So(fam.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "juryboard")
				So(manager.subsystem, ShouldEqual, "scoring")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording sheets", func() {
			before := testutil.ToFloat64(globalManager.sheetsProcessed.WithLabelValues("ok"))
			RecordSheet("ok", 12)
			RecordSheet("ok", 8)
			RecordSheet("criteria_incomplete", 3)

			Convey("Then counters increase per outcome", func() {
				So(testutil.ToFloat64(globalManager.sheetsProcessed.WithLabelValues("ok")), ShouldEqual, before+2)
			})
		})

		Convey("When recording batches", func() {
			RecordBatch("ok", 3, 42)
			UpdateTeamsRanked(3)
			RecordUploadBytes(2048)

			Convey("Then the gauge reflects the latest leaderboard", func() {
				So(testutil.ToFloat64(globalManager.teamsRanked), ShouldEqual, 3)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("calculate", "POST", "200")
				RecordHTTPRequestDuration("calculate", "POST", "200", 15)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("calculate", "POST", "client_error")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("When scraping the custom registry", func() {
			RecordSheet("ok", 1)
			families, err := GetRegistry().Gather()

			Convey("Then the exposition contains the sheet counter", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, fam := range families {
					names = append(names, fam.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "juryboard_scoring_sheets_processed_total")
				So(testutil.CollectAndCount(globalManager.sheetsProcessed), ShouldBeGreaterThan, 0)
			})
		})
	})
}
