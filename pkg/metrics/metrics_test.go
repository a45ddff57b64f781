package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the journal namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "journal")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("grid"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.gridColumns.Set(3)

			Convey("Then collectors should carry the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_grid_grid_columns" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When options are empty", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "journal")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording grid operations", func() {
			before := testutil.ToFloat64(globalManager.validationErrors.WithLabelValues("save_cell"))
			RecordGridOperation("save_cell", "validation")
			RecordGridOperation("save_cell", "ok")

			Convey("Then validation failures are counted separately", func() {
				after := testutil.ToFloat64(globalManager.validationErrors.WithLabelValues("save_cell"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When updating grid size", func() {
			UpdateGridSize(2, 5, 3, 4)

			Convey("Then gauges reflect the grid", func() {
				So(testutil.ToFloat64(globalManager.gridColumns), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.gridCells), ShouldEqual, 5)
				So(testutil.ToFloat64(globalManager.gridSavedCells), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.participants), ShouldEqual, 4)
			})
		})

		Convey("When recording backend calls", func() {
			okBefore := testutil.ToFloat64(globalManager.backendCalls.WithLabelValues("remote", "list_scores", "ok"))
			errBefore := testutil.ToFloat64(globalManager.backendCalls.WithLabelValues("remote", "list_scores", "error"))
			RecordBackendCall("remote", "list_scores", nil, 12)
			RecordBackendCall("remote", "list_scores", errors.New("down"), 40)

			Convey("Then outcomes are labelled", func() {
				So(testutil.ToFloat64(globalManager.backendCalls.WithLabelValues("remote", "list_scores", "ok"))-okBefore, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.backendCalls.WithLabelValues("remote", "list_scores", "error"))-errBefore, ShouldEqual, 1)
			})
		})

		Convey("When recording the remaining families", func() {
			So(func() {
				UpdateQueueCapacity(100)
				UpdateQueueSize(3)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("full")
				UpdateWorkerCount(2)
				RecordJobProcessed("email", "ok", 15)
				RecordExport("memory", nil)
				RecordHTTPRequest("journal", "GET", "200")
				RecordHTTPRequestDuration("journal", "GET", "200", 3)
				RecordErrorByEndpoint("journal", "POST", "client_error")
				RecordErrorByType("client_error", "medium")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then only journal metrics are exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "journal_dashboard_"), ShouldBeTrue)
				}
			})
		})
	})
}
