package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with a supplied registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("frames"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithRegistry(registry),
			)

			Convey("Then metrics should be registered on it", func() {
				So(manager.Registry(), ShouldEqual, registry)
				manager.RecordDrumTrigger()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		manager := NewManager()

		Convey("When frames are observed", func() {
			manager.ObserveFrame(200*time.Microsecond, false)
			manager.ObserveFrame(300*time.Microsecond, true)

			Convey("Then frames and frozen frames are counted", func() {
				So(testutil.ToFloat64(manager.framesProcessed), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.framesFrozen), ShouldEqual, 1)
			})
		})

		Convey("When outputs are emitted", func() {
			manager.RecordParameterVector()
			manager.RecordDrumTrigger()
			manager.RecordDrumTrigger()
			manager.RecordSinkError("synth")

			Convey("Then each counter moves independently", func() {
				So(testutil.ToFloat64(manager.parameterVectors), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.drumTriggers), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.sinkErrors.WithLabelValues("synth")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.sinkErrors.WithLabelValues("visual")), ShouldEqual, 0)
			})
		})

		Convey("When events are applied and rejected", func() {
			manager.RecordEvent("SetActivePage", nil)
			manager.RecordEvent("SetSampleDuration", errors.New("bad duration"))

			Convey("Then they are split by outcome", func() {
				So(testutil.ToFloat64(manager.eventsApplied.WithLabelValues("SetActivePage")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.eventsRejected.WithLabelValues("SetSampleDuration")), ShouldEqual, 1)
			})
		})

		Convey("When the mode changes", func() {
			manager.SetMode(1)

			Convey("Then the gauge follows", func() {
				So(testutil.ToFloat64(manager.mode), ShouldEqual, 1)
			})
		})

		Convey("When scraped over HTTP", func() {
			manager.RecordParameterVector()
			rec := httptest.NewRecorder()
			manager.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the exposition contains engine metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(rec.Body.String(), "handgrain_engine_parameter_vectors_total"), ShouldBeTrue)
			})
		})
	})
}

func TestNilManager(t *testing.T) {
	Convey("Given a nil manager", t, func() {
		var manager *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				manager.ObserveFrame(time.Millisecond, true)
				manager.RecordParameterVector()
				manager.RecordDrumTrigger()
				manager.SetMode(1)
				manager.RecordEvent("x", nil)
				manager.RecordSinkError("synth")
			}, ShouldNotPanic)
			So(manager.Registry(), ShouldBeNil)
		})
	})
}
