package prediction_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/features"
	"github.com/okian/bookingrisk/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

// fixedClassifier returns the first input as the probability.
type fixedClassifier struct {
	names []string
}

func (f fixedClassifier) FeatureNames() []string { return f.names }
func (f fixedClassifier) Width() int             { return len(f.names) }
func (f fixedClassifier) PredictProba(values []float64) (float64, error) {
	return values[0], nil
}

func row(p float64) features.Dense {
	return features.Dense{Names: []string{"p", "x"}, Values: []float64{p, 0}}
}

func TestPredict(t *testing.T) {
	m := fixedClassifier{names: []string{"p", "x"}}

	Convey("Given a probability above one half", t, func() {
		Convey("Then the booking should be labelled as cancel", func() {
			r, err := prediction.Predict(row(0.73), m)
			So(err, ShouldBeNil)
			So(r.Label, ShouldEqual, prediction.Canceled)
			So(r.Probability, ShouldEqual, 0.73)
		})
	})

	Convey("Given a probability of exactly one half", t, func() {
		Convey("Then the booking should not be labelled as cancel", func() {
			r, err := prediction.Predict(row(0.5), m)
			So(err, ShouldBeNil)
			So(r.Label, ShouldEqual, prediction.NotCanceled)
		})
	})

	Convey("Given a custom threshold", t, func() {
		Convey("Then the label should follow it", func() {
			r, err := prediction.Predict(row(0.4), m, prediction.WithThreshold(0.3))
			So(err, ShouldBeNil)
			So(r.Label, ShouldEqual, prediction.Canceled)

			r, err = prediction.Predict(row(0.4), m, prediction.WithThreshold(7))
			So(err, ShouldBeNil)
			So(r.Label, ShouldEqual, prediction.NotCanceled)
		})
	})

	Convey("Given the same row twice", t, func() {
		Convey("Then the results should be identical", func() {
			a, _ := prediction.Predict(row(0.61), m)
			b, _ := prediction.Predict(row(0.61), m)
			So(a, ShouldResemble, b)
		})
	})

	Convey("Given a row in the wrong order", t, func() {
		d := features.Dense{Names: []string{"x", "p"}, Values: []float64{0, 1}}

		Convey("Then prediction should report a schema mismatch", func() {
			_, err := prediction.Predict(d, m)
			So(errors.Is(err, failure.ErrSchemaMismatch), ShouldBeTrue)
			stage, _ := failure.StageOf(err)
			So(stage, ShouldEqual, failure.StagePredict)
		})
	})

	Convey("Given a classifier returning an invalid probability", t, func() {
		Convey("Then prediction should fail", func() {
			_, err := prediction.Predict(row(math.NaN()), m)
			So(err, ShouldNotBeNil)
			_, err = prediction.Predict(row(1.2), m)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a result", t, func() {
		Convey("Then it should encode its label as text", func() {
			b, err := json.Marshal(prediction.Result{Label: prediction.Canceled, Probability: 0.9})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"label":"cancel","probability":0.9}`)
			So(prediction.NotCanceled.String(), ShouldEqual, "not_cancel")
		})
	})
}
