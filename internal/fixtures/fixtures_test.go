package fixtures_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/bookingrisk/internal/adapters/artifacts"
	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/internal/domain/encoding"
	"github.com/okian/bookingrisk/internal/fixtures"
	"github.com/okian/bookingrisk/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

func TestWriteArtifacts(t *testing.T) {
	for _, kind := range []string{fixtures.ModelLogistic, fixtures.ModelXGBoost} {
		Convey("Given a demo artifact set with a "+kind+" model", t, func() {
			paths, err := fixtures.WriteArtifacts(context.Background(), fixtures.Config{Dir: t.TempDir(), Model: kind})
			So(err, ShouldBeNil)

			Convey("When the set is loaded", func() {
				b, err := artifacts.NewLoader().Load(context.Background(), paths)

				Convey("Then the scaler and model should share the encoded schema", func() {
					So(err, ShouldBeNil)
					So(b.Model.FeatureNames(), ShouldResemble, b.Scaler.FeatureNames())
					So(b.Model.Width(), ShouldEqual, b.Scaler.Width())
				})

				Convey("Then the encoders should cover the default catalog", func() {
					So(encoding.Uncovered(map[string][]string{
						"country": {"PRT", "USA"},
						"meal":    {"BB", "SC"},
					}, b.Country, b.OneHot), ShouldBeEmpty)
				})
			})
		})
	}

	Convey("Given an unknown model kind", t, func() {
		_, err := fixtures.WriteArtifacts(context.Background(), fixtures.Config{Dir: t.TempDir(), Model: "svm"})

		Convey("Then writing should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := fixtures.NewGenerator(7, nil).Forms(25)
		b := fixtures.NewGenerator(7, nil).Forms(25)

		Convey("Then they should produce the same bookings", func() {
			So(a, ShouldResemble, b)
		})

		Convey("Then every booking should build a valid record", func() {
			for _, f := range a {
				r, err := f.Record()
				So(err, ShouldBeNil)
				So(r.Validate(), ShouldBeNil)
			}
		})
	})

	Convey("Given the sample booking", t, func() {
		Convey("Then its form and record should agree", func() {
			r, err := fixtures.SampleForm().Record()
			So(err, ShouldBeNil)
			So(r, ShouldResemble, fixtures.SampleRecord())
		})
	})
}

func TestSaveForms(t *testing.T) {
	Convey("Given generated bookings saved to a nested path", t, func() {
		forms := fixtures.NewGenerator(3, nil).Forms(5)
		path := filepath.Join(t.TempDir(), "out", "bookings.jsonl")
		So(fixtures.SaveForms(context.Background(), path, forms), ShouldBeNil)

		Convey("Then each line should decode back to the same booking", func() {
			f, err := os.Open(path)
			So(err, ShouldBeNil)
			defer f.Close()

			var got []booking.Form
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				var b booking.Form
				So(json.Unmarshal(sc.Bytes(), &b), ShouldBeNil)
				got = append(got, b)
			}
			So(sc.Err(), ShouldBeNil)
			So(got, ShouldResemble, forms)
		})
	})

	Convey("Given no bookings", t, func() {
		err := fixtures.SaveForms(context.Background(), filepath.Join(t.TempDir(), "empty.jsonl"), nil)

		Convey("Then saving should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
