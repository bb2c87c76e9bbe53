package encoding_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/bookingrisk/internal/domain/encoding"
	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockCountry struct {
	mapping map[string]float64
}

func (m *mockCountry) Transform(country string) (float64, error) {
	v, ok := m.mapping[country]
	if !ok {
		return 0, fmt.Errorf("%w: %q", failure.ErrUnknownCategory, country)
	}
	return v, nil
}

// mockOneHot knows a single category per column: the value in known.
type mockOneHot struct {
	known  map[string]string
	strict bool
}

func (m *mockOneHot) FeatureNamesOut(columns []string) ([]string, error) {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c + "_" + m.known[c]
	}
	return out, nil
}

func (m *mockOneHot) Transform(columns, values []string) ([]float64, error) {
	out := make([]float64, len(columns))
	for i, c := range columns {
		switch {
		case values[i] == m.known[c]:
			out[i] = 1
		case m.strict:
			return nil, failure.Newf(failure.StageEncode, c, failure.ErrUnknownCategory, "%q", values[i])
		}
	}
	return out, nil
}

func (m *mockOneHot) CategoriesOf(column string) ([]string, bool) {
	v, ok := m.known[column]
	if !ok {
		return nil, false
	}
	return []string{v}, true
}

func sampleVector() features.Vector {
	return features.Vector{
		features.Category("hotel", "Resort"),
		features.Category("arrival_date_week_number", "27"),
		features.Category("arrival_date_day_of_month", "5"),
		features.Numeric("adults", 2),
		features.Category("meal", "BB"),
		features.Category("country", "PRT"),
		features.Category("market_segment", "Direct"),
		features.Category("distribution_channel", "Direct"),
		features.Category("reserved_room_type", "A"),
		features.Category("assigned_room_type", "A"),
		features.Category("deposit_type", "No Deposit"),
		features.Category("customer_type", "Transient"),
		features.Numeric("adr", 80),
		features.Category("season", "Summer"),
		features.Numeric("log_lead_time", 3.9),
	}
}

func sampleOneHot(strict bool) *mockOneHot {
	return &mockOneHot{strict: strict, known: map[string]string{
		"hotel": "Resort", "arrival_date_week_number": "27", "arrival_date_day_of_month": "5",
		"meal": "BB", "market_segment": "Direct", "distribution_channel": "Direct",
		"reserved_room_type": "A", "assigned_room_type": "A", "deposit_type": "No Deposit",
		"customer_type": "Transient", "season": "Summer",
	}}
}

func TestEncode(t *testing.T) {
	Convey("Given encoders that know every value of the vector", t, func() {
		country := &mockCountry{mapping: map[string]float64{"PRT": 0.42}}
		onehot := sampleOneHot(true)

		Convey("When the vector is encoded", func() {
			d, err := encoding.Encode(sampleVector(), country, onehot)

			Convey("Then numeric columns should come first, then country, then indicators", func() {
				So(err, ShouldBeNil)
				So(d.Names[:4], ShouldResemble, []string{"adults", "adr", "log_lead_time", "country_encoded"})
				So(d.Values[:4], ShouldResemble, []float64{2, 80, 3.9, 0.42})
				So(d.Names[4], ShouldEqual, "hotel_Resort")
				So(d.Names[len(d.Names)-1], ShouldEqual, "season_Summer")
				So(d.Len(), ShouldEqual, 4+len(encoding.OneHotColumns))
			})

			Convey("Then every indicator should be set", func() {
				for _, v := range d.Values[4:] {
					So(v, ShouldEqual, 1)
				}
			})
		})
	})

	Convey("Given an unknown category and a strict one-hot encoder", t, func() {
		v := sampleVector()
		v[4] = features.Category("meal", "HB")

		Convey("Then encoding should fail with an unknown category error", func() {
			_, err := encoding.Encode(v, &mockCountry{mapping: map[string]float64{"PRT": 0.42}}, sampleOneHot(true))
			So(errors.Is(err, failure.ErrUnknownCategory), ShouldBeTrue)
			stage, _ := failure.StageOf(err)
			So(stage, ShouldEqual, failure.StageEncode)
		})
	})

	Convey("Given an unknown category and a lenient one-hot encoder", t, func() {
		v := sampleVector()
		v[4] = features.Category("meal", "HB")

		Convey("Then the meal indicator should be zero", func() {
			d, err := encoding.Encode(v, &mockCountry{mapping: map[string]float64{"PRT": 0.42}}, sampleOneHot(false))
			So(err, ShouldBeNil)
			meal, ok := d.Value("meal_BB")
			So(ok, ShouldBeTrue)
			So(meal, ShouldEqual, 0)
		})
	})

	Convey("Given a country the target encoder rejects", t, func() {
		Convey("Then the error should be tagged with the country field", func() {
			_, err := encoding.Encode(sampleVector(), &mockCountry{}, sampleOneHot(true))
			So(errors.Is(err, failure.ErrUnknownCategory), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "[country]")
		})
	})

	Convey("Given a vector without the country column", t, func() {
		Convey("Then encoding should report a schema mismatch", func() {
			_, err := encoding.Encode(sampleVector().Without("country"), &mockCountry{}, sampleOneHot(true))
			So(errors.Is(err, failure.ErrSchemaMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a vector missing a one-hot column", t, func() {
		Convey("Then encoding should name the absent column", func() {
			_, err := encoding.Encode(sampleVector().Without("season"), &mockCountry{mapping: map[string]float64{"PRT": 1}}, sampleOneHot(true))
			So(errors.Is(err, failure.ErrSchemaMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "[season]")
		})
	})

	Convey("Given a stray categorical column", t, func() {
		v := append(sampleVector(), features.Category("arrival_date_month", "July"))

		Convey("Then encoding should refuse to pass it through", func() {
			_, err := encoding.Encode(v, &mockCountry{mapping: map[string]float64{"PRT": 1}}, sampleOneHot(true))
			So(errors.Is(err, failure.ErrSchemaMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "arrival_date_month")
		})
	})
}

func TestUncovered(t *testing.T) {
	Convey("Given a catalog partly unknown to the encoders", t, func() {
		catalog := map[string][]string{
			"country": {"PRT", "USA"},
			"meal":    {"BB", "FB"},
			"other":   {"x"},
		}
		country := &mockCountry{mapping: map[string]float64{"PRT": 0.4}}

		Convey("Then only the unknown values should be reported", func() {
			gaps := encoding.Uncovered(catalog, country, sampleOneHot(true))
			So(gaps["country"], ShouldResemble, []string{"USA"})
			So(gaps["meal"], ShouldResemble, []string{"FB"})
			_, ok := gaps["other"]
			So(ok, ShouldBeFalse)
		})
	})
}
