package stay_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/bookingrisk/internal/domain/stay"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountNights(t *testing.T) {
	Convey("Given a stay counter", t, func() {
		Convey("When the range spans one full week starting on a Monday", func() {
			weekend, weekday := stay.CountNights(date(2024, time.January, 1), date(2024, time.January, 8))

			Convey("Then it should count two weekend and five weekday nights", func() {
				So(weekend, ShouldEqual, 2)
				So(weekday, ShouldEqual, 5)
			})
		})

		Convey("When arrival equals departure", func() {
			weekend, weekday := stay.CountNights(date(2024, time.March, 9), date(2024, time.March, 9))

			Convey("Then both counts should be zero", func() {
				So(weekend, ShouldEqual, 0)
				So(weekday, ShouldEqual, 0)
			})
		})

		Convey("When departure precedes arrival", func() {
			weekend, weekday := stay.CountNights(date(2024, time.March, 9), date(2024, time.March, 1))

			Convey("Then both counts should be zero", func() {
				So(weekend, ShouldEqual, 0)
				So(weekday, ShouldEqual, 0)
			})
		})

		Convey("When the stay starts on a Friday and leaves on Monday", func() {
			weekend, weekday := stay.CountNights(date(2024, time.January, 5), date(2024, time.January, 8))

			Convey("Then the departure day should not be counted", func() {
				So(weekend, ShouldEqual, 2)
				So(weekday, ShouldEqual, 1)
			})
		})

		Convey("When the dates carry a clock time", func() {
			arrival := time.Date(2024, time.January, 6, 23, 30, 0, 0, time.UTC)
			departure := time.Date(2024, time.January, 7, 1, 0, 0, 0, time.UTC)
			weekend, weekday := stay.CountNights(arrival, departure)

			Convey("Then only calendar days should matter", func() {
				So(weekend, ShouldEqual, 1)
				So(weekday, ShouldEqual, 0)
			})
		})

		Convey("When the stay crosses a month and a leap day", func() {
			weekend, weekday := stay.CountNights(date(2024, time.February, 28), date(2024, time.March, 2))

			Convey("Then every calendar day should be counted once", func() {
				// Wed 28, Thu 29, Fri 1.
				So(weekend, ShouldEqual, 0)
				So(weekday, ShouldEqual, 3)
			})
		})

		Convey("When counting is repeated", func() {
			a, b := stay.CountNights(date(2023, time.December, 20), date(2024, time.January, 3))
			c, d := stay.CountNights(date(2023, time.December, 20), date(2024, time.January, 3))

			Convey("Then results should be identical and sum to the length of stay", func() {
				So(a, ShouldEqual, c)
				So(b, ShouldEqual, d)
				So(a+b, ShouldEqual, 14)
			})
		})
	})
}

func TestCountNightsString(t *testing.T) {
	Convey("Given string dates", t, func() {
		Convey("When both dates are valid", func() {
			weekend, weekday, err := stay.CountNightsString("2024-01-01", "2024-01-08")

			Convey("Then they should be parsed and counted", func() {
				So(err, ShouldBeNil)
				So(weekend, ShouldEqual, 2)
				So(weekday, ShouldEqual, 5)
			})
		})

		Convey("When a date is malformed", func() {
			_, _, err := stay.CountNightsString("2024-01-01", "08/01/2024")

			Convey("Then an invalid date error should be returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, stay.ErrInvalidDate), ShouldBeTrue)
			})
		})
	})
}
