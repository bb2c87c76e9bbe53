package booking_test

import (
	"errors"
	"testing"

	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/internal/domain/failure"
	. "github.com/smartystreets/goconvey/convey"
)

func validAttributes() booking.Attributes {
	return booking.Attributes{
		Hotel:                  "Resort",
		LeadTime:               50,
		Adults:                 2,
		Meal:                   "BB",
		Country:                "PRT",
		MarketSegment:          "Direct",
		DistributionChannel:    "Online TA",
		ReservedRoomType:       "A",
		AssignedRoomType:       "A",
		DepositType:            "No Deposit",
		CustomerType:           "Transient",
		ADR:                    79,
		TotalOfSpecialRequests: 1,
	}
}

func TestForm_Record(t *testing.T) {
	Convey("Given a form with arrival on Friday 2024-07-05 and departure Monday 2024-07-08", t, func() {
		form := booking.Form{
			Attributes:    validAttributes(),
			ArrivalDate:   "2024-07-05",
			DepartureDate: "2024-07-08",
		}

		Convey("When the record is built", func() {
			rec, err := form.Record()

			Convey("Then the calendar fields should follow the arrival date", func() {
				So(err, ShouldBeNil)
				So(rec.ArrivalDateYear, ShouldEqual, 2024)
				So(rec.ArrivalDateMonth, ShouldEqual, "July")
				So(rec.ArrivalDateWeekNumber, ShouldEqual, 27)
				So(rec.ArrivalDateDayOfMonth, ShouldEqual, 5)
			})

			Convey("Then the nights should be split into weekend and weekday", func() {
				So(rec.StaysInWeekendNights, ShouldEqual, 2)
				So(rec.StaysInWeekNights, ShouldEqual, 1)
			})

			Convey("Then the direct attributes should be carried over", func() {
				So(rec.Attributes, ShouldResemble, form.Attributes)
				So(rec.Validate(), ShouldBeNil)
			})
		})
	})

	Convey("Given a form with an early January arrival", t, func() {
		form := booking.Form{Attributes: validAttributes(), ArrivalDate: "2021-01-02", DepartureDate: "2021-01-03"}

		Convey("Then the ISO week should belong to the previous year", func() {
			rec, err := form.Record()
			So(err, ShouldBeNil)
			So(rec.ArrivalDateWeekNumber, ShouldEqual, 53)
			So(rec.ArrivalDateMonth, ShouldEqual, "January")
		})
	})

	Convey("Given a form with a malformed date", t, func() {
		form := booking.Form{Attributes: validAttributes(), ArrivalDate: "05/07/2024", DepartureDate: "2024-07-08"}

		Convey("Then an invalid record error should name the field", func() {
			_, err := form.Record()
			So(errors.Is(err, failure.ErrInvalidRecord), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "arrival_date")
		})
	})

	Convey("Given a form whose departure precedes arrival", t, func() {
		form := booking.Form{Attributes: validAttributes(), ArrivalDate: "2024-07-08", DepartureDate: "2024-07-05"}

		Convey("Then the record should carry zero nights", func() {
			rec, err := form.Record()
			So(err, ShouldBeNil)
			So(rec.StaysInWeekendNights, ShouldEqual, 0)
			So(rec.StaysInWeekNights, ShouldEqual, 0)
		})
	})
}

func TestRecord_Validate(t *testing.T) {
	base := booking.Record{
		Attributes:            validAttributes(),
		ArrivalDateYear:       2024,
		ArrivalDateMonth:      "July",
		ArrivalDateWeekNumber: 27,
		ArrivalDateDayOfMonth: 5,
		StaysInWeekendNights:  1,
		StaysInWeekNights:     2,
	}

	Convey("Given a valid record", t, func() {
		Convey("Then validation should pass", func() {
			So(base.Validate(), ShouldBeNil)
		})
	})

	Convey("Given a meal plan outside the catalog", t, func() {
		rec := base
		rec.Meal = "AI"

		Convey("Then an unknown category error should name the field", func() {
			err := rec.Validate()
			So(errors.Is(err, failure.ErrUnknownCategory), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "[meal]")
		})
	})

	Convey("Given a negative lead time", t, func() {
		rec := base
		rec.LeadTime = -1

		Convey("Then an invalid record error should be returned", func() {
			err := rec.Validate()
			So(errors.Is(err, failure.ErrInvalidRecord), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "lead_time")
		})
	})

	Convey("Given several violations", t, func() {
		rec := base
		rec.Country = "XXX"
		rec.ArrivalDateWeekNumber = 60

		Convey("Then every violation should be reported", func() {
			err := rec.Validate()
			So(errors.Is(err, failure.ErrUnknownCategory), ShouldBeTrue)
			So(errors.Is(err, failure.ErrInvalidRecord), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "country")
			So(err.Error(), ShouldContainSubstring, "arrival_date_week_number")
		})
	})

	Convey("Given an unrecognized month name", t, func() {
		rec := base
		rec.ArrivalDateMonth = "Juli"

		Convey("Then validation should leave it to feature derivation", func() {
			So(rec.Validate(), ShouldBeNil)
		})
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		Convey("Then offered values should be allowed", func() {
			So(booking.DefaultCatalog.Allows("deposit_type", "Non Refund"), ShouldBeTrue)
			So(booking.DefaultCatalog.Allows("reserved_room_type", "P"), ShouldBeTrue)
		})

		Convey("Then other values and fields should be rejected", func() {
			So(booking.DefaultCatalog.Allows("meal", "Undefined"), ShouldBeFalse)
			So(booking.DefaultCatalog.Allows("season", "Summer"), ShouldBeFalse)
		})

		Convey("Then fields should be listed in sorted order", func() {
			fields := booking.DefaultCatalog.Fields()
			So(len(fields), ShouldEqual, 9)
			So(fields[0], ShouldEqual, "assigned_room_type")
			So(fields[len(fields)-1], ShouldEqual, "reserved_room_type")
		})
	})
}

func TestCatalog_Validate(t *testing.T) {
	narrow := booking.Catalog{}
	for k, v := range booking.DefaultCatalog {
		narrow[k] = v
	}
	narrow["meal"] = []string{"BB", "HB"}

	rec := booking.Record{
		Attributes:            validAttributes(),
		ArrivalDateYear:       2024,
		ArrivalDateMonth:      "July",
		ArrivalDateWeekNumber: 27,
		ArrivalDateDayOfMonth: 5,
	}

	Convey("Given a catalog narrower than the default", t, func() {
		Convey("Then values it lists should pass", func() {
			So(narrow.Validate(rec), ShouldBeNil)
		})

		Convey("Then a default value it omits should be an unknown category", func() {
			r := rec
			r.Meal = "FB"
			So(r.Validate(), ShouldBeNil)

			err := narrow.Validate(r)
			So(errors.Is(err, failure.ErrUnknownCategory), ShouldBeTrue)
			stage, _ := failure.StageOf(err)
			So(stage, ShouldEqual, failure.StageValidate)
			So(err.Error(), ShouldContainSubstring, "[meal]")
		})

		Convey("Then forms should be checked against it too", func() {
			f := booking.Form{Attributes: validAttributes(), ArrivalDate: "2024-07-05", DepartureDate: "2024-07-08"}
			f.Meal = "SC"
			_, err := narrow.Record(f)
			So(errors.Is(err, failure.ErrUnknownCategory), ShouldBeTrue)

			_, err = f.Record()
			So(err, ShouldBeNil)
		})
	})

	Convey("Given an empty catalog", t, func() {
		Convey("Then the default catalog should apply", func() {
			So(booking.Catalog(nil).Validate(rec), ShouldBeNil)
		})
	})
}
