package booking

import (
	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/stay"
)

// Form is what the input collector gathers: two calendar dates plus the
// directly asked attributes.
type Form struct {
	Attributes

	ArrivalDate   string `json:"arrival_date" validate:"required,datetime=2006-01-02"`
	DepartureDate string `json:"departure_date" validate:"required,datetime=2006-01-02"`
}

// Validate checks the form fields against DefaultCatalog.
func (f Form) Validate() error {
	return validateStruct(DefaultCatalog, f)
}

// Record derives the arrival calendar fields and night counts from the form dates.
func (f Form) Record() (Record, error) {
	return DefaultCatalog.Record(f)
}

// Record is Form.Record with the categorical values checked against c.
func (c Catalog) Record(f Form) (Record, error) {
	if err := validateStruct(c, f); err != nil {
		return Record{}, err
	}
	arrival, err := stay.ParseDate(f.ArrivalDate)
	if err != nil {
		return Record{}, failure.Wrap(failure.StageValidate, "arrival_date", failure.ErrInvalidRecord, err)
	}
	departure, err := stay.ParseDate(f.DepartureDate)
	if err != nil {
		return Record{}, failure.Wrap(failure.StageValidate, "departure_date", failure.ErrInvalidRecord, err)
	}

	weekend, weekday := stay.CountNights(arrival, departure)
	_, week := arrival.ISOWeek()

	return Record{
		Attributes:            f.Attributes,
		ArrivalDateYear:       arrival.Year(),
		ArrivalDateMonth:      arrival.Month().String(),
		ArrivalDateWeekNumber: week,
		ArrivalDateDayOfMonth: arrival.Day(),
		StaysInWeekendNights:  weekend,
		StaysInWeekNights:     weekday,
	}, nil
}
