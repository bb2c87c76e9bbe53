// Package stay counts the nights of a stay split into weekend and weekday nights.
package stay

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date layout accepted by ParseDate.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidDate, s, err)
	}
	return t, nil
}

// CountNights counts weekend (Saturday, Sunday) and weekday nights for every
// calendar day in [arrival, departure). An empty or inverted range yields zeros.
func CountNights(arrival, departure time.Time) (weekend, weekday int) {
	day := calendarDay(arrival)
	end := calendarDay(departure)
	for day.Before(end) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			weekend++
		default:
			weekday++
		}
		day = day.AddDate(0, 0, 1)
	}
	return weekend, weekday
}

// CountNightsString is CountNights over YYYY-MM-DD strings.
func CountNightsString(arrival, departure string) (weekend, weekday int, err error) {
	a, err := ParseDate(arrival)
	if err != nil {
		return 0, 0, err
	}
	d, err := ParseDate(departure)
	if err != nil {
		return 0, 0, err
	}
	weekend, weekday = CountNights(a, d)
	return weekend, weekday, nil
}

// calendarDay drops the clock and zone so DST shifts cannot skip or repeat a day.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
