package features

import (
	"math"
	"strconv"

	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/internal/domain/failure"
)

// Derived column names, in the order they are appended.
const (
	LogLeadTime                 = "log_lead_time"
	RoomTypeSame                = "room_type_same"
	LengthOfStay                = "length_of_stay"
	IsWeekend                   = "is_weekend"
	IsHighSeason                = "is_high_season"
	Season                      = "season"
	TotalGuests                 = "total_guests"
	MealCostLevel               = "meal_cost_level"
	HasMealPlan                 = "has_meal_plan"
	MealDepositInteraction      = "meal_deposit_interaction"
	DepositLeadInteraction      = "deposit_lead_interaction"
	CancelHistoryRatio          = "cancel_history_ratio"
	CancellationLeadInteraction = "cancellation_lead_interaction"
)

// Dropped lists the raw columns replaced by their derived counterparts.
var Dropped = []string{ //nolint:gochecknoglobals // fixed schema
	"previous_cancellations",
	"previous_bookings_not_canceled",
	"lead_time",
	"arrival_date_year",
	"arrival_date_month",
}

var seasons = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"January": "Winter", "February": "Winter", "March": "Spring",
	"April": "Spring", "May": "Spring", "June": "Summer",
	"July": "Summer", "August": "Summer", "September": "Fall",
	"October": "Fall", "November": "Fall", "December": "Winter",
}

var highSeason = map[string]bool{"June": true, "July": true, "August": true} //nolint:gochecknoglobals // fixed lookup table

var mealCost = map[string]float64{"SC": 0, "BB": 1, "HB": 2, "FB": 3} //nolint:gochecknoglobals // fixed lookup table

var depositLevel = map[string]float64{"No Deposit": 0, "Non Refund": 1, "Refundable": 2} //nolint:gochecknoglobals // fixed lookup table

// SeasonOf maps an English month name to its season.
func SeasonOf(month string) (string, error) {
	s, ok := seasons[month]
	if !ok {
		return "", failure.Newf(failure.StageDerive, "arrival_date_month", failure.ErrUnmappedMonth, "%q", month)
	}
	return s, nil
}

// Raw lays the record out as columns in collector order, before derivation.
func Raw(r booking.Record) Vector {
	return Vector{
		Category("hotel", r.Hotel),
		Numeric("lead_time", float64(r.LeadTime)),
		Numeric("arrival_date_year", float64(r.ArrivalDateYear)),
		Category("arrival_date_month", r.ArrivalDateMonth),
		Category("arrival_date_week_number", strconv.Itoa(r.ArrivalDateWeekNumber)),
		Category("arrival_date_day_of_month", strconv.Itoa(r.ArrivalDateDayOfMonth)),
		Numeric("stays_in_weekend_nights", float64(r.StaysInWeekendNights)),
		Numeric("stays_in_week_nights", float64(r.StaysInWeekNights)),
		Numeric("adults", float64(r.Adults)),
		Numeric("children", float64(r.Children)),
		Numeric("babies", float64(r.Babies)),
		Category("meal", r.Meal),
		Category("country", r.Country),
		Category("market_segment", r.MarketSegment),
		Category("distribution_channel", r.DistributionChannel),
		Numeric("is_repeated_guest", boolToFloat(r.IsRepeatedGuest)),
		Numeric("previous_cancellations", float64(r.PreviousCancellations)),
		Numeric("previous_bookings_not_canceled", float64(r.PreviousBookingsNotCanceled)),
		Category("reserved_room_type", r.ReservedRoomType),
		Category("assigned_room_type", r.AssignedRoomType),
		Numeric("booking_changes", float64(r.BookingChanges)),
		Category("deposit_type", r.DepositType),
		Category("customer_type", r.CustomerType),
		Numeric("adr", r.ADR),
		Numeric("required_car_parking_spaces", float64(r.RequiredCarParkingSpaces)),
		Numeric("total_of_special_requests", float64(r.TotalOfSpecialRequests)),
	}
}

// Derive computes the engineered features for r and drops the raw columns
// they replace. It is pure and deterministic.
func Derive(r booking.Record) (Vector, error) {
	season, err := SeasonOf(r.ArrivalDateMonth)
	if err != nil {
		return nil, err
	}
	meal, ok := mealCost[r.Meal]
	if !ok {
		return nil, failure.Newf(failure.StageDerive, "meal", failure.ErrUnknownCategory, "%q", r.Meal)
	}
	deposit, ok := depositLevel[r.DepositType]
	if !ok {
		return nil, failure.Newf(failure.StageDerive, "deposit_type", failure.ErrUnknownCategory, "%q", r.DepositType)
	}

	lead := float64(r.LeadTime)
	cancels := float64(r.PreviousCancellations)
	// Denominator is at least 1 for non-negative counts.
	ratio := cancels / (cancels + float64(r.PreviousBookingsNotCanceled) + 1)

	v := append(Raw(r),
		Numeric(LogLeadTime, math.Log1p(lead)),
		Numeric(RoomTypeSame, boolToFloat(r.ReservedRoomType == r.AssignedRoomType)),
		Numeric(LengthOfStay, float64(r.StaysInWeekendNights+r.StaysInWeekNights)),
		Numeric(IsWeekend, boolToFloat(r.StaysInWeekendNights > 0)),
		Numeric(IsHighSeason, boolToFloat(highSeason[r.ArrivalDateMonth])),
		Category(Season, season),
		Numeric(TotalGuests, float64(r.Adults+r.Children+r.Babies)),
		Numeric(MealCostLevel, meal),
		Numeric(HasMealPlan, boolToFloat(r.Meal != "SC")),
		Numeric(MealDepositInteraction, meal*deposit),
		Numeric(DepositLeadInteraction, deposit*lead),
		Numeric(CancelHistoryRatio, ratio),
		Numeric(CancellationLeadInteraction, ratio*lead),
	)
	return v.Without(Dropped...), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
