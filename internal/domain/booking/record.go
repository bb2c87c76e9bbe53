// Package booking defines the raw booking attributes fed into the
// cancellation pipeline and the collector form they are built from.
package booking

// Attributes are the booking fields the collector asks for directly.
type Attributes struct {
	Hotel                       string  `json:"hotel" validate:"required,catalog=hotel"`
	LeadTime                    int     `json:"lead_time" validate:"gte=0"`
	Adults                      int     `json:"adults" validate:"gte=0"`
	Children                    int     `json:"children" validate:"gte=0"`
	Babies                      int     `json:"babies" validate:"gte=0"`
	Meal                        string  `json:"meal" validate:"required,catalog=meal"`
	Country                     string  `json:"country" validate:"required,catalog=country"`
	MarketSegment               string  `json:"market_segment" validate:"required,catalog=market_segment"`
	DistributionChannel         string  `json:"distribution_channel" validate:"required,catalog=distribution_channel"`
	IsRepeatedGuest             bool    `json:"is_repeated_guest"`
	PreviousCancellations       int     `json:"previous_cancellations" validate:"gte=0"`
	PreviousBookingsNotCanceled int     `json:"previous_bookings_not_canceled" validate:"gte=0"`
	ReservedRoomType            string  `json:"reserved_room_type" validate:"required,catalog=reserved_room_type"`
	AssignedRoomType            string  `json:"assigned_room_type" validate:"required,catalog=assigned_room_type"`
	BookingChanges              int     `json:"booking_changes" validate:"gte=0"`
	DepositType                 string  `json:"deposit_type" validate:"required,catalog=deposit_type"`
	CustomerType                string  `json:"customer_type" validate:"required,catalog=customer_type"`
	ADR                         float64 `json:"adr" validate:"gte=0"`
	RequiredCarParkingSpaces    int     `json:"required_car_parking_spaces" validate:"gte=0"`
	TotalOfSpecialRequests      int     `json:"total_of_special_requests" validate:"gte=0"`
}

// Record is the full raw attribute set of one booking.
type Record struct {
	Attributes

	ArrivalDateYear       int    `json:"arrival_date_year" validate:"gte=0"`
	ArrivalDateMonth      string `json:"arrival_date_month" validate:"required"`
	ArrivalDateWeekNumber int    `json:"arrival_date_week_number" validate:"min=1,max=53"`
	ArrivalDateDayOfMonth int    `json:"arrival_date_day_of_month" validate:"min=1,max=31"`
	StaysInWeekendNights  int    `json:"stays_in_weekend_nights" validate:"gte=0"`
	StaysInWeekNights     int    `json:"stays_in_week_nights" validate:"gte=0"`
}

// Validate checks field ranges and that every categorical value is in
// DefaultCatalog. The arrival month name is left to feature derivation.
func (r Record) Validate() error {
	return validateStruct(DefaultCatalog, r)
}
