package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/internal/domain/stay"
	"github.com/okian/bookingrisk/pkg/logger"
)

// Generation bounds for synthetic bookings.
const (
	maxLeadTime     = 400
	maxStayNights   = 14
	maxAdults       = 4
	maxChildren     = 3
	maxADR          = 300
	maxSpecialReqs  = 5
	maxHistory      = 5
	arrivalYearBase = 2024
)

// SampleAttributes is a July resort booking with 50 days lead time, no
// cancellation history and no deposit.
func SampleAttributes() booking.Attributes {
	return booking.Attributes{
		Hotel:                  "Resort",
		LeadTime:               50,
		Adults:                 2,
		Meal:                   "BB",
		Country:                "PRT",
		MarketSegment:          "Direct",
		DistributionChannel:    "Direct",
		ReservedRoomType:       "A",
		AssignedRoomType:       "A",
		DepositType:            "No Deposit",
		CustomerType:           "Transient",
		ADR:                    95.5,
		TotalOfSpecialRequests: 1,
	}
}

// SampleRecord is SampleAttributes arriving on Sunday 2024-07-07 for one
// weekend and two weekday nights.
func SampleRecord() booking.Record {
	return booking.Record{
		Attributes:            SampleAttributes(),
		ArrivalDateYear:       2024,
		ArrivalDateMonth:      "July",
		ArrivalDateWeekNumber: 27,
		ArrivalDateDayOfMonth: 7,
		StaysInWeekendNights:  1,
		StaysInWeekNights:     2,
	}
}

// SampleForm is SampleAttributes as a date-range form.
func SampleForm() booking.Form {
	return booking.Form{
		Attributes:    SampleAttributes(),
		ArrivalDate:   "2024-07-07",
		DepartureDate: "2024-07-10",
	}
}

// Generator produces reproducible synthetic booking forms from a catalog.
type Generator struct {
	rng     *rand.Rand
	catalog booking.Catalog
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64, catalog booking.Catalog) *Generator {
	if len(catalog) == 0 {
		catalog = booking.DefaultCatalog
	}
	return &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // synthetic data
		catalog: catalog,
	}
}

// Forms returns n synthetic booking forms.
func (g *Generator) Forms(n int) []booking.Form {
	out := make([]booking.Form, n)
	for i := range out {
		out[i] = g.Form()
	}
	return out
}

// Form returns one synthetic booking form.
func (g *Generator) Form() booking.Form {
	arrival := time.Date(arrivalYearBase, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, g.rng.IntN(2*365))
	departure := arrival.AddDate(0, 0, g.rng.IntN(maxStayNights)+1)

	cancels := 0
	if g.rng.IntN(10) == 0 {
		cancels = g.rng.IntN(maxHistory) + 1
	}
	room := g.pick("reserved_room_type")
	assigned := room
	if g.rng.IntN(5) == 0 {
		assigned = g.pick("assigned_room_type")
	}

	return booking.Form{
		Attributes: booking.Attributes{
			Hotel:                       g.pick("hotel"),
			LeadTime:                    g.rng.IntN(maxLeadTime),
			Adults:                      g.rng.IntN(maxAdults) + 1,
			Children:                    g.rng.IntN(maxChildren),
			Meal:                        g.pick("meal"),
			Country:                     g.pick("country"),
			MarketSegment:               g.pick("market_segment"),
			DistributionChannel:         g.pick("distribution_channel"),
			IsRepeatedGuest:             g.rng.IntN(20) == 0,
			PreviousCancellations:       cancels,
			PreviousBookingsNotCanceled: g.rng.IntN(maxHistory),
			ReservedRoomType:            room,
			AssignedRoomType:            assigned,
			BookingChanges:              g.rng.IntN(3),
			DepositType:                 g.pick("deposit_type"),
			CustomerType:                g.pick("customer_type"),
			ADR:                         float64(g.rng.IntN(maxADR*100)) / 100,
			TotalOfSpecialRequests:      g.rng.IntN(maxSpecialReqs),
		},
		ArrivalDate:   arrival.Format(stay.DateLayout),
		DepartureDate: departure.Format(stay.DateLayout),
	}
}

func (g *Generator) pick(field string) string {
	values := g.catalog[field]
	if len(values) == 0 {
		return ""
	}
	return values[g.rng.IntN(len(values))]
}

// SaveForms writes forms to path as one JSON document per line, ready to be
// piped one at a time into the predictor.
func SaveForms(ctx context.Context, path string, forms []booking.Form) error {
	if len(forms) == 0 {
		return errors.New("no bookings to save")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(ctx, "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	for i, f := range forms {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to write booking %d: %w", i, err)
		}
	}

	logger.Get().Info(ctx, "bookings saved to file", logger.String("filename", path), logger.Int("count", len(forms)))
	return nil
}
