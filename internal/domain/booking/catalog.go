package booking

import (
	"slices"
	"sort"
)

// Catalog lists the values accepted at input for each categorical field.
type Catalog map[string][]string

var roomTypes = []string{"A", "B", "C", "D", "E", "F", "G", "H", "L", "P"}

// DefaultCatalog is the value set offered by the booking form.
var DefaultCatalog = Catalog{ //nolint:gochecknoglobals // fixed lookup table
	"hotel":                {"Hotel", "Resort"},
	"deposit_type":         {"No Deposit", "Non Refund", "Refundable"},
	"country":              {"PRT", "GBR", "FRA", "ESP", "DEU", "IRL", "ITA", "BEL", "NLD", "USA"},
	"meal":                 {"BB", "FB", "HB", "SC"},
	"market_segment":       {"Corporate", "Direct", "GDS", "TA/TO", "Undefined"},
	"distribution_channel": {"Direct", "Corporate", "Online TA", "Offline TA/TO", "Complementary", "Groups", "Aviation", "Undefined"},
	"customer_type":        {"Contract", "Group", "Transient", "Transient-Party"},
	"reserved_room_type":   roomTypes,
	"assigned_room_type":   roomTypes,
}

// Allows reports whether value is accepted for field. Unknown fields allow nothing.
func (c Catalog) Allows(field, value string) bool {
	return slices.Contains(c[field], value)
}

// Validate is Record.Validate with the categorical values checked against c.
func (c Catalog) Validate(r Record) error {
	return validateStruct(c, r)
}

// Fields returns the catalog's field names in sorted order.
func (c Catalog) Fields() []string {
	out := make([]string, 0, len(c))
	for f := range c {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
