// Package features derives the engineered feature set the frozen encoders,
// scaler and classifier were fit on.
package features

import "strconv"

// Column is one named feature. Categorical columns carry Cat, numeric ones Num.
type Column struct {
	Name        string
	Num         float64
	Cat         string
	Categorical bool
}

// Numeric builds a numeric column.
func Numeric(name string, v float64) Column { return Column{Name: name, Num: v} }

// Category builds a categorical column.
func Category(name, v string) Column { return Column{Name: name, Cat: v, Categorical: true} }

// String renders the column value.
func (c Column) String() string {
	if c.Categorical {
		return c.Cat
	}
	return strconv.FormatFloat(c.Num, 'g', -1, 64)
}

// Vector is an ordered set of feature columns.
type Vector []Column

// Names returns the column names in order.
func (v Vector) Names() []string {
	out := make([]string, len(v))
	for i, c := range v {
		out[i] = c.Name
	}
	return out
}

// Lookup finds a column by name.
func (v Vector) Lookup(name string) (Column, bool) {
	for _, c := range v {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Without returns a copy of v minus the named columns.
func (v Vector) Without(names ...string) Vector {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := make(Vector, 0, len(v))
	for _, c := range v {
		if _, ok := drop[c.Name]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Dense is an all-numeric feature row with its column names.
type Dense struct {
	Names  []string
	Values []float64
}

// Len returns the number of columns.
func (d Dense) Len() int { return len(d.Values) }

// Value returns the value of the named column.
func (d Dense) Value(name string) (float64, bool) {
	for i, n := range d.Names {
		if n == name {
			return d.Values[i], true
		}
	}
	return 0, false
}
