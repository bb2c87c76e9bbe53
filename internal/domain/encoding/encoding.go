// Package encoding replaces categorical feature columns with the numeric
// representations produced by frozen, externally fit encoders.
package encoding

import (
	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/features"
)

// Column names handled by the encoders.
const (
	CountryColumn  = "country"
	CountryEncoded = "country_encoded"
)

// OneHotColumns is the fixed categorical set expanded into indicator columns,
// in the order the one-hot encoder was fit on.
var OneHotColumns = []string{ //nolint:gochecknoglobals // fixed schema
	"hotel",
	"arrival_date_week_number",
	"arrival_date_day_of_month",
	"meal",
	"market_segment",
	"distribution_channel",
	"reserved_room_type",
	"assigned_room_type",
	"deposit_type",
	"customer_type",
	"season",
}

// CountryEncoder maps a country code to its fitted target statistic.
type CountryEncoder interface {
	Transform(country string) (float64, error)
}

// OneHotEncoder expands categorical values into indicator columns.
type OneHotEncoder interface {
	// FeatureNamesOut returns the indicator column names for columns.
	FeatureNamesOut(columns []string) ([]string, error)
	// Transform encodes one row whose values are given in columns order.
	Transform(columns, values []string) ([]float64, error)
	// CategoriesOf returns the fitted categories of column.
	CategoriesOf(column string) ([]string, bool)
}

// Encode target-encodes the country, then one-hot encodes the fixed categorical
// set. The result holds the remaining numeric columns in order, country_encoded,
// then the indicator columns.
func Encode(v features.Vector, country CountryEncoder, onehot OneHotEncoder) (features.Dense, error) {
	c, ok := v.Lookup(CountryColumn)
	if !ok || !c.Categorical {
		return features.Dense{}, failure.Newf(failure.StageEncode, CountryColumn, failure.ErrSchemaMismatch, "categorical column absent")
	}
	encoded, err := country.Transform(c.Cat)
	if err != nil {
		return features.Dense{}, stageError(CountryColumn, err)
	}
	v = append(v.Without(CountryColumn), features.Numeric(CountryEncoded, encoded))

	values := make([]string, len(OneHotColumns))
	for i, name := range OneHotColumns {
		col, ok := v.Lookup(name)
		if !ok || !col.Categorical {
			return features.Dense{}, failure.Newf(failure.StageEncode, name, failure.ErrSchemaMismatch, "categorical column absent")
		}
		values[i] = col.Cat
	}
	names, err := onehot.FeatureNamesOut(OneHotColumns)
	if err != nil {
		return features.Dense{}, stageError("", err)
	}
	indicators, err := onehot.Transform(OneHotColumns, values)
	if err != nil {
		return features.Dense{}, stageError("", err)
	}
	if len(names) != len(indicators) {
		return features.Dense{}, failure.Newf(failure.StageEncode, "", failure.ErrSchemaMismatch,
			"encoder produced %d values for %d names", len(indicators), len(names))
	}

	rest := v.Without(OneHotColumns...)
	out := features.Dense{
		Names:  make([]string, 0, len(rest)+len(names)),
		Values: make([]float64, 0, len(rest)+len(names)),
	}
	for _, col := range rest {
		if col.Categorical {
			return features.Dense{}, failure.Newf(failure.StageEncode, col.Name, failure.ErrSchemaMismatch, "categorical column left unencoded")
		}
		out.Names = append(out.Names, col.Name)
		out.Values = append(out.Values, col.Num)
	}
	out.Names = append(out.Names, names...)
	out.Values = append(out.Values, indicators...)
	return out, nil
}

// Uncovered returns, per column, the values of catalog that the encoders were
// not fit on. Only columns the encoders handle are checked.
func Uncovered(catalog map[string][]string, country CountryEncoder, onehot OneHotEncoder) map[string][]string {
	out := make(map[string][]string)
	for field, values := range catalog {
		if field == CountryColumn {
			for _, v := range values {
				if !knows(country, v) {
					out[field] = append(out[field], v)
				}
			}
			continue
		}
		known, ok := onehot.CategoriesOf(field)
		if !ok {
			continue
		}
		set := make(map[string]struct{}, len(known))
		for _, k := range known {
			set[k] = struct{}{}
		}
		for _, v := range values {
			if _, ok := set[v]; !ok {
				out[field] = append(out[field], v)
			}
		}
	}
	return out
}

// knows reports whether the country encoder was fit on v. Encoders that map
// unseen values to a prior can say so through a Knows method.
func knows(country CountryEncoder, v string) bool {
	if k, ok := country.(interface{ Knows(string) bool }); ok {
		return k.Knows(v)
	}
	_, err := country.Transform(v)
	return err == nil
}

// stageError tags encoder errors with the encode stage unless they already carry one.
func stageError(field string, err error) error {
	if _, ok := failure.StageOf(err); ok {
		return err
	}
	kind := failure.KindOf(err)
	if kind == nil {
		kind = failure.ErrSchemaMismatch
	}
	return failure.Wrap(failure.StageEncode, field, kind, err)
}
