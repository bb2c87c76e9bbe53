// Package scaling applies a frozen numeric scaler to an encoded feature row.
package scaling

import (
	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/features"
)

// Scaler is a fitted column-wise numeric transform.
type Scaler interface {
	// FeatureNames returns the columns the scaler was fit on, in order.
	// A nil result means the scaler was fit without names and only the
	// column count is checked.
	FeatureNames() []string
	// Width returns the number of columns the scaler expects.
	Width() int
	// Transform scales one row positionally.
	Transform(values []float64) ([]float64, error)
}

// Scale checks that d matches the scaler's fitted schema and transforms it.
// Names are preserved.
func Scale(d features.Dense, s Scaler) (features.Dense, error) {
	if err := CheckSchema(failure.StageScale, d.Names, s.FeatureNames(), s.Width()); err != nil {
		return features.Dense{}, err
	}
	out, err := s.Transform(d.Values)
	if err != nil {
		if _, ok := failure.StageOf(err); ok {
			return features.Dense{}, err
		}
		return features.Dense{}, failure.Wrap(failure.StageScale, "", failure.ErrSchemaMismatch, err)
	}
	names := make([]string, len(d.Names))
	copy(names, d.Names)
	return features.Dense{Names: names, Values: out}, nil
}

// CheckSchema verifies got against the fitted names (or width when names are
// absent), reporting the first offending position.
func CheckSchema(stage string, got, want []string, width int) error {
	if want == nil {
		if len(got) != width {
			return failure.Newf(stage, "", failure.ErrSchemaMismatch, "got %d columns, want %d", len(got), width)
		}
		return nil
	}
	for i := 0; i < len(got) && i < len(want); i++ {
		if got[i] != want[i] {
			return failure.Newf(stage, got[i], failure.ErrSchemaMismatch, "column %d is %q, want %q", i, got[i], want[i])
		}
	}
	if len(got) != len(want) {
		return failure.Newf(stage, "", failure.ErrSchemaMismatch, "got %d columns, want %d", len(got), len(want))
	}
	return nil
}
