package artifacts

import (
	"fmt"

	"github.com/okian/bookingrisk/internal/domain/failure"
)

// Scaler is a fitted affine column transform: standardization ("standard")
// or range scaling ("minmax").
type Scaler struct {
	Kind           string    `json:"kind"`
	FeatureNamesIn []string  `json:"feature_names_in"`
	Mean           []float64 `json:"mean"`
	Min            []float64 `json:"min"`
	Scale          []float64 `json:"scale"`
	WithMean       *bool     `json:"with_mean"`
	WithStd        *bool     `json:"with_std"`

	// Transform computes x*mul + add per column.
	mul []float64
	add []float64
}

func (s *Scaler) validate() error {
	n := len(s.Scale)
	if n == 0 {
		return fmt.Errorf("%w: empty scale", ErrInvalidArtifact)
	}
	if s.FeatureNamesIn != nil && len(s.FeatureNamesIn) != n {
		return fmt.Errorf("%w: %d feature names for %d scale entries", ErrInvalidArtifact, len(s.FeatureNamesIn), n)
	}
	s.mul = make([]float64, n)
	s.add = make([]float64, n)

	switch s.Kind {
	case "standard":
		withMean := s.WithMean == nil || *s.WithMean
		withStd := s.WithStd == nil || *s.WithStd
		if withMean && len(s.Mean) != n {
			return fmt.Errorf("%w: %d means for %d scale entries", ErrInvalidArtifact, len(s.Mean), n)
		}
		for i := range n {
			scale := 1.0
			// Constant training columns are stored with a zero scale and left unscaled.
			if withStd && s.Scale[i] != 0 {
				scale = s.Scale[i]
			}
			mean := 0.0
			if withMean {
				mean = s.Mean[i]
			}
			s.mul[i] = 1 / scale
			s.add[i] = -mean / scale
		}
	case "minmax":
		if len(s.Min) != n {
			return fmt.Errorf("%w: %d minimums for %d scale entries", ErrInvalidArtifact, len(s.Min), n)
		}
		copy(s.mul, s.Scale)
		copy(s.add, s.Min)
	default:
		return fmt.Errorf("%w: %q, want standard or minmax", ErrUnsupportedKind, s.Kind)
	}
	return nil
}

// FeatureNames returns the columns the scaler was fit on.
func (s *Scaler) FeatureNames() []string { return s.FeatureNamesIn }

// Width returns the number of columns the scaler expects.
func (s *Scaler) Width() int { return len(s.mul) }

// Transform scales one row positionally.
func (s *Scaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.mul) {
		return nil, failure.Newf(failure.StageScale, "", failure.ErrSchemaMismatch, "got %d values, want %d", len(values), len(s.mul))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v*s.mul[i] + s.add[i]
	}
	return out, nil
}
