package artifacts

import (
	"fmt"
	"math"

	"github.com/okian/bookingrisk/internal/domain/failure"
)

// Logistic is a fitted binary logistic regression.
type Logistic struct {
	Kind           string    `json:"kind"`
	FeatureNamesIn []string  `json:"feature_names_in"`
	Coef           []float64 `json:"coef"`
	Intercept      float64   `json:"intercept"`
}

func (m *Logistic) validate() error {
	if len(m.Coef) == 0 {
		return fmt.Errorf("%w: empty coef", ErrInvalidArtifact)
	}
	if m.FeatureNamesIn != nil && len(m.FeatureNamesIn) != len(m.Coef) {
		return fmt.Errorf("%w: %d feature names for %d coefficients", ErrInvalidArtifact, len(m.FeatureNamesIn), len(m.Coef))
	}
	return nil
}

// FeatureNames returns the model inputs in fit order.
func (m *Logistic) FeatureNames() []string { return m.FeatureNamesIn }

// Width returns the number of inputs.
func (m *Logistic) Width() int { return len(m.Coef) }

// PredictProba returns sigmoid(coef·x + intercept).
func (m *Logistic) PredictProba(values []float64) (float64, error) {
	if len(values) != len(m.Coef) {
		return 0, failure.Newf(failure.StagePredict, "", failure.ErrSchemaMismatch, "got %d values, want %d", len(values), len(m.Coef))
	}
	z := m.Intercept
	for i, v := range values {
		z += m.Coef[i] * v
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
