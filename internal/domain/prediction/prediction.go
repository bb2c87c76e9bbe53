// Package prediction runs a frozen binary classifier on a scaled feature row.
package prediction

import (
	"math"

	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/features"
	"github.com/okian/bookingrisk/internal/domain/scaling"
)

// DefaultThreshold is the classifier's own decision boundary.
const DefaultThreshold = 0.5

// Label is the predicted booking outcome.
type Label int

// Labels.
const (
	NotCanceled Label = iota
	Canceled
)

func (l Label) String() string {
	if l == Canceled {
		return "cancel"
	}
	return "not_cancel"
}

// MarshalText renders the label in JSON and logs.
func (l Label) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Result is a predicted label with the positive-class probability.
type Result struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
}

// Classifier is a frozen binary classifier.
type Classifier interface {
	// FeatureNames returns the input columns in fit order, or nil when unnamed.
	FeatureNames() []string
	// Width returns the expected number of inputs.
	Width() int
	// PredictProba returns the probability of the positive (cancel) class.
	PredictProba(values []float64) (float64, error)
}

// Option applies a configuration option to Predict.
type Option func(*options)

type options struct {
	threshold float64
}

// WithThreshold overrides the decision threshold. Values outside (0,1) are ignored.
func WithThreshold(t float64) Option {
	return func(o *options) {
		if t > 0 && t < 1 {
			o.threshold = t
		}
	}
}

// Predict classifies d. The label is Canceled when the probability exceeds the threshold.
func Predict(d features.Dense, m Classifier, opts ...Option) (Result, error) {
	o := options{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	if err := scaling.CheckSchema(failure.StagePredict, d.Names, m.FeatureNames(), m.Width()); err != nil {
		return Result{}, err
	}
	p, err := m.PredictProba(d.Values)
	if err != nil {
		if _, ok := failure.StageOf(err); ok {
			return Result{}, err
		}
		return Result{}, failure.Wrap(failure.StagePredict, "", failure.ErrSchemaMismatch, err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, failure.Newf(failure.StagePredict, "", failure.ErrSchemaMismatch, "probability %v outside [0,1]", p)
	}

	label := NotCanceled
	if p > o.threshold {
		label = Canceled
	}
	return Result{Label: label, Probability: p}, nil
}
