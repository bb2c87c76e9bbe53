// Package artifacts loads the frozen encoder, scaler and classifier artifacts
// exported from the training environment and implements the pipeline's
// capability interfaces on top of them.
package artifacts

import (
	"fmt"

	"github.com/okian/bookingrisk/internal/domain/failure"
)

// Unknown-value policies of the target encoder.
const (
	HandleUnknownValue = "value"
	HandleUnknownError = "error"
)

// TargetEncoder maps a category to the statistic learned during fitting.
type TargetEncoder struct {
	Kind          string             `json:"kind"`
	Column        string             `json:"column"`
	Mapping       map[string]float64 `json:"mapping"`
	HandleUnknown string             `json:"handle_unknown"`
	UnknownValue  float64            `json:"unknown_value"`
}

func (e *TargetEncoder) validate() error {
	if e.Kind != "target" {
		return fmt.Errorf("%w: %q, want target", ErrUnsupportedKind, e.Kind)
	}
	if len(e.Mapping) == 0 {
		return fmt.Errorf("%w: empty mapping", ErrInvalidArtifact)
	}
	switch e.HandleUnknown {
	case "":
		e.HandleUnknown = HandleUnknownValue
	case HandleUnknownValue, HandleUnknownError:
	default:
		return fmt.Errorf("%w: handle_unknown %q", ErrInvalidArtifact, e.HandleUnknown)
	}
	if e.Column == "" {
		e.Column = "country"
	}
	return nil
}

// Knows reports whether category was seen during fit.
func (e *TargetEncoder) Knows(category string) bool {
	_, ok := e.Mapping[category]
	return ok
}

// Transform returns the fitted statistic for category. Unseen categories get
// the fitted prior or fail, depending on the artifact's policy.
func (e *TargetEncoder) Transform(category string) (float64, error) {
	if v, ok := e.Mapping[category]; ok {
		return v, nil
	}
	if e.HandleUnknown == HandleUnknownError {
		return 0, failure.Newf(failure.StageEncode, e.Column, failure.ErrUnknownCategory, "%q not seen during fit", category)
	}
	return e.UnknownValue, nil
}
