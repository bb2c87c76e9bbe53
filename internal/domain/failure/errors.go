// Package failure defines the error kinds shared by every stage of the
// cancellation pipeline and a stage-tagged error carrying diagnostic context.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Callers match them with errors.Is.
var (
	ErrUnmappedMonth          = errors.New("unmapped month")
	ErrUnknownCategory        = errors.New("unknown category")
	ErrSchemaMismatch         = errors.New("schema mismatch")
	ErrEncoderArtifactMissing = errors.New("encoder artifact missing")
	ErrModelArtifactMissing   = errors.New("model artifact missing")
	ErrInvalidRecord          = errors.New("invalid booking record")
)

// Pipeline stages.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageDerive   = "derive"
	StageEncode   = "encode"
	StageScale    = "scale"
	StagePredict  = "predict"
)

// Error tags a failure with the stage and field it happened in.
type Error struct {
	Stage string
	Field string
	Kind  error
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	if e.Field != "" {
		b.WriteString(" [")
		b.WriteString(e.Field)
		b.WriteString("]")
	}
	b.WriteString(": ")
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		if e.Kind != nil {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// New builds a stage error with no underlying cause.
func New(stage, field string, kind error) error {
	return &Error{Stage: stage, Field: field, Kind: kind}
}

// Newf builds a stage error whose cause is a formatted message.
func Newf(stage, field string, kind error, format string, args ...any) error {
	return &Error{Stage: stage, Field: field, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap tags err with a stage, field and kind. A nil err yields nil.
func Wrap(stage, field string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Stage: stage, Field: field, Kind: kind, Err: err}
}

// StageOf returns the stage of the first *Error in err's chain.
func StageOf(err error) (string, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage, true
	}
	return "", false
}

// KindOf returns the first known sentinel kind found in err's chain.
func KindOf(err error) error {
	for _, k := range []error{
		ErrUnmappedMonth,
		ErrUnknownCategory,
		ErrSchemaMismatch,
		ErrEncoderArtifactMissing,
		ErrModelArtifactMissing,
		ErrInvalidRecord,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindName returns a metric-friendly name for err's kind.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrUnmappedMonth:
		return "unmapped_month"
	case ErrUnknownCategory:
		return "unknown_category"
	case ErrSchemaMismatch:
		return "schema_mismatch"
	case ErrEncoderArtifactMissing:
		return "encoder_artifact_missing"
	case ErrModelArtifactMissing:
		return "model_artifact_missing"
	case ErrInvalidRecord:
		return "invalid_record"
	default:
		return "unknown"
	}
}
