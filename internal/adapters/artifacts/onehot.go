package artifacts

import (
	"fmt"

	"github.com/okian/bookingrisk/internal/domain/failure"
)

// Unknown-category policies of the one-hot encoder.
const (
	HandleUnknownIgnore = "ignore"
)

// OneHotEncoder expands categorical columns into indicator columns, one per
// fitted category, optionally dropping one category per column.
type OneHotEncoder struct {
	Kind           string     `json:"kind"`
	FeatureNamesIn []string   `json:"feature_names_in"`
	Categories     [][]string `json:"categories"`
	HandleUnknown  string     `json:"handle_unknown"`
	Drop           []*string  `json:"drop"`

	index []map[string]int // per column: category -> output offset, -1 when dropped
	width int
}

func (e *OneHotEncoder) validate() error {
	if e.Kind != "onehot" {
		return fmt.Errorf("%w: %q, want onehot", ErrUnsupportedKind, e.Kind)
	}
	if len(e.FeatureNamesIn) == 0 || len(e.FeatureNamesIn) != len(e.Categories) {
		return fmt.Errorf("%w: %d feature names for %d category lists", ErrInvalidArtifact, len(e.FeatureNamesIn), len(e.Categories))
	}
	if e.Drop != nil && len(e.Drop) != len(e.Categories) {
		return fmt.Errorf("%w: %d drop entries for %d columns", ErrInvalidArtifact, len(e.Drop), len(e.Categories))
	}
	switch e.HandleUnknown {
	case "":
		e.HandleUnknown = HandleUnknownError
	case HandleUnknownError, HandleUnknownIgnore:
	default:
		return fmt.Errorf("%w: handle_unknown %q", ErrInvalidArtifact, e.HandleUnknown)
	}

	e.index = make([]map[string]int, len(e.Categories))
	e.width = 0
	for i, cats := range e.Categories {
		var dropped string
		hasDrop := e.Drop != nil && e.Drop[i] != nil
		if hasDrop {
			dropped = *e.Drop[i]
		}
		m := make(map[string]int, len(cats))
		for _, c := range cats {
			if _, dup := m[c]; dup {
				return fmt.Errorf("%w: duplicate category %q in %s", ErrInvalidArtifact, c, e.FeatureNamesIn[i])
			}
			if hasDrop && c == dropped {
				m[c] = -1
				continue
			}
			m[c] = e.width
			e.width++
		}
		if hasDrop {
			if _, ok := m[dropped]; !ok {
				return fmt.Errorf("%w: dropped category %q not in %s", ErrInvalidArtifact, dropped, e.FeatureNamesIn[i])
			}
		}
		e.index[i] = m
	}
	return nil
}

func (e *OneHotEncoder) checkColumns(columns []string) error {
	if len(columns) != len(e.FeatureNamesIn) {
		return failure.Newf(failure.StageEncode, "", failure.ErrSchemaMismatch, "got %d columns, encoder fit on %d", len(columns), len(e.FeatureNamesIn))
	}
	for i, c := range columns {
		if c != e.FeatureNamesIn[i] {
			return failure.Newf(failure.StageEncode, c, failure.ErrSchemaMismatch, "column %d is %q, encoder fit on %q", i, c, e.FeatureNamesIn[i])
		}
	}
	return nil
}

// FeatureNamesOut returns "<column>_<category>" for every kept category.
func (e *OneHotEncoder) FeatureNamesOut(columns []string) ([]string, error) {
	if err := e.checkColumns(columns); err != nil {
		return nil, err
	}
	out := make([]string, e.width)
	for i, cats := range e.Categories {
		for _, c := range cats {
			if pos := e.index[i][c]; pos >= 0 {
				out[pos] = columns[i] + "_" + c
			}
		}
	}
	return out, nil
}

// Transform encodes one row. Unknown values fail or produce all-zero
// indicators for their column, following the artifact's handle_unknown.
func (e *OneHotEncoder) Transform(columns, values []string) ([]float64, error) {
	if err := e.checkColumns(columns); err != nil {
		return nil, err
	}
	if len(values) != len(columns) {
		return nil, failure.Newf(failure.StageEncode, "", failure.ErrSchemaMismatch, "got %d values for %d columns", len(values), len(columns))
	}
	out := make([]float64, e.width)
	for i, v := range values {
		pos, ok := e.index[i][v]
		if !ok {
			if e.HandleUnknown == HandleUnknownIgnore {
				continue
			}
			return nil, failure.Newf(failure.StageEncode, columns[i], failure.ErrUnknownCategory, "%q not seen during fit", v)
		}
		if pos >= 0 {
			out[pos] = 1
		}
	}
	return out, nil
}

// CategoriesOf returns the fitted categories of column.
func (e *OneHotEncoder) CategoriesOf(column string) ([]string, bool) {
	for i, name := range e.FeatureNamesIn {
		if name == column {
			return e.Categories[i], true
		}
	}
	return nil, false
}

// Width returns the number of indicator columns produced.
func (e *OneHotEncoder) Width() int { return e.width }
