// Package fixtures writes a small, self-consistent demo artifact set and
// generates sample bookings for exercising the predictor end to end.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/bookingrisk/internal/adapters/artifacts"
	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/internal/domain/encoding"
	"github.com/okian/bookingrisk/internal/domain/features"
	"github.com/okian/bookingrisk/pkg/logger"
)

// Model kinds written by WriteArtifacts.
const (
	ModelLogistic = "logistic"
	ModelXGBoost  = "xgboost"
)

// Artifact file names inside the output directory.
const (
	ModelFile          = "model.json"
	CountryEncoderFile = "country_encoder.json"
	OneHotEncoderFile  = "onehot_encoder.json"
	ScalerFile         = "scaler.json"
	SamplesFile        = "bookings.jsonl"
)

const filePermission = 0o600

// Demo model parameters.
const (
	Intercept           = -4.0
	CoefLogLeadTime     = 0.8
	CoefNonRefund       = 2.5
	CoefCountryEncoded  = 2.0
	CoefSpecialRequests = -0.7
	CoefCancelHistory   = 3.0
)

// CountryRates is the demo target statistic per country.
var CountryRates = map[string]float64{ //nolint:gochecknoglobals // demo lookup table
	"PRT": 0.56, "GBR": 0.2, "FRA": 0.19, "ESP": 0.25, "DEU": 0.17,
	"IRL": 0.25, "ITA": 0.35, "BEL": 0.2, "NLD": 0.18, "USA": 0.24,
}

// UnknownCountryRate is the prior given to countries outside CountryRates.
const UnknownCountryRate = 0.37

// Config selects the artifact variants to write.
type Config struct {
	Dir                  string // Output directory, created if missing
	Model                string // ModelLogistic or ModelXGBoost
	OneHotHandleUnknown  string // "error" or "ignore"
	CountryHandleUnknown string // "value" or "error"
	Catalog              booking.Catalog
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = ModelLogistic
	}
	if c.OneHotHandleUnknown == "" {
		c.OneHotHandleUnknown = artifacts.HandleUnknownError
	}
	if c.CountryHandleUnknown == "" {
		c.CountryHandleUnknown = artifacts.HandleUnknownValue
	}
	if len(c.Catalog) == 0 {
		c.Catalog = booking.DefaultCatalog
	}
}

// WriteArtifacts writes the four artifacts into cfg.Dir and returns their paths.
// The scaler and model are fit to the column schema the pipeline produces.
func WriteArtifacts(ctx context.Context, cfg Config) (artifacts.Paths, error) {
	cfg.defaults()
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return artifacts.Paths{}, fmt.Errorf("create %s: %w", cfg.Dir, err)
	}
	p := artifacts.Paths{
		Model:          filepath.Join(cfg.Dir, ModelFile),
		CountryEncoder: filepath.Join(cfg.Dir, CountryEncoderFile),
		OneHotEncoder:  filepath.Join(cfg.Dir, OneHotEncoderFile),
		Scaler:         filepath.Join(cfg.Dir, ScalerFile),
	}

	mapping := make(map[string]float64, len(CountryRates))
	for _, c := range cfg.Catalog["country"] {
		rate, ok := CountryRates[c]
		if !ok {
			rate = UnknownCountryRate
		}
		mapping[c] = rate
	}
	if err := writeJSON(p.CountryEncoder, map[string]any{
		"kind":           "target",
		"column":         encoding.CountryColumn,
		"mapping":        mapping,
		"handle_unknown": cfg.CountryHandleUnknown,
		"unknown_value":  UnknownCountryRate,
	}); err != nil {
		return p, err
	}

	categories := make([][]string, len(encoding.OneHotColumns))
	for i, col := range encoding.OneHotColumns {
		categories[i] = categoriesOf(cfg.Catalog, col)
	}
	if err := writeJSON(p.OneHotEncoder, map[string]any{
		"kind":             "onehot",
		"feature_names_in": encoding.OneHotColumns,
		"categories":       categories,
		"handle_unknown":   cfg.OneHotHandleUnknown,
	}); err != nil {
		return p, err
	}

	names, err := encodedSchema(p)
	if err != nil {
		return p, err
	}

	mean := make([]float64, len(names))
	scale := make([]float64, len(names))
	for i := range scale {
		scale[i] = 1
	}
	if err := writeJSON(p.Scaler, map[string]any{
		"kind":             "standard",
		"feature_names_in": names,
		"mean":             mean,
		"scale":            scale,
	}); err != nil {
		return p, err
	}

	var model map[string]any
	switch cfg.Model {
	case ModelLogistic:
		model = logisticModel(names)
	case ModelXGBoost:
		model = boosterModel(names)
	default:
		return p, fmt.Errorf("unknown model kind %q", cfg.Model)
	}
	if err := writeJSON(p.Model, model); err != nil {
		return p, err
	}

	logger.Get().Info(ctx, "demo artifacts written",
		logger.String("dir", cfg.Dir),
		logger.String("model", cfg.Model),
		logger.Int("features", len(names)),
	)
	return p, nil
}

func categoriesOf(c booking.Catalog, column string) []string {
	switch column {
	case features.Season:
		return []string{"Fall", "Spring", "Summer", "Winter"}
	case "arrival_date_week_number":
		return numbered(53)
	case "arrival_date_day_of_month":
		return numbered(31)
	default:
		return c[column]
	}
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// encodedSchema runs the written encoders on the sample booking to learn the
// column names the scaler and model must be fit on.
func encodedSchema(p artifacts.Paths) ([]string, error) {
	country, err := artifacts.LoadCountryEncoder(p.CountryEncoder)
	if err != nil {
		return nil, err
	}
	onehot, err := artifacts.LoadOneHotEncoder(p.OneHotEncoder)
	if err != nil {
		return nil, err
	}
	v, err := features.Derive(SampleRecord())
	if err != nil {
		return nil, err
	}
	d, err := encoding.Encode(v, country, onehot)
	if err != nil {
		return nil, err
	}
	return d.Names, nil
}

func logisticModel(names []string) map[string]any {
	weights := map[string]float64{
		features.LogLeadTime:        CoefLogLeadTime,
		"deposit_type_Non Refund":   CoefNonRefund,
		encoding.CountryEncoded:     CoefCountryEncoded,
		"total_of_special_requests": CoefSpecialRequests,
		features.CancelHistoryRatio: CoefCancelHistory,
	}
	coef := make([]float64, len(names))
	for i, n := range names {
		coef[i] = weights[n]
	}
	return map[string]any{
		"kind":             ModelLogistic,
		"feature_names_in": names,
		"coef":             coef,
		"intercept":        Intercept,
	}
}

// boosterModel is two shallow trees: deposit then lead time, and cancellation history.
func boosterModel(names []string) map[string]any {
	leaf := func(id int, v float64) map[string]any { return map[string]any{"nodeid": id, "leaf": v} }
	split := func(id int, feature string, cond float64, yes, no, missing int, children ...map[string]any) map[string]any {
		return map[string]any{
			"nodeid": id, "split": feature, "split_condition": cond,
			"yes": yes, "no": no, "missing": missing, "children": children,
		}
	}
	return map[string]any{
		"kind":             ModelXGBoost,
		"objective":        "binary:logistic",
		"base_score":       0.5,
		"feature_names_in": names,
		"trees": []map[string]any{
			split(0, "deposit_type_Non Refund", 0.5, 1, 2, 1,
				split(1, features.LogLeadTime, 4.5, 3, 4, 3, leaf(3, -1.2), leaf(4, 0.4)),
				leaf(2, 2.0),
			),
			split(0, features.CancelHistoryRatio, 0.25, 1, 2, 1, leaf(1, -0.3), leaf(2, 1.1)),
		},
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
