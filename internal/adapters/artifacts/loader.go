package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/patrickmn/go-cache"

	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/prediction"
	"github.com/okian/bookingrisk/pkg/logger"
	"github.com/okian/bookingrisk/pkg/metrics"
)

// Configuration keys naming each artifact in errors.
const (
	KeyModel          = "model_path"
	KeyCountryEncoder = "country_encoder_path"
	KeyOneHotEncoder  = "onehot_encoder_path"
	KeyScaler         = "scaler_path"
)

// Paths locates the four artifact files.
type Paths struct {
	Model          string
	CountryEncoder string
	OneHotEncoder  string
	Scaler         string
}

func (p Paths) key() string {
	return p.Model + "\x00" + p.CountryEncoder + "\x00" + p.OneHotEncoder + "\x00" + p.Scaler
}

// Bundle is the full set of loaded artifacts. It is never mutated after Load.
type Bundle struct {
	Country  *TargetEncoder
	OneHot   *OneHotEncoder
	Scaler   *Scaler
	Model    prediction.Classifier
	Paths    Paths
	LoadedAt time.Time
}

// Check reports every artifact missing from b, for bundles built outside Load.
func (b *Bundle) Check() error {
	if b == nil {
		return failure.New(failure.StageLoad, "", failure.ErrModelArtifactMissing)
	}
	var errs *multierror.Error
	if b.Country == nil {
		errs = multierror.Append(errs, failure.New(failure.StageLoad, KeyCountryEncoder, failure.ErrEncoderArtifactMissing))
	}
	if b.OneHot == nil {
		errs = multierror.Append(errs, failure.New(failure.StageLoad, KeyOneHotEncoder, failure.ErrEncoderArtifactMissing))
	}
	if b.Scaler == nil {
		errs = multierror.Append(errs, failure.New(failure.StageLoad, KeyScaler, failure.ErrEncoderArtifactMissing))
	}
	if b.Model == nil {
		errs = multierror.Append(errs, failure.New(failure.StageLoad, KeyModel, failure.ErrModelArtifactMissing))
	}
	return errs.ErrorOrNil()
}

// Loader reads artifact bundles and keeps them for the life of the process.
type Loader struct {
	cache  *cache.Cache
	logger logger.Logger
}

// NewLoader constructs a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		cache:  cache.New(cache.NoExpiration, 0),
		logger: logger.Get().Named("artifacts"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads all four artifacts. Every failing file is reported, not only
// the first one.
func (l *Loader) Load(ctx context.Context, p Paths) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cached, ok := l.cache.Get(p.key()); ok {
		if b, ok := cached.(*Bundle); ok {
			l.logger.Debug(ctx, "artifact bundle served from cache")
			return b, nil
		}
	}

	b := &Bundle{Paths: p}
	var errs *multierror.Error
	loaded := 0

	load := func(name, key, path string, kind error, fn func(string) error) {
		start := time.Now()
		err := fn(path)
		metrics.RecordArtifactLoad(name, time.Since(start), err)
		if err != nil {
			errs = multierror.Append(errs, failure.Wrap(failure.StageLoad, key, kind, fmt.Errorf("%s: %w", path, err)))
			return
		}
		loaded++
		l.logger.Debug(ctx, "artifact loaded",
			logger.String("artifact", name),
			logger.String("path", path),
			logger.Float64("ms", float64(time.Since(start))/float64(time.Millisecond)),
		)
	}

	load("country_encoder", KeyCountryEncoder, p.CountryEncoder, failure.ErrEncoderArtifactMissing, func(path string) (err error) {
		b.Country, err = LoadCountryEncoder(path)
		return err
	})
	load("onehot_encoder", KeyOneHotEncoder, p.OneHotEncoder, failure.ErrEncoderArtifactMissing, func(path string) (err error) {
		b.OneHot, err = LoadOneHotEncoder(path)
		return err
	})
	load("scaler", KeyScaler, p.Scaler, failure.ErrEncoderArtifactMissing, func(path string) (err error) {
		b.Scaler, err = LoadScaler(path)
		return err
	})
	load("model", KeyModel, p.Model, failure.ErrModelArtifactMissing, func(path string) (err error) {
		b.Model, err = LoadClassifier(path)
		return err
	})

	if err := errs.ErrorOrNil(); err != nil {
		l.logger.Error(ctx, "artifact load failed", logger.Int("failed", errs.Len()), logger.Error(err))
		return nil, err
	}

	b.LoadedAt = time.Now()
	l.cache.Set(p.key(), b, cache.NoExpiration)
	metrics.UpdateArtifactsLoaded(loaded)
	l.logger.Info(ctx, "artifacts loaded", logger.Int("count", loaded))
	return b, nil
}

// LoadCountryEncoder reads a target encoder artifact.
func LoadCountryEncoder(path string) (*TargetEncoder, error) {
	var e TargetEncoder
	if err := decodeFile(path, &e); err != nil {
		return nil, err
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// LoadOneHotEncoder reads a one-hot encoder artifact.
func LoadOneHotEncoder(path string) (*OneHotEncoder, error) {
	var e OneHotEncoder
	if err := decodeFile(path, &e); err != nil {
		return nil, err
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// LoadScaler reads a standard or minmax scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	var s Scaler
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadClassifier reads an xgboost or logistic model artifact.
func LoadClassifier(path string) (prediction.Classifier, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	switch probe.Kind {
	case "xgboost":
		var m Booster
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return &m, nil
	case "logistic":
		var m Logistic
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("%w: %q, want xgboost or logistic", ErrUnsupportedKind, probe.Kind)
	}
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no path configured")
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, err
	}
	return data, nil
}

func decodeFile(path string, v any) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return nil
}
