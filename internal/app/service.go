// Package service wires the frozen artifacts into the cancellation pipeline:
// validate, derive, encode, scale, predict.
package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/bookingrisk/internal/adapters/artifacts"
	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/internal/domain/encoding"
	"github.com/okian/bookingrisk/internal/domain/failure"
	"github.com/okian/bookingrisk/internal/domain/features"
	"github.com/okian/bookingrisk/internal/domain/prediction"
	"github.com/okian/bookingrisk/internal/domain/scaling"
	"github.com/okian/bookingrisk/pkg/logger"
	"github.com/okian/bookingrisk/pkg/metrics"
)

// Service runs bookings through the cancellation pipeline.
type Service struct {
	mu sync.RWMutex

	// Artifacts
	loader   *artifacts.Loader
	bundle   *artifacts.Bundle
	paths    artifacts.Paths
	injected bool

	// Configuration
	threshold float64
	catalog   booking.Catalog

	// State
	started     bool
	predictions atomic.Int64
	canceled    atomic.Int64
	failures    atomic.Int64

	// Logging
	logger logger.Logger
}

// Feature is one named value of an explained pipeline step.
type Feature struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Explanation is a prediction together with the intermediate feature rows.
type Explanation struct {
	RequestID string            `json:"request_id"`
	Result    prediction.Result `json:"result"`
	Derived   []Feature         `json:"derived"`
	Encoded   []Feature         `json:"encoded"`
	Scaled    []Feature         `json:"scaled"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPaths sets where Start loads the artifacts from.
func WithPaths(p artifacts.Paths) Option {
	return func(s *Service) {
		s.paths = p
	}
}

// WithLoader sets the artifact loader.
func WithLoader(l *artifacts.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithArtifacts injects an already loaded bundle. Start then skips loading.
func WithArtifacts(b *artifacts.Bundle) Option {
	return func(s *Service) {
		if b != nil {
			s.bundle = b
			s.injected = true
		}
	}
}

// WithThreshold sets the decision threshold. Values outside (0,1) are ignored.
func WithThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 && t < 1 {
			s.threshold = t
		}
	}
}

// WithCatalog sets the input value catalog. Bookings are validated against it
// and the encoders must cover it. It must list every categorical field.
func WithCatalog(c booking.Catalog) Option {
	return func(s *Service) {
		if len(c) > 0 {
			s.catalog = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		threshold: prediction.DefaultThreshold,
		catalog:   booking.DefaultCatalog,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the artifacts unless injected and checks that the encoders
// cover every value the input catalog offers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting cancellation predictor...")

	b := s.bundle
	if b == nil {
		if s.loader == nil {
			s.loader = artifacts.NewLoader(artifacts.WithLogger(s.logger.Named("artifacts")))
		}
		var err error
		if b, err = s.loader.Load(ctx, s.paths); err != nil {
			metrics.RecordStageError(failure.StageLoad, failure.KindName(err))
			return err
		}
	}

	if err := b.Check(); err != nil {
		metrics.RecordStageError(failure.StageLoad, failure.KindName(err))
		s.logger.Error(ctx, "artifact bundle is incomplete", logger.Error(err))
		return err
	}

	if err := s.checkCoverage(b); err != nil {
		metrics.RecordStageError(failure.StageLoad, failure.KindName(err))
		s.logger.Error(ctx, "encoders do not cover the input catalog", logger.Error(err))
		return err
	}

	s.bundle = b
	s.started = true
	s.logger.Info(ctx, "cancellation predictor started",
		logger.Float64("threshold", s.threshold),
		logger.Int("features", s.bundle.Model.Width()),
	)

	return nil
}

func (s *Service) checkCoverage(b *artifacts.Bundle) error {
	gaps := encoding.Uncovered(s.catalog, b.Country, b.OneHot)
	if len(gaps) == 0 {
		return nil
	}
	fields := make([]string, 0, len(gaps))
	for f := range gaps {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	f := fields[0]
	return failure.Newf(failure.StageLoad, f, failure.ErrUnknownCategory,
		"encoders were not fit on %s (%d uncovered fields)", strings.Join(gaps[f], ", "), len(fields))
}

// Stop marks the service stopped and releases artifacts it loaded itself.
// An injected bundle is kept for the next Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	if !s.injected {
		s.bundle = nil
	}
	s.logger.Info(context.Background(), "cancellation predictor stopped")
}

// Predict classifies a booking record.
func (s *Service) Predict(ctx context.Context, r booking.Record) (prediction.Result, error) {
	e, err := s.run(ctx, r)
	if err != nil {
		return prediction.Result{}, err
	}
	return e.Result, nil
}

// PredictForm builds the record from a date-range form and classifies it.
func (s *Service) PredictForm(ctx context.Context, f booking.Form) (prediction.Result, error) {
	r, err := s.recordOf(ctx, f)
	if err != nil {
		return prediction.Result{}, err
	}
	return s.Predict(ctx, r)
}

// Explain classifies a booking record and returns every intermediate row.
func (s *Service) Explain(ctx context.Context, r booking.Record) (Explanation, error) {
	return s.run(ctx, r)
}

// ExplainForm is Explain for a date-range form.
func (s *Service) ExplainForm(ctx context.Context, f booking.Form) (Explanation, error) {
	r, err := s.recordOf(ctx, f)
	if err != nil {
		return Explanation{}, err
	}
	return s.run(ctx, r)
}

func (s *Service) recordOf(ctx context.Context, f booking.Form) (booking.Record, error) {
	var r booking.Record
	s.mu.RLock()
	started, catalog := s.started, s.catalog
	s.mu.RUnlock()
	if !started {
		return r, ErrNotStarted
	}
	err := s.stage(ctx, failure.StageValidate, func() (err error) {
		r, err = catalog.Record(f)
		return err
	})
	return r, err
}

func (s *Service) run(ctx context.Context, r booking.Record) (Explanation, error) {
	s.mu.RLock()
	started, b, threshold, catalog := s.started, s.bundle, s.threshold, s.catalog
	s.mu.RUnlock()
	if !started {
		return Explanation{}, ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return Explanation{}, err
	}

	reqID := uuid.NewString()
	log := s.logger.Named("predict")
	e := Explanation{RequestID: reqID}

	var (
		derived features.Vector
		encoded features.Dense
		scaled  features.Dense
	)
	err := s.stage(ctx, failure.StageValidate, func() error {
		return catalog.Validate(r)
	})
	if err == nil {
		err = s.stage(ctx, failure.StageDerive, func() (err error) {
			derived, err = features.Derive(r)
			return err
		})
	}
	if err == nil {
		err = s.stage(ctx, failure.StageEncode, func() (err error) {
			encoded, err = encoding.Encode(derived, b.Country, b.OneHot)
			return err
		})
	}
	if err == nil {
		err = s.stage(ctx, failure.StageScale, func() (err error) {
			scaled, err = scaling.Scale(encoded, b.Scaler)
			return err
		})
	}
	if err == nil {
		err = s.stage(ctx, failure.StagePredict, func() (err error) {
			e.Result, err = prediction.Predict(scaled, b.Model, prediction.WithThreshold(threshold))
			return err
		})
	}
	if err != nil {
		s.failures.Add(1)
		log.Warn(ctx, "prediction failed", logger.String("request_id", reqID), logger.Error(err))
		return Explanation{}, err
	}

	e.Derived = vectorFeatures(derived)
	e.Encoded = denseFeatures(encoded)
	e.Scaled = denseFeatures(scaled)

	s.predictions.Add(1)
	if e.Result.Label == prediction.Canceled {
		s.canceled.Add(1)
	}
	metrics.RecordPrediction(e.Result.Label.String(), e.Result.Probability)
	log.Debug(ctx, "derived features", logger.String("request_id", reqID), logger.Any("features", e.Derived))
	log.Info(ctx, "booking classified",
		logger.String("request_id", reqID),
		logger.String("label", e.Result.Label.String()),
		logger.Float64("probability", e.Result.Probability),
	)
	return e, nil
}

// stage times fn and records a failure under its stage and kind.
func (s *Service) stage(ctx context.Context, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStageLatency(name, time.Since(start))
	if err != nil {
		stage, ok := failure.StageOf(err)
		if !ok {
			stage = name
		}
		metrics.RecordStageError(stage, failure.KindName(err))
		s.logger.Debug(ctx, "stage failed", logger.String("stage", stage), logger.Error(err))
	}
	return err
}

func vectorFeatures(v features.Vector) []Feature {
	out := make([]Feature, len(v))
	for i, c := range v {
		if c.Categorical {
			out[i] = Feature{Name: c.Name, Value: c.Cat}
		} else {
			out[i] = Feature{Name: c.Name, Value: c.Num}
		}
	}
	return out
}

func denseFeatures(d features.Dense) []Feature {
	out := make([]Feature, d.Len())
	for i, n := range d.Names {
		out[i] = Feature{Name: n, Value: d.Values[i]}
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"threshold":   s.threshold,
		"predictions": s.predictions.Load(),
		"canceled":    s.canceled.Load(),
		"failures":    s.failures.Load(),
	}

	if s.bundle != nil && s.bundle.Model != nil {
		stats["modelPath"] = s.bundle.Paths.Model
		stats["features"] = s.bundle.Model.Width()
		if !s.bundle.LoadedAt.IsZero() {
			stats["loadedAt"] = s.bundle.LoadedAt.Format(time.RFC3339)
		}
	}

	return stats
}
