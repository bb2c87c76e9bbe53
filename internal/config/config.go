// Package config defines the predictor's configuration and how it is loaded.
package config

import (
	"fmt"
	"path/filepath"
)

// DefaultArtifactDir is where the artifact paths point when not configured.
const DefaultArtifactDir = "artifacts"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ModelPath locates the serialized classifier.
	ModelPath string `koanf:"model_path"`

	// CountryEncoderPath locates the target encoder fit on country.
	CountryEncoderPath string `koanf:"country_encoder_path"`

	// OneHotEncoderPath locates the one-hot encoder for the categorical set.
	OneHotEncoderPath string `koanf:"onehot_encoder_path"`

	// ScalerPath locates the numeric scaler.
	ScalerPath string `koanf:"scaler_path"`

	// Threshold is the probability above which a booking is labeled canceled.
	Threshold float64 `koanf:"threshold"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		ModelPath:          filepath.Join(DefaultArtifactDir, "model.json"),
		CountryEncoderPath: filepath.Join(DefaultArtifactDir, "country_encoder.json"),
		OneHotEncoderPath:  filepath.Join(DefaultArtifactDir, "onehot_encoder.json"),
		ScalerPath:         filepath.Join(DefaultArtifactDir, "scaler.json"),
		Threshold:          0.5,
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	for _, p := range []struct{ key, value string }{
		{"model_path", c.ModelPath},
		{"country_encoder_path", c.CountryEncoderPath},
		{"onehot_encoder_path", c.OneHotEncoderPath},
		{"scaler_path", c.ScalerPath},
	} {
		if p.value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, p.key)
		}
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("%w: threshold %v must be within (0,1)", ErrInvalidConfig, c.Threshold)
	}
	return nil
}
