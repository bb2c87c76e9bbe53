// Command gen-fixtures writes a demo artifact set and synthetic bookings for
// trying the predictor without a trained model.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/bookingrisk/internal/adapters/artifacts"
	"github.com/okian/bookingrisk/internal/fixtures"
	"github.com/okian/bookingrisk/pkg/logger"
)

// Default configuration constants.
const (
	defaultDir     = "artifacts"
	defaultSamples = 20
	defaultSeed    = 1
	defaultTimeout = time.Minute
)

func main() {
	var (
		dir           = flag.String("dir", defaultDir, "Output directory for the artifacts")
		model         = flag.String("model", fixtures.ModelLogistic, "Model kind: logistic or xgboost")
		onehotUnknown = flag.String("onehot-unknown", artifacts.HandleUnknownError, "One-hot encoder policy for unseen values: error or ignore")
		samples       = flag.Int("samples", defaultSamples, "Number of synthetic bookings to write (0 to skip)")
		seed          = flag.Uint64("seed", defaultSeed, "Seed for the booking generator")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if _, err := fixtures.WriteArtifacts(ctx, fixtures.Config{
		Dir:                 *dir,
		Model:               *model,
		OneHotHandleUnknown: *onehotUnknown,
	}); err != nil {
		cancel()
		os.Stderr.WriteString("Failed to write artifacts: " + err.Error() + "\n")
		os.Exit(1)
	}

	if *samples > 0 {
		forms := fixtures.NewGenerator(*seed, nil).Forms(*samples)
		if err := fixtures.SaveForms(ctx, filepath.Join(*dir, fixtures.SamplesFile), forms); err != nil {
			cancel()
			os.Stderr.WriteString("Failed to write bookings: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
}
