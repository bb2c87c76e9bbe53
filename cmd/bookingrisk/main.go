// Command bookingrisk predicts whether a single hotel booking will be canceled.
//
// The booking is read as JSON from a file or stdin. It may carry the raw
// arrival calendar fields of a record, or arrival_date and departure_date as
// collected by the booking form.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	service "github.com/okian/bookingrisk/internal/app"
	"github.com/okian/bookingrisk/internal/adapters/artifacts"
	"github.com/okian/bookingrisk/internal/config"
	"github.com/okian/bookingrisk/internal/domain/booking"
	"github.com/okian/bookingrisk/pkg/logger"
	"github.com/okian/bookingrisk/pkg/metrics"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const stdinName = "-"

// calendarFields are the record fields a form derives from its dates.
var calendarFields = []string{ //nolint:gochecknoglobals // fixed schema
	"arrival_date_year",
	"arrival_date_month",
	"arrival_date_week_number",
	"arrival_date_day_of_month",
	"stays_in_weekend_nights",
	"stays_in_week_nights",
}

// request is a booking as submitted on the command line. When either date is
// present it is read as a form and the calendar fields are derived from the dates.
type request struct {
	booking.Record

	ArrivalDate   string `json:"arrival_date"`
	DepartureDate string `json:"departure_date"`
}

func (r request) isForm() bool {
	return r.ArrivalDate != "" || r.DepartureDate != ""
}

func (r request) form() booking.Form {
	return booking.Form{
		Attributes:    r.Attributes,
		ArrivalDate:   r.ArrivalDate,
		DepartureDate: r.DepartureDate,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bookingrisk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		input       = fs.String("input", stdinName, "Booking JSON file, or - for stdin")
		asJSON      = fs.Bool("json", false, "Print the result as JSON")
		explain     = fs.Bool("explain", false, "Also print the derived, encoded and scaled features")
		metricsFile = fs.String("metrics-file", "", "Write a Prometheus textfile here after the run")
		help        = fs.Bool("help", false, "Show help")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *help {
		showHelp(stderr, fs)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}

	// Logs go to stderr so stdout carries only the result.
	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitError
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if *metricsFile != "" {
		cfg.MetricsFile = *metricsFile
	}

	code := predict(ctx, cfg, *input, *asJSON, *explain, stdin, stdout, stderr)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "failed to write metrics", logger.String("path", cfg.MetricsFile), logger.Error(err))
			if code == exitOK {
				code = exitError
			}
		}
	}
	return code
}

func predict(ctx context.Context, cfg *config.Config, input string, asJSON, explain bool, stdin io.Reader, stdout, stderr io.Writer) int {
	req, err := readRequest(input, stdin)
	if err != nil {
		fmt.Fprintln(stderr, "invalid booking: "+err.Error())
		return exitUsage
	}

	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithPaths(artifacts.Paths{
			Model:          cfg.ModelPath,
			CountryEncoder: cfg.CountryEncoderPath,
			OneHotEncoder:  cfg.OneHotEncoderPath,
			Scaler:         cfg.ScalerPath,
		}),
		service.WithThreshold(cfg.Threshold),
	)
	if err := svc.Start(ctx); err != nil {
		fmt.Fprintln(stderr, "failed to start predictor: "+err.Error())
		return exitError
	}
	defer svc.Stop()

	var e service.Explanation
	if req.isForm() {
		e, err = svc.ExplainForm(ctx, req.form())
	} else {
		e, err = svc.Explain(ctx, req.Record)
	}
	if err != nil {
		fmt.Fprintln(stderr, "prediction failed: "+err.Error())
		return exitError
	}

	if asJSON {
		err = writeJSON(stdout, e, explain)
	} else {
		err = writeText(stdout, e, explain)
	}
	if err != nil {
		fmt.Fprintln(stderr, "failed to write result: "+err.Error())
		return exitError
	}
	return exitOK
}

func readRequest(input string, stdin io.Reader) (request, error) {
	var req request
	src := stdin
	if input != stdinName {
		f, err := os.Open(input)
		if err != nil {
			return req, err
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, errors.New("empty input")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if !req.isForm() {
		return req, nil
	}

	// A form derives the calendar fields from its dates; they may not be given too.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return req, err
	}
	for _, k := range calendarFields {
		if _, ok := keys[k]; ok {
			return req, fmt.Errorf("%s cannot be combined with arrival_date and departure_date", k)
		}
	}
	return req, nil
}

func writeJSON(w io.Writer, e service.Explanation, explain bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if explain {
		return enc.Encode(e)
	}
	return enc.Encode(struct {
		RequestID   string  `json:"request_id"`
		Label       string  `json:"label"`
		Probability float64 `json:"probability"`
	}{e.RequestID, e.Result.Label.String(), e.Result.Probability})
}

func writeText(w io.Writer, e service.Explanation, explain bool) error {
	if explain {
		for _, sec := range []struct {
			title string
			rows  []service.Feature
		}{
			{"Derived features", e.Derived},
			{"Encoded features", e.Encoded},
			{"Scaled features", e.Scaled},
		} {
			if _, err := fmt.Fprintf(w, "%s:\n", sec.title); err != nil {
				return err
			}
			for _, f := range sec.rows {
				if _, err := fmt.Fprintf(w, "  %-40s %v\n", f.Name, f.Value); err != nil {
					return err
				}
			}
		}
	}
	_, err := fmt.Fprintf(w, "Probability of cancellation: %.2f%%\nPrediction: %s\n",
		e.Result.Probability*100, e.Result.Label)
	return err
}

func showHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprint(w, `bookingrisk predicts whether a hotel booking will be canceled.

Usage:
  bookingrisk [flags] < booking.json

Flags:
`)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Configuration (environment):
  %[1]sCONFIG                 YAML config file
  %[1]sMODEL_PATH             classifier artifact
  %[1]sCOUNTRY_ENCODER_PATH   country target encoder artifact
  %[1]sONEHOT_ENCODER_PATH    one-hot encoder artifact
  %[1]sSCALER_PATH            scaler artifact
  %[1]sTHRESHOLD              decision threshold (default 0.5)
  %[1]sLOG_LEVEL              debug, info, warn, error
`, config.EnvPrefix)
}
