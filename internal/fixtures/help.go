package fixtures

import "os"

// ShowHelp prints usage information for the gen-fixtures tool.
func ShowHelp() {
	os.Stdout.WriteString(`Booking Risk Fixture Generator
==============================

Writes a self-consistent demo artifact set (country target encoder, one-hot
encoder, scaler and model) plus synthetic booking forms, one JSON per line.

Usage:
  go run ./cmd/gen-fixtures [options]

Options:
  -dir string
        Output directory for the artifacts (default "artifacts")
  -model string
        Model kind: logistic or xgboost (default "logistic")
  -onehot-unknown string
        One-hot encoder policy for unseen values: error or ignore (default "error")
  -samples int
        Number of synthetic bookings to write, 0 to skip (default 20)
  -seed uint
        Seed for the booking generator (default 1)
  -help
        Show this help message

Examples:
  # Demo artifacts with a boosted tree model
  go run ./cmd/gen-fixtures -model xgboost

  # Predict the first generated booking
  head -1 artifacts/bookings.jsonl | go run ./cmd/bookingrisk -explain
`)
}
