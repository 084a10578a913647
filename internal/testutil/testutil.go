// Package testutil provides small testing helpers shared across fleetwatch
// packages, adapted from the control plane's test logger helper.
package testutil

import (
	"io"
	"log/slog"
)

// NewTestLogger returns a logger that discards all output.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
