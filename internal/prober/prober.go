// Package prober executes ICMP reachability checks against fleet devices.
//
// Two mechanisms are layered, mirroring the original monitor's ping3-then-
// system-ping fallback: an unprivileged ICMP echo over a UDP-style socket
// (golang.org/x/net/icmp), and a shell-out to the system ping binary when
// the first mechanism reports failure. A false positive from the first
// mechanism that the fallback can't reproduce is corrected and logged.
package prober

import (
	"context"
	"log/slog"
	"time"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Method performs a single probe against address within deadline.
type Method interface {
	Name() string
	Probe(ctx context.Context, address string, deadline time.Duration) (rttMillis float64, err error)
}

// Prober layers a primary Method with a fallback Method, logging whichever
// combination of outcomes occurred.
type Prober struct {
	primary  Method
	fallback Method
	deadline time.Duration
	logger   *slog.Logger
}

// New builds a Prober with the unprivileged ICMP method as primary and the
// system ping binary as fallback.
func New(deadline time.Duration, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		primary:  NewICMPMethod(),
		fallback: NewSystemPingMethod(),
		deadline: deadline,
		logger:   logger.With("component", "prober"),
	}
}

// Probe checks a single device, trying the primary method first.
func (p *Prober) Probe(ctx context.Context, deviceID, address string) types.ProbeResult {
	ts := time.Now()

	rtt, primaryErr := p.primary.Probe(ctx, address, p.deadline)
	if primaryErr == nil {
		return types.NewSuccess(deviceID, address, ts, rtt, p.primary.Name())
	}

	fallbackRTT, fallbackErr := p.fallback.Probe(ctx, address, p.deadline)
	if fallbackErr == nil {
		p.logger.Warn("false positive corrected by fallback probe",
			"device_id", deviceID, "address", address,
			"primary_method", p.primary.Name(), "primary_error", primaryErr,
			"fallback_method", p.fallback.Name())
		return types.NewSuccess(deviceID, address, ts, fallbackRTT, p.fallback.Name())
	}

	p.logger.Debug("probe failed on both mechanisms",
		"device_id", deviceID, "address", address,
		"primary_error", primaryErr, "fallback_error", fallbackErr)
	return types.NewFailure(deviceID, address, ts, fallbackErr.Error(), p.fallback.Name())
}
