// Package orchestrator runs the fleet-wide probe cycle on a fixed cadence:
// reconcile inventory, probe, publish the snapshot, update failure
// tracking, notify, and escalate. The ticker loop shape ("run immediately,
// then on ticker, never queue a second run while one is in flight") is
// adapted from the agent scheduler's per-tier probe loop.
package orchestrator

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pilot-net/fleetwatch/internal/analytics"
	"github.com/pilot-net/fleetwatch/internal/failtrack"
	"github.com/pilot-net/fleetwatch/internal/incident"
	"github.com/pilot-net/fleetwatch/internal/inventory"
	"github.com/pilot-net/fleetwatch/internal/notify"
	"github.com/pilot-net/fleetwatch/internal/prober"
	"github.com/pilot-net/fleetwatch/internal/snapshot"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Config configures one Orchestrator.
type Config struct {
	CycleInterval     time.Duration
	Deadline          time.Duration
	MaxParallel       int
	AlertThreshold    int // consecutive failures before a WhatsApp alert fires
	IncidentThreshold time.Duration
}

// Orchestrator wires the prober, snapshot store, failure tracker,
// notification client, and incident escalator into one cycle body.
type Orchestrator struct {
	cfg         Config
	prober      *prober.Prober
	inv         *inventory.Reconciler
	snap        *snapshot.Store
	failures    *failtrack.Tracker
	alertLedger *notify.Ledger
	notifier    *notify.Client
	escalator   *incident.Escalator
	analytics   *analytics.Appender
	logger      *slog.Logger

	running atomic.Bool
}

// New builds an Orchestrator from its already-constructed collaborators.
func New(
	cfg Config,
	p *prober.Prober,
	inv *inventory.Reconciler,
	snap *snapshot.Store,
	failures *failtrack.Tracker,
	alertLedger *notify.Ledger,
	notifier *notify.Client,
	escalator *incident.Escalator,
	an *analytics.Appender,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:         cfg,
		prober:      p,
		inv:         inv,
		snap:        snap,
		failures:    failures,
		alertLedger: alertLedger,
		notifier:    notifier,
		escalator:   escalator,
		analytics:   an,
		logger:      logger.With("component", "orchestrator"),
	}
}

// Run starts the cycle loop, running one cycle immediately and then on
// every tick of cfg.CycleInterval until ctx is cancelled. An overrunning
// cycle is never interrupted; a tick that fires while one is still in flight
// is simply skipped rather than queued. The `running` flag keeps runCycle
// single-flight.
func (o *Orchestrator) Run(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.CycleInterval)
	defer ticker.Stop()

	o.runCycle(ctx)
	for {
		// Drop a tick buffered during the cycle that just ended.
		select {
		case <-ticker.C:
		default:
		}
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator stopping")
			return
		case <-ticker.C:
			o.runCycle(ctx)
		}
	}
}

func (o *Orchestrator) runCycle(ctx context.Context) {
	if !o.running.CompareAndSwap(false, true) {
		o.logger.Warn("skipping cycle: previous cycle still running")
		return
	}
	defer o.running.Store(false)

	cycleID := uuid.New().String()
	logger := o.logger.With("cycle_id", cycleID)
	start := time.Now()

	// 1. Reconcile inventory.
	devices, changed, err := o.inv.Reconcile(ctx)
	if err != nil {
		logger.Error("inventory reconcile failed", "error", err)
		return
	}
	logger.Debug("inventory reconciled", "device_count", len(devices), "changed", changed)

	activeAddresses := make(map[string]struct{}, len(devices))
	deviceByID := make(map[string]types.Device, len(devices))
	for _, d := range devices {
		if d.Active() {
			activeAddresses[d.Address] = struct{}{}
			deviceByID[d.ID] = d
		}
	}
	active := make([]types.Device, 0, len(activeAddresses))
	for _, d := range deviceByID {
		active = append(active, d)
	}

	// 2. Probe every active device, then denormalize device attributes onto
	// each result so downstream consumers (snapshot, failure tracker) never
	// need the device table themselves.
	results := o.prober.ProbeBatch(ctx, active, o.cfg.MaxParallel)
	for i, r := range results {
		results[i] = r.WithDevice(deviceByID[r.DeviceID])
	}

	// 3. Publish the rolling snapshot.
	if err := o.snap.Publish(start, activeAddresses, results); err != nil {
		logger.Error("snapshot publish failed", "error", err)
	}

	// 4. Update the failure-tracking table.
	transitions, err := o.failures.Apply(start, results)
	if err != nil {
		logger.Error("failure tracking update failed", "error", err)
		transitions = nil
	}

	// 5. Notify on threshold crossings and recoveries; 6. escalate sustained outages.
	var candidates []incident.Candidate
	downCount := 0
	for i, t := range transitions {
		d := deviceByID[results[i].DeviceID]
		switch t.Event {
		case failtrack.Recovered:
			if err := o.alertLedger.Clear(d.Address); err != nil {
				logger.Warn("failed to clear alert ledger", "device_id", d.ID, "error", err)
			}
			if err := o.notifier.NotifyRecovered(ctx, d, start); err != nil {
				logger.Error("recovery notification failed", "device_id", d.ID, "error", err)
			}
		case failtrack.NewFailure, failtrack.StillFailing:
			downCount++
			candidates = append(candidates, incident.Candidate{Device: d, FirstFailedAt: t.Entry.FirstFailedAt})
			if t.Entry.FailCount < o.cfg.AlertThreshold {
				continue
			}
			already, err := o.alertLedger.AlreadyAlerted(d.Address)
			if err != nil {
				logger.Warn("failed to check alert ledger", "device_id", d.ID, "error", err)
				continue
			}
			if already {
				continue // already alerted for this outage episode
			}
			if err := o.notifier.NotifyDown(ctx, d, t.Entry.FirstFailedAt); err != nil {
				logger.Error("down notification failed", "device_id", d.ID, "error", err)
				continue // delivery failed: leave the ledger unmutated so the next cycle retries
			}
			if _, err := o.alertLedger.MarkAlerted(d.Address, d.Hostname, d.ID); err != nil {
				logger.Warn("failed to update alert ledger", "device_id", d.ID, "error", err)
			}
		}
	}

	if _, err := o.escalator.Escalate(ctx, start, candidates); err != nil {
		logger.Error("incident escalation failed", "error", err)
	}

	// 7. Append the analytics sample: the full current size of the failure
	// tracker, not just this cycle's transitions, so a partial batch never
	// undercounts devices still down from an earlier cycle.
	failCount, err := o.failures.Count()
	if err != nil {
		logger.Error("failure tracker count failed", "error", err)
	} else if err := o.analytics.Record(start, failCount); err != nil {
		logger.Error("analytics record failed", "error", err)
	}

	// 8. Log the cycle summary.
	logger.Info("cycle complete",
		"duration", time.Since(start),
		"devices", len(active), "down", downCount,
		"probed", len(results))
}
