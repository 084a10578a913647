// Package failtrack maintains the fail-count table that turns repeated
// probe failures into alertable events. One entry exists per address for as
// long as its current down streak continues; a single success removes it.
//
// The table itself is a CSV file under a process-wide lock, grounded on the
// original monitor's threading.Lock + fcntl.flock pairing around
// timeout_tracking.csv, adapted to Go via diskcsv.FileLock. The edge-
// triggered event classification (new failure / still failing / recovered)
// mirrors the control plane's state-machine handling of successful and
// failed probes.
package failtrack

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/pilot-net/fleetwatch/internal/diskcsv"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Event classifies what happened to an address's failure streak this cycle.
type Event int

const (
	// NoChange means the address was already healthy and stayed healthy.
	NoChange Event = iota
	// NewFailure means a previously-healthy address failed this cycle.
	NewFailure
	// StillFailing means the address continues an existing down streak.
	StillFailing
	// Recovered means a tracked address succeeded this cycle and was cleared.
	Recovered
)

// Transition is the outcome of applying one ProbeResult to the tracker.
type Transition struct {
	Event Event
	Entry types.FailureEntry // valid for NewFailure/StillFailing/Recovered
}

// Tracker is the failure-tracking table for one CSV file.
type Tracker struct {
	path   string
	lock   *diskcsv.FileLock
	logger *slog.Logger
}

// New opens a Tracker backed by dataDir/timeout_tracking.csv.
func New(dataDir string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(dataDir, "timeout_tracking.csv")
	return &Tracker{
		path:   path,
		lock:   diskcsv.NewFileLock(path + ".lock"),
		logger: logger.With("component", "failtrack"),
	}
}

func (t *Tracker) load() (map[string]types.FailureEntry, error) {
	raw, err := diskcsv.ReadRows(t.path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]types.FailureEntry, len(raw))
	for _, rec := range raw {
		e, err := types.ParseFailureEntryRow(rec)
		if err != nil {
			t.logger.Warn("skipping corrupt failure row", "error", err)
			continue
		}
		entries[e.Address] = e
	}
	return entries, nil
}

// save writes entries sorted by FailCount descending, matching the
// original monitor's _write_timeout_data ordering for easier monitoring.
func (t *Tracker) save(entries map[string]types.FailureEntry) error {
	rows := make([]types.FailureEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].FailCount > rows[j].FailCount })

	records := make([][]string, 0, len(rows))
	for _, e := range rows {
		records = append(records, e.MarshalRow())
	}
	return diskcsv.WriteTable(t.path, types.FailureHeader, records)
}

// List returns every address currently tracked as failing.
func (t *Tracker) List() ([]types.FailureEntry, error) {
	if err := t.lock.Lock(); err != nil {
		return nil, fmt.Errorf("failtrack: acquire lock: %w", err)
	}
	defer t.lock.Unlock()

	entries, err := t.load()
	if err != nil {
		return nil, fmt.Errorf("failtrack: load table: %w", err)
	}
	out := make([]types.FailureEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	return out, nil
}

// Count returns the number of addresses currently tracked as failing,
// without allocating the full entry slice List does.
func (t *Tracker) Count() (int, error) {
	if err := t.lock.Lock(); err != nil {
		return 0, fmt.Errorf("failtrack: acquire lock: %w", err)
	}
	defer t.lock.Unlock()

	entries, err := t.load()
	if err != nil {
		return 0, fmt.Errorf("failtrack: load table: %w", err)
	}
	return len(entries), nil
}

// Apply applies one cycle's probe results to the table, returning one
// Transition per result in the same order. Invariant I2 (presence implies
// currently believed down) and I3 (a single success clears the streak) are
// enforced here. Per invariant B3, a duplicate address within the batch is
// only processed once; subsequent occurrences are logged and passed through
// as NoChange without mutating the table a second time.
func (t *Tracker) Apply(now time.Time, results []types.ProbeResult) ([]Transition, error) {
	if err := t.lock.Lock(); err != nil {
		return nil, fmt.Errorf("failtrack: acquire lock: %w", err)
	}
	defer t.lock.Unlock()

	entries, err := t.load()
	if err != nil {
		return nil, fmt.Errorf("failtrack: load table: %w", err)
	}

	seen := make(map[string]struct{}, len(results))
	transitions := make([]Transition, len(results))
	for i, r := range results {
		if _, dup := seen[r.Address]; dup {
			t.logger.Warn("duplicate address in probe batch, skipping", "address", r.Address)
			transitions[i] = Transition{Event: NoChange}
			continue
		}
		seen[r.Address] = struct{}{}

		existing, tracked := entries[r.Address]

		switch {
		case r.Ok() && tracked:
			delete(entries, r.Address)
			transitions[i] = Transition{Event: Recovered, Entry: existing}

		case r.Ok() && !tracked:
			transitions[i] = Transition{Event: NoChange}

		case !r.Ok() && tracked:
			existing.LastFailedAt = now
			existing.LastUpdated = now
			existing.FailCount++
			entries[r.Address] = existing
			transitions[i] = Transition{Event: StillFailing, Entry: existing}

		default: // !r.Ok() && !tracked
			e := types.FailureEntry{
				Address:       r.Address,
				Hostname:      r.Hostname,
				DeviceID:      r.DeviceID,
				Brand:         r.Brand,
				OSVersion:     r.OSVersion,
				Condition:     r.Condition,
				FailCount:     1,
				FirstFailedAt: now,
				LastFailedAt:  now,
				LastUpdated:   now,
			}
			entries[r.Address] = e
			transitions[i] = Transition{Event: NewFailure, Entry: e}
		}
	}

	if err := t.save(entries); err != nil {
		return nil, fmt.Errorf("failtrack: save table: %w", err)
	}
	return transitions, nil
}
