// Package snapshot publishes the rolling daily view of "latest known result
// per address" as a crash-safe CSV file, grounded on the day-file naming
// (ping_results_YYYYMMDD.csv) used by the original monitor's csv_manager,
// written through the shared diskcsv temp-file-then-rename helper.
package snapshot

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pilot-net/fleetwatch/internal/diskcsv"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Store manages the per-day snapshot file.
type Store struct {
	dataDir string
	logger  *slog.Logger
}

// New creates a Store rooted at dataDir.
func New(dataDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dataDir: dataDir, logger: logger.With("component", "snapshot")}
}

// DataDir returns the directory this Store writes snapshot files under.
func (s *Store) DataDir() string { return s.dataDir }

func (s *Store) pathForDay(day time.Time) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("ping_results_%s.csv", day.UTC().Format("20060102")))
}

// Load reads today's snapshot, tolerating a missing or corrupt file as empty.
// The returned map is keyed by address, the snapshot's primary key.
func (s *Store) Load(day time.Time) (map[string]types.SnapshotRow, error) {
	raw, err := diskcsv.ReadRows(s.pathForDay(day))
	if err != nil {
		return nil, err
	}
	rows := make(map[string]types.SnapshotRow, len(raw))
	for _, rec := range raw {
		row, err := types.ParseSnapshotRow(rec)
		if err != nil {
			s.logger.Warn("skipping corrupt snapshot row", "error", err)
			continue
		}
		rows[row.Address] = row
	}
	return rows, nil
}

// Publish replaces today's snapshot with the current result for every
// active address, preserving rows for addresses not probed this cycle and
// dropping rows for addresses no longer in the active set. Per the safety
// clause, an empty result set never replaces a previously populated
// snapshot — doing so would make a transient inventory failure read as an
// entire fleet outage.
func (s *Store) Publish(day time.Time, activeAddresses map[string]struct{}, results []types.ProbeResult) error {
	if len(results) == 0 {
		existing, err := s.Load(day)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			s.logger.Warn("refusing to publish empty snapshot over populated one")
			return nil
		}
	}

	existing, err := s.Load(day)
	if err != nil {
		return fmt.Errorf("snapshot: load existing: %w", err)
	}

	for _, r := range results {
		existing[r.Address] = types.SnapshotRowFromResult(r)
	}

	for addr := range existing {
		if _, active := activeAddresses[addr]; !active {
			delete(existing, addr)
		}
	}

	rows := make([][]string, 0, len(existing))
	for _, row := range existing {
		rows = append(rows, row.MarshalRow())
	}
	if err := diskcsv.WriteTable(s.pathForDay(day), types.SnapshotHeader, rows); err != nil {
		return fmt.Errorf("snapshot: publish: %w", err)
	}
	return nil
}

// Latest returns the most recently published row for every address,
// reading only today's file per spec (the snapshot does not span days).
func (s *Store) Latest() (map[string]types.SnapshotRow, error) {
	return s.Load(time.Now())
}
