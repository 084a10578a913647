// Package incident escalates sustained device outages into tickets in the
// external incident database, tracked against a CSV ledger so one outage
// episode produces at most one ticket. Thresholds and the ledger layout are
// grounded on the original monitor's IncidentManager
// (incident_threshold_minutes, incident_tracking.csv).
package incident

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pilot-net/fleetwatch/internal/diskcsv"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Escalator opens tickets for addresses whose down streak has exceeded the
// configured threshold and haven't already been escalated this episode.
type Escalator struct {
	pool      *pgxpool.Pool
	threshold time.Duration
	orgBucket string
	path      string
	lock      *diskcsv.FileLock
	logger    *slog.Logger
}

// New creates an Escalator against an already-connected pool.
func New(pool *pgxpool.Pool, threshold time.Duration, orgBucket, dataDir string, logger *slog.Logger) *Escalator {
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(dataDir, "incident_tracking.csv")
	return &Escalator{
		pool:      pool,
		threshold: threshold,
		orgBucket: orgBucket,
		path:      path,
		lock:      diskcsv.NewFileLock(path + ".lock"),
		logger:    logger.With("component", "incident"),
	}
}

// NewFromURL connects to the incident database URL and returns an Escalator.
func NewFromURL(ctx context.Context, url string, threshold time.Duration, orgBucket, dataDir string, logger *slog.Logger) (*Escalator, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("incident: connecting to database: %w", err)
	}
	return New(pool, threshold, orgBucket, dataDir, logger), nil
}

// Close closes the underlying connection pool.
func (e *Escalator) Close() { e.pool.Close() }

func (e *Escalator) load() (map[string]types.IncidentTrackingEntry, error) {
	raw, err := diskcsv.ReadRows(e.path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]types.IncidentTrackingEntry, len(raw))
	for _, rec := range raw {
		entry, err := types.ParseIncidentTrackingRow(rec)
		if err != nil {
			e.logger.Warn("skipping corrupt incident tracking row", "error", err)
			continue
		}
		entries[entry.Address] = entry
	}
	return entries, nil
}

func (e *Escalator) save(entries map[string]types.IncidentTrackingEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.MarshalRow())
	}
	return diskcsv.WriteTable(e.path, types.IncidentTrackingHeader, rows)
}

// Candidate is a device whose continuous down streak should be considered
// for escalation this cycle.
type Candidate struct {
	Device        types.Device
	FirstFailedAt time.Time
}

// Escalate opens tickets for every candidate that has exceeded the
// threshold and isn't already tracked, and clears ledger entries for
// addresses no longer present in the candidate set (they recovered).
func (e *Escalator) Escalate(ctx context.Context, now time.Time, candidates []Candidate) ([]types.Incident, error) {
	if err := e.lock.Lock(); err != nil {
		return nil, fmt.Errorf("incident: acquire lock: %w", err)
	}
	defer e.lock.Unlock()

	entries, err := e.load()
	if err != nil {
		return nil, fmt.Errorf("incident: load ledger: %w", err)
	}

	stillDown := make(map[string]struct{}, len(candidates))
	var created []types.Incident

	for _, c := range candidates {
		stillDown[c.Device.Address] = struct{}{}
		if _, already := entries[c.Device.Address]; already {
			continue
		}
		if now.Sub(c.FirstFailedAt) < e.threshold {
			continue
		}

		inc := types.NewIncident(describe(c.Device, c.FirstFailedAt, now), c.Device.Hostname, e.orgBucket, now)
		if err := e.insert(ctx, inc); err != nil {
			e.logger.Error("failed to insert incident", "device_id", c.Device.ID, "address", c.Device.Address, "error", err)
			continue
		}

		incidentID := fmt.Sprintf("inc-%s-%d", c.Device.ID, now.Unix())
		entries[c.Device.Address] = types.IncidentTrackingEntry{
			Address:         c.Device.Address,
			Hostname:        c.Device.Hostname,
			DeviceID:        c.Device.ID,
			AlertTime:       c.FirstFailedAt,
			IncidentID:      incidentID,
			IncidentCreated: now,
			DeviceType:      c.Device.TypeName,
		}
		created = append(created, inc)
	}

	for addr := range entries {
		if _, down := stillDown[addr]; !down {
			delete(entries, addr)
		}
	}

	if err := e.save(entries); err != nil {
		return nil, fmt.Errorf("incident: save ledger: %w", err)
	}
	return created, nil
}

// insert writes one row into the external incidents table. Per the
// documented external contract, latitude/longitude/photo/assignee/
// operator-note are always null at creation time; status is fixed "new".
func (e *Escalator) insert(ctx context.Context, inc types.Incident) error {
	_, err := e.pool.Exec(ctx, `
		INSERT INTO incidents
			(description, timestamp, location, latitude, longitude, photo, status, organisational_bucket, assignee, operator_note)
		VALUES
			($1, $2, $3, NULL, NULL, NULL, $4, $5, NULL, NULL)
	`, inc.Description, inc.Timestamp, inc.Location, inc.Status, inc.OrgBucket)
	return err
}

func describe(d types.Device, firstFailedAt, now time.Time) string {
	return fmt.Sprintf(
		"Device %s (%s) unreachable\nAddress: %s\nUnreachable since: %s (%s)\nType: %s\nBrand: %s\nOS: %s",
		d.Hostname, d.ID, d.Address,
		firstFailedAt.Format(time.RFC3339), now.Sub(firstFailedAt).Round(time.Minute),
		d.TypeName, d.Brand, d.OSVersion,
	)
}
