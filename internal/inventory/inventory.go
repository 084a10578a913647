// Package inventory reconciles the probe-eligible device set against the
// external inventory database. The query and scanning style is adapted
// directly from the control plane's raw-SQL pgx store: plain SQL, manual
// Scan, no ORM.
package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Reconciler loads the current probe-eligible device set from inventory,
// skipping reload when the set's content signature hasn't changed.
type Reconciler struct {
	pool     *pgxpool.Pool
	lastSig  string
	signer   func([]types.Device) string
}

// New creates a Reconciler against an already-connected pool.
func New(pool *pgxpool.Pool) *Reconciler {
	return &Reconciler{pool: pool, signer: Signature}
}

// NewFromURL connects to the inventory database URL and returns a Reconciler.
func NewFromURL(ctx context.Context, url string) (*Reconciler, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("inventory: connecting to database: %w", err)
	}
	return New(pool), nil
}

// Close closes the underlying connection pool.
func (r *Reconciler) Close() { r.pool.Close() }

// Ping verifies database connectivity.
func (r *Reconciler) Ping(ctx context.Context) error { return r.pool.Ping(ctx) }

// LoadActive fetches every device whose condition is not "lost", whose
// address is non-empty, and whose type is probe-enabled.
func (r *Reconciler) LoadActive(ctx context.Context) ([]types.Device, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.address, d.hostname, d.brand, d.os_version, d.condition, d.location_id, t.name
		FROM devices d
		JOIN device_types t ON t.id = d.type_id
		WHERE d.condition <> 'lost'
		  AND d.address <> ''
		  AND t.probe_enabled = true
		ORDER BY d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("inventory: query devices: %w", err)
	}
	defer rows.Close()

	var devices []types.Device
	for rows.Next() {
		var d types.Device
		if err := rows.Scan(&d.ID, &d.Address, &d.Hostname, &d.Brand, &d.OSVersion, &d.Condition, &d.LocationID, &d.TypeName); err != nil {
			return nil, fmt.Errorf("inventory: scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: iterate devices: %w", err)
	}
	return devices, nil
}

// Reconcile loads the active device set and reports whether it changed
// since the last call (via the content signature), so the orchestrator can
// skip redundant downstream work in an unchanging fleet.
func (r *Reconciler) Reconcile(ctx context.Context) (devices []types.Device, changed bool, err error) {
	devices, err = r.LoadActive(ctx)
	if err != nil {
		return nil, false, err
	}
	sig := r.signer(devices)
	changed = sig != r.lastSig
	r.lastSig = sig
	return devices, changed, nil
}

// Signature computes a stable content signature over a device set so
// callers can detect "nothing changed" without comparing full records.
var Signature = signatureXXHash
