package types

import (
	"fmt"
	"strconv"
	"time"
)

// FailureEntry tracks an address's consecutive-failure streak across
// cycles. Presence in the table means the address is currently believed
// down; it is removed the cycle a probe for that address succeeds. Address
// is the primary key, not device-id: a re-provisioned device can reuse a
// device-id, but the failure streak belongs to the address being probed.
type FailureEntry struct {
	Address       string
	Hostname      string
	DeviceID      string
	Brand         string
	OSVersion     string
	Condition     string
	FailCount     int
	FirstFailedAt time.Time
	LastFailedAt  time.Time
	LastUpdated   time.Time
}

// FailureHeader is the CSV column order for the failure-tracking table,
// fixed by the original monitor's timeout_tracking.csv.
var FailureHeader = []string{
	"ip_address", "hostname", "device_id", "merk", "os", "kondisi",
	"consecutive_timeouts", "first_timeout", "last_timeout", "last_updated",
}

// MarshalRow renders a FailureEntry as a CSV record.
func (f FailureEntry) MarshalRow() []string {
	return []string{
		f.Address,
		f.Hostname,
		f.DeviceID,
		f.Brand,
		f.OSVersion,
		f.Condition,
		strconv.Itoa(f.FailCount),
		f.FirstFailedAt.UTC().Format(time.RFC3339),
		f.LastFailedAt.UTC().Format(time.RFC3339),
		f.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// ParseFailureEntryRow decodes one CSV record written by FailureEntry.MarshalRow.
func ParseFailureEntryRow(rec []string) (FailureEntry, error) {
	if len(rec) != len(FailureHeader) {
		return FailureEntry{}, fmt.Errorf("failure row: expected %d fields, got %d", len(FailureHeader), len(rec))
	}
	count, err := strconv.Atoi(rec[6])
	if err != nil {
		return FailureEntry{}, fmt.Errorf("failure row: parse consecutive_timeouts: %w", err)
	}
	first, err := time.Parse(time.RFC3339, rec[7])
	if err != nil {
		return FailureEntry{}, fmt.Errorf("failure row: parse first_timeout: %w", err)
	}
	last, err := time.Parse(time.RFC3339, rec[8])
	if err != nil {
		return FailureEntry{}, fmt.Errorf("failure row: parse last_timeout: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, rec[9])
	if err != nil {
		return FailureEntry{}, fmt.Errorf("failure row: parse last_updated: %w", err)
	}
	return FailureEntry{
		Address:       rec[0],
		Hostname:      rec[1],
		DeviceID:      rec[2],
		Brand:         rec[3],
		OSVersion:     rec[4],
		Condition:     rec[5],
		FailCount:     count,
		FirstFailedAt: first,
		LastFailedAt:  last,
		LastUpdated:   updated,
	}, nil
}

// AlertLedgerEntry records that a notification was already sent for an
// address's current down streak, preventing duplicate alerts within one
// outage episode. Address is the primary key; the original monitor's
// whatsapp_alerted_list.csv carries no timestamp, only identity.
type AlertLedgerEntry struct {
	Address  string
	Hostname string
	DeviceID string
}

// AlertLedgerHeader is the CSV column order for the alert ledger, fixed by
// the original monitor's whatsapp_alerted_list.csv.
var AlertLedgerHeader = []string{"ip_address", "hostname", "device_id"}

// MarshalRow renders an AlertLedgerEntry as a CSV record.
func (a AlertLedgerEntry) MarshalRow() []string {
	return []string{a.Address, a.Hostname, a.DeviceID}
}

// ParseAlertLedgerRow decodes one CSV record written by AlertLedgerEntry.MarshalRow.
func ParseAlertLedgerRow(rec []string) (AlertLedgerEntry, error) {
	if len(rec) != len(AlertLedgerHeader) {
		return AlertLedgerEntry{}, fmt.Errorf("alert ledger row: expected %d fields, got %d", len(AlertLedgerHeader), len(rec))
	}
	return AlertLedgerEntry{Address: rec[0], Hostname: rec[1], DeviceID: rec[2]}, nil
}
