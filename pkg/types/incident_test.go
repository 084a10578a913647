package types

import (
	"testing"
	"time"
)

func TestIncidentTrackingEntryRoundTrip(t *testing.T) {
	entry := IncidentTrackingEntry{
		Address:         "10.0.0.1",
		Hostname:        "router-1",
		DeviceID:        "dev-1",
		AlertTime:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IncidentID:      "inc-dev-1-123",
		IncidentCreated: time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC),
		DeviceType:      "Router",
	}

	got, err := ParseIncidentTrackingRow(entry.MarshalRow())
	if err != nil {
		t.Fatalf("ParseIncidentTrackingRow: %v", err)
	}
	if got != entry {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, entry)
	}
}

func TestParseIncidentTrackingRowWrongFieldCount(t *testing.T) {
	if _, err := ParseIncidentTrackingRow([]string{"too", "few"}); err == nil {
		t.Fatal("expected error for malformed row")
	}
}

func TestNewIncidentFixedStatus(t *testing.T) {
	inc := NewIncident("device unreachable", "router-1", "network-ops", time.Now())
	if inc.Status != "new" {
		t.Errorf("expected status new, got %q", inc.Status)
	}
	if inc.OrgBucket != "network-ops" {
		t.Errorf("expected org bucket network-ops, got %q", inc.OrgBucket)
	}
}
