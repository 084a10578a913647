package types

import (
	"testing"
	"time"
)

func TestFailureEntryRoundTrip(t *testing.T) {
	entry := FailureEntry{
		Address:       "10.0.0.1",
		Hostname:      "router-1",
		DeviceID:      "dev-1",
		Brand:         "Ubiquiti",
		OSVersion:     "EdgeOS",
		Condition:     "active",
		FailCount:     3,
		FirstFailedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LastFailedAt:  time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
		LastUpdated:   time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
	}

	got, err := ParseFailureEntryRow(entry.MarshalRow())
	if err != nil {
		t.Fatalf("ParseFailureEntryRow: %v", err)
	}
	if got != entry {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, entry)
	}
}

func TestAlertLedgerEntryRoundTrip(t *testing.T) {
	entry := AlertLedgerEntry{
		Address:  "10.0.0.1",
		Hostname: "router-1",
		DeviceID: "dev-1",
	}
	got, err := ParseAlertLedgerRow(entry.MarshalRow())
	if err != nil {
		t.Fatalf("ParseAlertLedgerRow: %v", err)
	}
	if got != entry {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, entry)
	}
}
