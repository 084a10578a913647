package types

import (
	"testing"
	"time"
)

func TestSnapshotRowRoundTrip(t *testing.T) {
	rtt := 12.5
	row := SnapshotRow{
		Timestamp:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		DeviceID:    "dev-1",
		Address:     "10.0.0.1",
		Hostname:    "router-1",
		PingSuccess: true,
		ResponseMs:  &rtt,
		LatencyMs:   &rtt,
		Brand:       "Ubiquiti",
		OSVersion:   "EdgeOS",
		Condition:   "active",
		LocationID:  "loc-1",
	}

	rec := row.MarshalRow()
	got, err := ParseSnapshotRow(rec)
	if err != nil {
		t.Fatalf("ParseSnapshotRow: %v", err)
	}

	if got.DeviceID != row.DeviceID || got.Address != row.Address {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, row)
	}
	if !got.PingSuccess {
		t.Error("expected ping_success true")
	}
	if got.ResponseMs == nil || *got.ResponseMs != rtt {
		t.Errorf("response_ms mismatch: got %v, want %v", got.ResponseMs, rtt)
	}
	if got.LatencyMs == nil || *got.LatencyMs != rtt {
		t.Errorf("latency_ms mismatch: got %v, want %v", got.LatencyMs, rtt)
	}
	if got.ErrorMessage != nil {
		t.Errorf("expected nil error, got %v", *got.ErrorMessage)
	}
}

func TestSnapshotRowRoundTripFailure(t *testing.T) {
	cause := "request timed out"
	row := SnapshotRow{
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		DeviceID:     "dev-2",
		Address:      "10.0.0.2",
		PingSuccess:  false,
		ErrorMessage: &cause,
	}

	rec := row.MarshalRow()
	got, err := ParseSnapshotRow(rec)
	if err != nil {
		t.Fatalf("ParseSnapshotRow: %v", err)
	}
	if got.ResponseMs != nil {
		t.Errorf("expected nil response_ms, got %v", *got.ResponseMs)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage != cause {
		t.Errorf("error mismatch: got %v, want %v", got.ErrorMessage, cause)
	}
}

func TestParseSnapshotRowWrongFieldCount(t *testing.T) {
	if _, err := ParseSnapshotRow([]string{"too", "few"}); err == nil {
		t.Fatal("expected error for malformed row")
	}
}

func TestSnapshotRowFromResult(t *testing.T) {
	ts := time.Now()
	rtt := 9.9
	success := NewSuccess("dev-1", "1.1.1.1", ts, rtt, MethodICMP).WithDevice(Device{
		Hostname: "router-1", Brand: "Ubiquiti", OSVersion: "EdgeOS", Condition: "active", LocationID: "loc-1",
	})
	row := SnapshotRowFromResult(success)
	if !row.PingSuccess {
		t.Error("expected ping_success true")
	}
	if row.ResponseMs == nil || row.LatencyMs == nil || *row.ResponseMs != *row.LatencyMs {
		t.Errorf("expected response_ms and latency_ms to carry the same value, got %v / %v", row.ResponseMs, row.LatencyMs)
	}
	if row.Brand != "Ubiquiti" || row.Condition != "active" {
		t.Errorf("expected denormalized device fields, got %+v", row)
	}
}

func TestProbeResultOk(t *testing.T) {
	ts := time.Now()
	success := NewSuccess("d", "1.1.1.1", ts, 10, MethodICMP)
	if !success.Ok() {
		t.Error("expected success to be Ok")
	}
	failure := NewFailure("d", "1.1.1.1", ts, "boom", MethodICMP)
	if failure.Ok() {
		t.Error("expected failure to not be Ok")
	}
}
