package failtrack

import (
	"testing"
	"time"

	"github.com/pilot-net/fleetwatch/internal/testutil"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

func TestApplyNewFailureThenRecovery(t *testing.T) {
	dir := t.TempDir()
	tracker := New(dir, testutil.NewTestLogger())

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	failure := types.NewFailure("dev-1", "10.0.0.1", t0, "timeout", types.MethodICMP)

	transitions, err := tracker.Apply(t0, []types.ProbeResult{failure})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if transitions[0].Event != NewFailure {
		t.Fatalf("expected NewFailure, got %v", transitions[0].Event)
	}
	if transitions[0].Entry.FailCount != 1 {
		t.Errorf("expected fail count 1, got %d", transitions[0].Entry.FailCount)
	}

	t1 := t0.Add(5 * time.Second)
	failure2 := types.NewFailure("dev-1", "10.0.0.1", t1, "timeout", types.MethodICMP)
	transitions, err = tracker.Apply(t1, []types.ProbeResult{failure2})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if transitions[0].Event != StillFailing {
		t.Fatalf("expected StillFailing, got %v", transitions[0].Event)
	}
	if transitions[0].Entry.FailCount != 2 {
		t.Errorf("expected fail count 2, got %d", transitions[0].Entry.FailCount)
	}

	t2 := t1.Add(5 * time.Second)
	success := types.NewSuccess("dev-1", "10.0.0.1", t2, 5.0, types.MethodICMP)
	transitions, err = tracker.Apply(t2, []types.ProbeResult{success})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if transitions[0].Event != Recovered {
		t.Fatalf("expected Recovered, got %v", transitions[0].Event)
	}

	entries, err := tracker.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no tracked failures after recovery, got %d", len(entries))
	}
}

func TestApplyDedupesDuplicateAddressInBatch(t *testing.T) {
	dir := t.TempDir()
	tracker := New(dir, testutil.NewTestLogger())

	now := time.Now()
	batch := []types.ProbeResult{
		types.NewFailure("dev-1", "10.0.0.1", now, "timeout", types.MethodICMP),
		types.NewFailure("dev-1", "10.0.0.1", now, "timeout", types.MethodICMP),
	}
	transitions, err := tracker.Apply(now, batch)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if transitions[0].Event != NewFailure {
		t.Fatalf("expected first occurrence to be NewFailure, got %v", transitions[0].Event)
	}
	if transitions[1].Event != NoChange {
		t.Fatalf("expected duplicate occurrence to be skipped as NoChange, got %v", transitions[1].Event)
	}

	entries, err := tracker.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].FailCount != 1 {
		t.Fatalf("expected exactly one entry with fail count 1, got %+v", entries)
	}
}

func TestApplyHealthyDeviceNoChange(t *testing.T) {
	dir := t.TempDir()
	tracker := New(dir, testutil.NewTestLogger())

	now := time.Now()
	success := types.NewSuccess("dev-1", "10.0.0.1", now, 5.0, types.MethodICMP)
	transitions, err := tracker.Apply(now, []types.ProbeResult{success})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if transitions[0].Event != NoChange {
		t.Fatalf("expected NoChange, got %v", transitions[0].Event)
	}
}
