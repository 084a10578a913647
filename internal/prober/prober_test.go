package prober

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pilot-net/fleetwatch/internal/testutil"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

type fakeMethod struct {
	name string
	rtt  float64
	err  error
}

func (f fakeMethod) Name() string { return f.name }
func (f fakeMethod) Probe(ctx context.Context, address string, deadline time.Duration) (float64, error) {
	return f.rtt, f.err
}

func newProberWithMethods(primary, fallback Method) *Prober {
	return &Prober{primary: primary, fallback: fallback, deadline: time.Second, logger: testutil.NewTestLogger()}
}

func TestProbeSucceedsOnPrimary(t *testing.T) {
	p := newProberWithMethods(
		fakeMethod{name: "icmp", rtt: 4.2},
		fakeMethod{name: "system-ping", err: errors.New("should not be called")},
	)
	result := p.Probe(context.Background(), "dev-1", "10.0.0.1")

	if !result.Ok() {
		t.Fatal("expected success")
	}
	if result.Method != "icmp" {
		t.Errorf("expected method icmp, got %s", result.Method)
	}
}

func TestProbeFalsePositiveCorrectedByFallback(t *testing.T) {
	p := newProberWithMethods(
		fakeMethod{name: "icmp", err: errors.New("timeout")},
		fakeMethod{name: "system-ping", rtt: 9.9},
	)
	result := p.Probe(context.Background(), "dev-1", "10.0.0.1")

	if !result.Ok() {
		t.Fatal("expected fallback success to correct the probe")
	}
	if result.Method != "system-ping" {
		t.Errorf("expected method system-ping, got %s", result.Method)
	}
	if result.RTTMillis == nil || *result.RTTMillis != 9.9 {
		t.Errorf("unexpected rtt: %v", result.RTTMillis)
	}
}

func TestProbeFailsOnBothMechanisms(t *testing.T) {
	p := newProberWithMethods(
		fakeMethod{name: "icmp", err: errors.New("timeout")},
		fakeMethod{name: "system-ping", err: errors.New("unreachable")},
	)
	result := p.Probe(context.Background(), "dev-1", "10.0.0.1")

	if result.Ok() {
		t.Fatal("expected failure")
	}
	if result.Err == nil || *result.Err != "unreachable" {
		t.Errorf("expected fallback error surfaced, got %v", result.Err)
	}
}

func TestProbeBatchCollectsAllResults(t *testing.T) {
	p := newProberWithMethods(fakeMethod{name: "icmp", rtt: 1.0}, fakeMethod{name: "system-ping"})
	devices := []types.Device{
		{ID: "dev-1", Address: "10.0.0.1"},
		{ID: "dev-2", Address: "10.0.0.2"},
		{ID: "dev-3", Address: "10.0.0.3"},
	}

	results := p.ProbeBatch(context.Background(), devices, 2)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, r := range results {
		seen[r.DeviceID] = true
		if !r.Ok() {
			t.Errorf("expected all probes to succeed, device %s failed", r.DeviceID)
		}
	}
	for _, d := range devices {
		if !seen[d.ID] {
			t.Errorf("missing result for %s", d.ID)
		}
	}
}

func TestProbeBatchEmptyDevices(t *testing.T) {
	p := newProberWithMethods(fakeMethod{name: "icmp", rtt: 1.0}, fakeMethod{name: "system-ping"})
	results := p.ProbeBatch(context.Background(), nil, 4)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}
