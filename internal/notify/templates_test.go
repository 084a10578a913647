package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

func TestFormatIndonesianDate(t *testing.T) {
	ts := time.Date(2025, time.October, 21, 14, 5, 30, 0, time.UTC)
	got := formatIndonesianDate(ts)
	want := "21 Oktober 2025 14:05:30"
	if got != want {
		t.Errorf("formatIndonesianDate = %q, want %q", got, want)
	}
}

func TestFormatIndonesianDateAllMonths(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		ts := time.Date(2026, m, 1, 0, 0, 0, 0, time.UTC)
		got := formatIndonesianDate(ts)
		if !strings.Contains(got, indonesianMonths[m]) {
			t.Errorf("month %v: expected %q to contain %q", m, got, indonesianMonths[m])
		}
	}
}

func TestDownMessageContainsDeviceFields(t *testing.T) {
	d := types.Device{Hostname: "router-1", Address: "10.0.0.1", TypeName: "Router"}
	since := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	msg := downMessage(d, since)

	for _, want := range []string{"router-1", "10.0.0.1", "Router", "DEVICE DOWN"} {
		if !strings.Contains(msg, want) {
			t.Errorf("downMessage missing %q: %s", want, msg)
		}
	}
}

func TestRecoveredMessageContainsDeviceFields(t *testing.T) {
	d := types.Device{Hostname: "router-1", Address: "10.0.0.1"}
	at := time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC)
	msg := recoveredMessage(d, at)

	for _, want := range []string{"router-1", "10.0.0.1", "DEVICE RECOVERED"} {
		if !strings.Contains(msg, want) {
			t.Errorf("recoveredMessage missing %q: %s", want, msg)
		}
	}
}
