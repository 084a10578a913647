package shift

import (
	"strings"
	"testing"
	"time"
)

func TestNameKnownWindows(t *testing.T) {
	cases := map[int]string{
		8:  "Shift Pagi (00:00 - 08:00)",
		16: "Shift Siang (08:00 - 16:00)",
		0:  "Shift Malam (16:00 - 00:00)",
	}
	for hour, want := range cases {
		if got := Name(hour); got != want {
			t.Errorf("Name(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestNameFallsBackForUnknownHour(t *testing.T) {
	got := Name(3)
	if !strings.Contains(got, "3") {
		t.Errorf("expected fallback name to mention hour 3, got %q", got)
	}
}

func TestBuildDigestEmptyEntries(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	msg := BuildDigest(Name(8), start, end, nil)

	if !strings.Contains(msg, "Tidak ada aktivitas") {
		t.Errorf("expected empty-entries note, got: %s", msg)
	}
	if !strings.Contains(msg, "Shift Pagi") {
		t.Errorf("expected shift name in digest, got: %s", msg)
	}
}

func TestBuildDigestListsEntries(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	entries := []TaskLogEntry{
		{TaskName: "Restart router-1", Assignee: "budi", Note: "reboot selesai", LoggedAt: start},
		{TaskName: "Cek link fiber", LoggedAt: start.Add(time.Hour)},
	}
	msg := BuildDigest(Name(16), start, end, entries)

	for _, want := range []string{"Restart router-1", "budi", "reboot selesai", "Cek link fiber"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected digest to contain %q, got: %s", want, msg)
		}
	}
}
