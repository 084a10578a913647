package types

import (
	"fmt"
	"strconv"
	"time"
)

// AnalyticsPoint is one minute-bucketed sample of the fleet's aggregate
// outage level, appended to the per-day analytics log each cycle. It
// records the full size of the Failure Tracker at sample time, not a
// this-cycle delta.
type AnalyticsPoint struct {
	Timestamp           time.Time
	TotalTimeoutDevices int
}

// AnalyticsHeader is the CSV column order for the analytics log.
var AnalyticsHeader = []string{"timestamp", "total_timeout_devices"}

// MarshalRow renders an AnalyticsPoint as a CSV record.
func (a AnalyticsPoint) MarshalRow() []string {
	return []string{
		a.Timestamp.UTC().Format(time.RFC3339),
		strconv.Itoa(a.TotalTimeoutDevices),
	}
}

// ParseAnalyticsPointRow decodes one CSV record written by AnalyticsPoint.MarshalRow.
func ParseAnalyticsPointRow(rec []string) (AnalyticsPoint, error) {
	if len(rec) != len(AnalyticsHeader) {
		return AnalyticsPoint{}, fmt.Errorf("analytics row: expected %d fields, got %d", len(AnalyticsHeader), len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return AnalyticsPoint{}, fmt.Errorf("analytics row: parse timestamp: %w", err)
	}
	total, err := strconv.Atoi(rec[1])
	if err != nil {
		return AnalyticsPoint{}, fmt.Errorf("analytics row: parse total_timeout_devices: %w", err)
	}
	return AnalyticsPoint{Timestamp: ts, TotalTimeoutDevices: total}, nil
}
