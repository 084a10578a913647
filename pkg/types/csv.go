package types

import (
	"fmt"
	"strconv"
	"time"
)

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

func parseFloatPtr(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseStrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ParseSnapshotRow decodes one CSV record written by SnapshotRow.MarshalRow.
func ParseSnapshotRow(rec []string) (SnapshotRow, error) {
	if len(rec) != len(SnapshotHeader) {
		return SnapshotRow{}, fmt.Errorf("snapshot row: expected %d fields, got %d", len(SnapshotHeader), len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return SnapshotRow{}, fmt.Errorf("snapshot row: parse timestamp: %w", err)
	}
	pingSuccess, err := strconv.ParseBool(rec[4])
	if err != nil {
		return SnapshotRow{}, fmt.Errorf("snapshot row: parse ping_success: %w", err)
	}
	responseMs, err := parseFloatPtr(rec[5])
	if err != nil {
		return SnapshotRow{}, fmt.Errorf("snapshot row: parse response_time_ms: %w", err)
	}
	latencyMs, err := parseFloatPtr(rec[6])
	if err != nil {
		return SnapshotRow{}, fmt.Errorf("snapshot row: parse latency_ms: %w", err)
	}
	return SnapshotRow{
		Timestamp:    ts,
		DeviceID:     rec[1],
		Address:      rec[2],
		Hostname:     rec[3],
		PingSuccess:  pingSuccess,
		ResponseMs:   responseMs,
		LatencyMs:    latencyMs,
		ErrorMessage: parseStrPtr(rec[7]),
		Brand:        rec[8],
		OSVersion:    rec[9],
		Condition:    rec[10],
		LocationID:   rec[11],
	}, nil
}
