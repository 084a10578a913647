// Package analytics appends one minute-bucketed aggregate health sample per
// cycle to a per-day log, grounded on the original monitor's
// timeout_analytics append-with-flush pattern.
package analytics

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pilot-net/fleetwatch/internal/diskcsv"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Appender writes the append-only analytics log.
type Appender struct {
	dataDir string
	logger  *slog.Logger
}

// New creates an Appender rooted at dataDir.
func New(dataDir string, logger *slog.Logger) *Appender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Appender{dataDir: dataDir, logger: logger.With("component", "analytics")}
}

func (a *Appender) pathForDay(day time.Time) string {
	return filepath.Join(a.dataDir, fmt.Sprintf("analytics_%s.csv", day.UTC().Format("20060102")))
}

// Record appends one sample for the given timestamp: the number of devices
// currently present in the failure tracker (consecutive_timeouts >= 1), not
// merely the devices that transitioned this cycle.
func (a *Appender) Record(ts time.Time, totalTimeoutDevices int) error {
	point := types.AnalyticsPoint{
		Timestamp:           ts.Truncate(time.Minute),
		TotalTimeoutDevices: totalTimeoutDevices,
	}
	if err := diskcsv.AppendRow(a.pathForDay(ts), types.AnalyticsHeader, point.MarshalRow()); err != nil {
		return fmt.Errorf("analytics: record: %w", err)
	}
	return nil
}

// Range returns every sample within the last `hours` hours (clamped to 168)
// ending at now, reading across day boundaries as needed.
func (a *Appender) Range(now time.Time, hours int) ([]types.AnalyticsPoint, error) {
	if hours <= 0 {
		hours = 1
	}
	if hours > 168 {
		hours = 168
	}
	since := now.Add(-time.Duration(hours) * time.Hour)
	return a.collect(since, now)
}

// RangeDays returns every sample within the last `days` days (clamped to
// 30) ending at now.
func (a *Appender) RangeDays(now time.Time, days int) ([]types.AnalyticsPoint, error) {
	if days <= 0 {
		days = 1
	}
	if days > 30 {
		days = 30
	}
	since := now.AddDate(0, 0, -days)
	return a.collect(since, now)
}

func (a *Appender) collect(since, until time.Time) ([]types.AnalyticsPoint, error) {
	var points []types.AnalyticsPoint
	for day := since.Truncate(24 * time.Hour); !day.After(until); day = day.Add(24 * time.Hour) {
		raw, err := diskcsv.ReadRows(a.pathForDay(day))
		if err != nil {
			return nil, fmt.Errorf("analytics: read %s: %w", day.Format("2006-01-02"), err)
		}
		for _, rec := range raw {
			p, err := types.ParseAnalyticsPointRow(rec)
			if err != nil {
				a.logger.Warn("skipping corrupt analytics row", "error", err)
				continue
			}
			if p.Timestamp.Before(since) || p.Timestamp.After(until) {
				continue
			}
			points = append(points, p)
		}
	}
	return points, nil
}
