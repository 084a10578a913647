package notify

import (
	"fmt"
	"time"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

var indonesianMonths = map[time.Month]string{
	time.January:   "Januari",
	time.February:  "Februari",
	time.March:     "Maret",
	time.April:     "April",
	time.May:       "Mei",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "Agustus",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Desember",
}

// formatIndonesianDate renders a timestamp as "21 Oktober 2025 14:05:30",
// matching the original monitor's format_indonesian_date exactly.
func formatIndonesianDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d %s", t.Day(), indonesianMonths[t.Month()], t.Year(), t.Format("15:04:05"))
}

func downMessage(d types.Device, firstFailedAt time.Time) string {
	return fmt.Sprintf(
		"🔴 *DEVICE DOWN*\n\nHostname: %s\nIP: %s\nTipe: %s\nSejak: %s\n\nMohon segera dicek.",
		d.Hostname, d.Address, d.TypeName, formatIndonesianDate(firstFailedAt),
	)
}

func recoveredMessage(d types.Device, recoveredAt time.Time) string {
	return fmt.Sprintf(
		"🟢 *DEVICE RECOVERED*\n\nHostname: %s\nIP: %s\nPulih pada: %s",
		d.Hostname, d.Address, formatIndonesianDate(recoveredAt),
	)
}
