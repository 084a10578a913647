// Package shift formats the periodic shift-activity digest, grounded on the
// original monitor's LaporanShiftService. This system does not own the
// task-log schema or its producer (an external collaborator, out of scope
// per spec Non-goals); it only formats a caller-supplied []TaskLogEntry into
// a WhatsApp-style message. Sender describes the transport for it (satisfied
// by the notification client used for outage alerts); this package does not
// call Send itself, and nothing in the daemon schedules or sends the digest.
package shift

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TaskLogEntry is one row of the externally-owned task log this package
// summarizes; callers supply these, fleetwatch does not persist them.
type TaskLogEntry struct {
	TaskName string
	Assignee string
	Note     string
	LoggedAt time.Time
}

// Name identifies one of the three shift windows the original monitor uses.
func Name(hour int) string {
	switch hour {
	case 8:
		return "Shift Pagi (00:00 - 08:00)"
	case 16:
		return "Shift Siang (08:00 - 16:00)"
	case 0:
		return "Shift Malam (16:00 - 00:00)"
	default:
		return fmt.Sprintf("Shift Jam %d", hour)
	}
}

// Sender delivers a formatted digest; satisfied by *notify.Client.
type Sender interface {
	Send(ctx context.Context, message string) error
}

// BuildDigest formats a shift's task log entries into a WhatsApp-style
// report message, matching the original's format_laporan_message layout.
func BuildDigest(shiftName string, start, end time.Time, entries []TaskLogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *LAPORAN %s*\n", shiftName)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	fmt.Fprintf(&b, "📅 *Periode:* %s - %s\n", start.Format("02/01/2006 15:04"), end.Format("02/01/2006 15:04"))

	if len(entries) == 0 {
		b.WriteString("ℹ️ Tidak ada aktivitas yang tercatat pada shift ini.\n")
	} else {
		b.WriteString(strings.Repeat("=", 40) + "\n\n")
		for i, e := range entries {
			fmt.Fprintf(&b, "*%d. %s*\n", i+1, e.TaskName)
			if e.Assignee != "" {
				fmt.Fprintf(&b, "   👤 %s\n", e.Assignee)
			}
			if e.Note != "" {
				fmt.Fprintf(&b, "   📌 %s\n", e.Note)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("Laporan digenerate otomatis oleh fleetwatch\n")
	fmt.Fprintf(&b, "📅 %s\n", time.Now().Format("02 January 2006, 15:04:05"))
	return b.String()
}
