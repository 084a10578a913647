package types

import (
	"fmt"
	"time"
)

// IncidentTrackingEntry records that a ticketed incident has already been
// opened for an address's current outage, so the escalator does not open a
// second ticket for the same episode. Address is the primary key, matching
// FailureEntry and AlertLedgerEntry.
type IncidentTrackingEntry struct {
	Address         string
	Hostname        string
	DeviceID        string
	AlertTime       time.Time
	IncidentID      string
	IncidentCreated time.Time
	DeviceType      string
}

// IncidentTrackingHeader is the CSV column order for the incident-tracking
// table, fixed by the spec's external wire format.
var IncidentTrackingHeader = []string{
	"ip_address", "hostname", "device_id", "alert_time", "incident_id", "incident_created_at", "device_type",
}

// MarshalRow renders an IncidentTrackingEntry as a CSV record.
func (e IncidentTrackingEntry) MarshalRow() []string {
	return []string{
		e.Address,
		e.Hostname,
		e.DeviceID,
		e.AlertTime.UTC().Format(time.RFC3339),
		e.IncidentID,
		e.IncidentCreated.UTC().Format(time.RFC3339),
		e.DeviceType,
	}
}

// ParseIncidentTrackingRow decodes one CSV record written by IncidentTrackingEntry.MarshalRow.
func ParseIncidentTrackingRow(rec []string) (IncidentTrackingEntry, error) {
	if len(rec) != len(IncidentTrackingHeader) {
		return IncidentTrackingEntry{}, fmt.Errorf("incident tracking row: expected %d fields, got %d", len(IncidentTrackingHeader), len(rec))
	}
	alertTime, err := time.Parse(time.RFC3339, rec[3])
	if err != nil {
		return IncidentTrackingEntry{}, fmt.Errorf("incident tracking row: parse alert_time: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, rec[5])
	if err != nil {
		return IncidentTrackingEntry{}, fmt.Errorf("incident tracking row: parse incident_created_at: %w", err)
	}
	return IncidentTrackingEntry{
		Address:         rec[0],
		Hostname:        rec[1],
		DeviceID:        rec[2],
		AlertTime:       alertTime,
		IncidentID:      rec[4],
		IncidentCreated: createdAt,
		DeviceType:      rec[6],
	}, nil
}

// Incident is the external ticket row inserted into the incident database:
// description, timestamp, location (set to hostname), latitude/longitude/
// photo (always null — this system has no geolocation or imagery source),
// status (fixed "new"), organisational-bucket (fixed by configuration),
// assignee and operator-note (always null at creation).
type Incident struct {
	Description string
	Timestamp   time.Time
	Location    string
	Status      string
	OrgBucket   string
}

// NewIncident builds an Incident with the fixed status and the given
// organisational bucket.
func NewIncident(description, location, orgBucket string, ts time.Time) Incident {
	return Incident{
		Description: description,
		Timestamp:   ts,
		Location:    location,
		Status:      "new",
		OrgBucket:   orgBucket,
	}
}
