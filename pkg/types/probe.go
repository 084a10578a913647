package types

import (
	"strconv"
	"time"
)

// ProbeResult is the outcome of a single probe attempt against a Device,
// denormalized with the device attributes it was probed under so every
// downstream consumer (snapshot, analytics dashboards) is self-describing
// without a join back to inventory.
//
// Exactly one of RTTMillis/Err is meaningful: a success carries RTTMillis
// and a nil Err; a failure carries a nil RTTMillis and a non-nil Err. Use
// NewSuccess/NewFailure rather than constructing this directly.
type ProbeResult struct {
	DeviceID   string    `json:"device_id"`
	Address    string    `json:"address"`
	Hostname   string    `json:"hostname"`
	Brand      string    `json:"brand,omitempty"`
	OSVersion  string    `json:"os_version,omitempty"`
	Condition  string    `json:"condition"`
	LocationID string    `json:"location_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RTTMillis  *float64  `json:"rtt_ms,omitempty"`
	Err        *string   `json:"error,omitempty"`
	Method     string    `json:"method"`
}

// Method tags which mechanism produced a ProbeResult.
const (
	MethodICMP   = "icmp"
	MethodSystem = "system-ping"
)

// Ok reports whether the probe reached the device.
func (r ProbeResult) Ok() bool {
	return r.Err == nil
}

// NewSuccess builds a successful ProbeResult for the bare address/device-id
// pair used by unit tests and the prober; denormalized device attributes are
// stamped on by the orchestrator via WithDevice before publication.
func NewSuccess(deviceID, address string, ts time.Time, rttMillis float64, method string) ProbeResult {
	return ProbeResult{
		DeviceID:  deviceID,
		Address:   address,
		Timestamp: ts,
		RTTMillis: &rttMillis,
		Method:    method,
	}
}

// NewFailure builds a failed ProbeResult.
func NewFailure(deviceID, address string, ts time.Time, cause string, method string) ProbeResult {
	return ProbeResult{
		DeviceID:  deviceID,
		Address:   address,
		Timestamp: ts,
		Err:       &cause,
		Method:    method,
	}
}

// WithDevice returns a copy of r with its denormalized device attributes
// filled in from d, leaving the probe outcome itself untouched.
func (r ProbeResult) WithDevice(d Device) ProbeResult {
	r.Hostname = d.Hostname
	r.Brand = d.Brand
	r.OSVersion = d.OSVersion
	r.Condition = d.Condition
	r.LocationID = d.LocationID
	return r
}

// SnapshotRow is one line of the published daily snapshot: the latest known
// ProbeResult for an address, denormalized with inventory fields so the CSV
// is self-describing without a join. This is an external wire format read
// directly by dashboards; column order and naming must match the original
// monitor's ping_results CSV exactly.
type SnapshotRow struct {
	Timestamp     time.Time
	DeviceID      string
	Address       string
	Hostname      string
	PingSuccess   bool
	ResponseMs    *float64
	LatencyMs     *float64
	ErrorMessage  *string
	Brand         string
	OSVersion     string
	Condition     string
	LocationID    string
}

// MarshalRow renders a SnapshotRow as a CSV record.
func (s SnapshotRow) MarshalRow() []string {
	return []string{
		s.Timestamp.UTC().Format(time.RFC3339),
		s.DeviceID,
		s.Address,
		s.Hostname,
		strconv.FormatBool(s.PingSuccess),
		floatPtrString(s.ResponseMs),
		floatPtrString(s.LatencyMs),
		strPtrString(s.ErrorMessage),
		s.Brand,
		s.OSVersion,
		s.Condition,
		s.LocationID,
	}
}

// SnapshotHeader is the CSV column order MarshalRow/ParseSnapshotRow agree
// on, fixed by the original monitor's csv_manager.py and consumed directly
// by external dashboards.
var SnapshotHeader = []string{
	"timestamp", "device_id", "ip_address", "hostname",
	"ping_success", "response_time_ms", "latency_ms", "error_message",
	"merk", "os", "kondisi", "id_lokasi",
}

// SnapshotRowFromResult builds the published row for one ProbeResult. Per
// the original ping_executor.py, response_time_ms and latency_ms always
// carry the same rounded RTT value — two column names for one measurement,
// not two distinct metrics.
func SnapshotRowFromResult(r ProbeResult) SnapshotRow {
	return SnapshotRow{
		Timestamp:    r.Timestamp,
		DeviceID:     r.DeviceID,
		Address:      r.Address,
		Hostname:     r.Hostname,
		PingSuccess:  r.Ok(),
		ResponseMs:   r.RTTMillis,
		LatencyMs:    r.RTTMillis,
		ErrorMessage: r.Err,
		Brand:        r.Brand,
		OSVersion:    r.OSVersion,
		Condition:    r.Condition,
		LocationID:   r.LocationID,
	}
}

func floatPtrString(p *float64) string {
	if p == nil {
		return ""
	}
	return trimFloat(*p)
}

func strPtrString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
