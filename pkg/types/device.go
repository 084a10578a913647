// Package types defines the core domain types shared across fleetwatch's
// components.
//
// # Design Principles
//
// 1. Simplicity: types represent the domain model directly, no ORM abstractions.
// 2. Serialization: all types are JSON- and CSV-row-serializable for transport
//    and for the on-disk ledgers.
// 3. Explicit success/failure: ProbeResult uses pointer fields rather than a
//    combined "ok" struct, so a probe cannot claim both a latency and an error.
package types

// Device is a fleet member eligible for probing, reconciled from the
// external inventory on each cycle.
type Device struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	Hostname   string `json:"hostname"`
	Brand      string `json:"brand,omitempty"`
	OSVersion  string `json:"os_version,omitempty"`
	Condition  string `json:"condition"`
	LocationID string `json:"location_id,omitempty"`
	TypeName   string `json:"type_name"`
}

// Active reports whether the device should be probed this cycle.
func (d Device) Active() bool {
	return d.Condition != "lost" && d.Address != ""
}
