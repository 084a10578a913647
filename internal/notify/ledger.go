package notify

import (
	"fmt"
	"path/filepath"

	"github.com/pilot-net/fleetwatch/internal/diskcsv"
	"github.com/pilot-net/fleetwatch/pkg/types"
)

// Ledger de-duplicates alert sends within one outage episode, grounded on
// the original monitor's whatsapp_alerted_list.csv. Entries are keyed by
// address, matching the Failure Tracker's primary key.
type Ledger struct {
	path string
	lock *diskcsv.FileLock
}

// NewLedger opens a Ledger backed by dataDir/whatsapp_alerted_list.csv.
func NewLedger(dataDir string) *Ledger {
	path := filepath.Join(dataDir, "whatsapp_alerted_list.csv")
	return &Ledger{path: path, lock: diskcsv.NewFileLock(path + ".lock")}
}

func (l *Ledger) load() (map[string]types.AlertLedgerEntry, error) {
	raw, err := diskcsv.ReadRows(l.path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]types.AlertLedgerEntry, len(raw))
	for _, rec := range raw {
		e, err := types.ParseAlertLedgerRow(rec)
		if err != nil {
			continue
		}
		entries[e.Address] = e
	}
	return entries, nil
}

func (l *Ledger) save(entries map[string]types.AlertLedgerEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.MarshalRow())
	}
	return diskcsv.WriteTable(l.path, types.AlertLedgerHeader, rows)
}

// MarkAlerted records that an address was just alerted, returning false
// without writing if it was already marked (a duplicate-send guard). This
// is called only after a successful notification send — per the edge-
// delivery contract, a failed send must never mutate the ledger.
func (l *Ledger) MarkAlerted(address, hostname, deviceID string) (bool, error) {
	if err := l.lock.Lock(); err != nil {
		return false, fmt.Errorf("notify: acquire ledger lock: %w", err)
	}
	defer l.lock.Unlock()

	entries, err := l.load()
	if err != nil {
		return false, err
	}
	if _, already := entries[address]; already {
		return false, nil
	}
	entries[address] = types.AlertLedgerEntry{Address: address, Hostname: hostname, DeviceID: deviceID}
	if err := l.save(entries); err != nil {
		return false, err
	}
	return true, nil
}

// AlreadyAlerted reports whether address is currently marked, without
// mutating the ledger.
func (l *Ledger) AlreadyAlerted(address string) (bool, error) {
	if err := l.lock.Lock(); err != nil {
		return false, fmt.Errorf("notify: acquire ledger lock: %w", err)
	}
	defer l.lock.Unlock()

	entries, err := l.load()
	if err != nil {
		return false, err
	}
	_, already := entries[address]
	return already, nil
}

// Clear removes an address's ledger entry, called on recovery so the next
// outage episode can alert again.
func (l *Ledger) Clear(address string) error {
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("notify: acquire ledger lock: %w", err)
	}
	defer l.lock.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}
	delete(entries, address)
	return l.save(entries)
}
