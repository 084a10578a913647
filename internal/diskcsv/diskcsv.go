// Package diskcsv provides crash-safe CSV table persistence shared by the
// snapshot store, failure tracker, alert ledger, incident tracking, and
// analytics log. Every table is a plain CSV file: reads tolerate a missing
// or truncated file by treating it as empty, and writes that replace the
// whole table go through a temp-file-then-rename so a crash mid-write never
// leaves a half-written file in place.
package diskcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ReadRows reads every record from path, skipping the header row. A missing
// file is treated as zero rows, matching the tolerate-corrupt read policy
// used throughout the on-disk ledgers.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("diskcsv: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		// A corrupt file is tolerated as empty rather than failing the cycle.
		return nil, nil
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// WriteTable atomically replaces path's contents with header followed by
// rows: write to a temp file in the same directory, fsync it, then rename
// over the destination. The rename is atomic on POSIX filesystems, so a
// reader never observes a partially written table.
func WriteTable(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("diskcsv: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("diskcsv: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("diskcsv: write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("diskcsv: write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("diskcsv: flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("diskcsv: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("diskcsv: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("diskcsv: rename into place: %w", err)
	}
	return nil
}

// AppendRow appends a single record to path, writing the header first if
// the file does not yet exist. Appends are not staged through a temp file:
// an append is already crash-safe to line granularity, and flushing after
// every row bounds the loss window to the in-flight record.
func AppendRow(path string, header []string, row []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("diskcsv: mkdir %s: %w", dir, err)
	}

	needsHeader := false
	if info, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("diskcsv: stat %s: %w", path, err)
		}
		needsHeader = true
	} else if info.Size() == 0 {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("diskcsv: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("diskcsv: write header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("diskcsv: write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("diskcsv: flush: %w", err)
	}
	return f.Sync()
}
