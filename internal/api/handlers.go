package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.cached(r.Context(), w, "ping:latest", func() (any, error) {
		rows, err := s.snap.Latest()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(rows))
		for _, row := range rows {
			out = append(out, row)
		}
		return out, nil
	})
}

func (s *Server) handleLatestOne(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	rows, err := s.snap.Latest()
	if err != nil {
		s.logger.Error("get latest failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	row, ok := rows[address]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no snapshot for address %q", address))
		return
	}
	s.writeData(w, http.StatusOK, row)
}

func (s *Server) handleDown(w http.ResponseWriter, r *http.Request) {
	entries, err := s.failures.List()
	if err != nil {
		s.logger.Error("list failures failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeData(w, http.StatusOK, entries)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := time.Now()

	if daysParam := q.Get("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
		points, err := s.analytics.RangeDays(now, days)
		if err != nil {
			s.logger.Error("analytics range failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.writeData(w, http.StatusOK, points)
		return
	}

	hours := 24
	if hoursParam := q.Get("hours"); hoursParam != "" {
		h, err := strconv.Atoi(hoursParam)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid hours parameter")
			return
		}
		hours = h
	}
	points, err := s.analytics.Range(now, hours)
	if err != nil {
		s.logger.Error("analytics range failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeData(w, http.StatusOK, points)
}

var dayFilePattern = regexp.MustCompile(`^(ping_results|analytics)_(\d{8})\.csv$`)

type csvFileInfo struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Date     string    `json:"date"`
	SizeByte int64     `json:"size_bytes"`
	Rows     int       `json:"rows"`
	ModTime  time.Time `json:"mod_time"`
}

// handleCSVFiles lists every per-day CSV artefact under the data directory
// with a cheap row count, adapted from the original monitor's
// get_csv_files_info inspection endpoint.
func (s *Server) handleCSVFiles(w http.ResponseWriter, r *http.Request) {
	dir := s.snap.DataDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Error("list csv files failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var files []csvFileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := dayFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		rows := countDataRows(filepath.Join(dir, entry.Name()))
		files = append(files, csvFileInfo{
			Name:     entry.Name(),
			Kind:     m[1],
			Date:     m[2],
			SizeByte: info.Size(),
			Rows:     rows,
			ModTime:  info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	s.writeData(w, http.StatusOK, files)
}

func countDataRows(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil || len(records) == 0 {
		return 0
	}
	return len(records) - 1 // exclude header
}

type serviceStatus struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	DataDir       string  `json:"data_dir"`
	Process       any     `json:"process"`
}

func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, serviceStatus{
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		DataDir:       s.snap.DataDir(),
		Process:       s.proc.Collect(),
	})
}
