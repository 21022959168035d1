// Package ingest loads raw CSV event logs and cleans them into the record
// shape the simulation engine expects: non-empty activity names, parseable
// timestamps, and non-negative durations.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowmetriq/flowmetriq/sim"
)

// Column alias patterns, matched case-insensitively against the CSV
// header. First match wins within each group.
var (
	caseAliases     = []string{"case id", "case_id", "caseid", "case", "order_id", "ticket_id"}
	activityAliases = []string{"event", "activity", "activity_name", "action", "step"}
	startAliases    = []string{"start time", "start_time", "start", "timestamp", "begin"}
	endAliases      = []string{"end time", "end_time", "end", "finish"}
)

// Timestamp layouts tried in order of likelihood.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// CleanReport accounts for every input row: each one either became a
// record or was dropped for exactly one of the listed reasons.
type CleanReport struct {
	TotalRows        int `json:"total_rows"`
	Kept             int `json:"kept"`
	MissingFields    int `json:"missing_fields"`
	BadTimestamps    int `json:"bad_timestamps"`
	NegativeDuration int `json:"negative_duration"`
}

// ErrMissingColumn reports a required event-log column absent from the
// CSV header.
type ErrMissingColumn struct {
	Role string
}

func (e ErrMissingColumn) Error() string {
	return fmt.Sprintf("no %s column found in CSV header", e.Role)
}

// ReadFile loads and cleans the CSV event log at path.
func ReadFile(path string) ([]sim.Record, CleanReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CleanReport{}, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read loads and cleans a CSV event log from r. Column roles are detected
// from the header by alias matching. Rows that cannot be cleaned are
// dropped and counted, never guessed at: a missing end timestamp falls
// back to the start timestamp (zero duration), but an unparsable one
// drops the row.
func Read(r io.Reader) ([]sim.Record, CleanReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, CleanReport{}, fmt.Errorf("reading CSV header: %w", err)
	}

	caseIdx, err := findColumn(header, "case id", caseAliases)
	if err != nil {
		return nil, CleanReport{}, err
	}
	activityIdx, err := findColumn(header, "activity", activityAliases)
	if err != nil {
		return nil, CleanReport{}, err
	}
	startIdx, err := findColumn(header, "start time", startAliases)
	if err != nil {
		return nil, CleanReport{}, err
	}
	// end column is optional; missing means zero-duration events
	endIdx, endErr := findColumn(header, "end time", endAliases)

	var records []sim.Record
	var report CleanReport

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, CleanReport{}, fmt.Errorf("reading CSV row: %w", err)
		}
		report.TotalRows++

		caseID := strings.TrimSpace(row[caseIdx])
		activity := strings.TrimSpace(row[activityIdx])
		if caseID == "" || activity == "" {
			report.MissingFields++
			continue
		}

		start, ok := parseTimestamp(row[startIdx])
		if !ok {
			report.BadTimestamps++
			continue
		}
		end := start
		if endErr == nil {
			if raw := strings.TrimSpace(row[endIdx]); raw != "" {
				end, ok = parseTimestamp(raw)
				if !ok {
					report.BadTimestamps++
					continue
				}
			}
		}
		if end.Before(start) {
			report.NegativeDuration++
			continue
		}

		records = append(records, sim.Record{
			CaseID:   caseID,
			Activity: activity,
			Start:    start,
			End:      end,
		})
	}

	report.Kept = len(records)
	dropped := report.TotalRows - report.Kept
	if dropped > 0 {
		logrus.Warnf("dropped %d of %d rows during cleaning (%d missing fields, %d bad timestamps, %d negative durations)",
			dropped, report.TotalRows, report.MissingFields, report.BadTimestamps, report.NegativeDuration)
	}
	return records, report, nil
}

// findColumn locates the first header cell matching any alias, exactly
// first and then by substring.
func findColumn(header []string, role string, aliases []string) (int, error) {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, alias := range aliases {
		for i, h := range lower {
			if h == alias {
				return i, nil
			}
		}
	}
	for _, alias := range aliases {
		for i, h := range lower {
			if strings.Contains(h, alias) {
				return i, nil
			}
		}
	}
	return 0, ErrMissingColumn{Role: role}
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
