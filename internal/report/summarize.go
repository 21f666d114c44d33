package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrMisaligned is returned when the per-field extractions disagree on the number of issues.
var ErrMisaligned = errors.New("field extractions returned different issue counts")

// Row is one issue of a search report.
type Row struct {
	Key        string
	Status     string
	Summary    string
	Updated    time.Time
	Resolution *string // nil while unresolved
}

// ResolutionName returns the resolution or an empty string.
func (r Row) ResolutionName() string {
	if r.Resolution == nil {
		return ""
	}
	return *r.Resolution
}

// Report holds search rows ordered by Updated, oldest first.
type Report struct {
	Rows []Row
}

const (
	keyPath        = ".issues[].key"
	statusPath     = ".issues[].fields.status.name"
	summaryPath    = ".issues[].fields.summary"
	updatedPath    = ".issues[].fields.updated"
	resolutionPath = ".issues[].fields.resolution.name"
)

var jiraTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Summarize reshapes a search response into a Report. Every field is
// extracted over the same issue list; rows are paired by index.
func Summarize(doc any, ex Extractor) (Report, error) {
	paths := []string{keyPath, statusPath, summaryPath, updatedPath, resolutionPath}
	cols := make([][]string, len(paths))
	for i, p := range paths {
		vals, err := ex.Extract(doc, p)
		if err != nil {
			return Report{}, err
		}
		if i > 0 && len(vals) != len(cols[0]) {
			return Report{}, fmt.Errorf("%w: %s has %d values, %s has %d", ErrMisaligned, p, len(vals), paths[0], len(cols[0]))
		}
		cols[i] = vals
	}

	rows := make([]Row, len(cols[0]))
	for i := range rows {
		updated, err := parseJiraTime(unquote(cols[3][i]))
		if err != nil {
			return Report{}, fmt.Errorf("issue %s: %w", unquote(cols[0][i]), err)
		}
		rows[i] = Row{
			Key:        unquote(cols[0][i]),
			Status:     unquote(cols[1][i]),
			Summary:    unquote(cols[2][i]),
			Updated:    updated,
			Resolution: nullable(cols[4][i]),
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Updated.Before(rows[j].Updated)
	})
	return Report{Rows: rows}, nil
}

// unquote strips the quotes of a JSON-encoded value. A JSON null becomes "".
func unquote(raw string) string {
	if raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return strings.Trim(raw, `"`)
}

// nullable returns nil for a JSON null and the unquoted value otherwise.
func nullable(raw string) *string {
	if raw == "null" {
		return nil
	}
	s := unquote(raw)
	return &s
}

// parseJiraTime parses the timestamp formats Jira emits. An empty value is the zero time.
func parseJiraTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range jiraTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
