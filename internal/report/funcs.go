package report

import (
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// FuncMap returns the sprig text functions plus the Jira helpers.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["formatJiraDate"] = formatJiraDate
	fm["setany"] = setany
	fm["dig"] = templateDig
	fm["formatTime"] = formatTime
	fm["cell"] = cell
	return fm
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\t", " ", "\n", " ", "\r", " ")

// cell flattens s to a single tab-free line so it stays in its table column.
func cell(s string) string {
	return cellReplacer.Replace(s)
}

// setany sets m[key] = val for map[string]any and returns the map.
func setany(m map[string]any, key string, val any) map[string]any {
	m[key] = val
	return m
}

// templateDig returns the string value of m[key] if it exists and is a string.
// If m is itself a string, it is returned directly.
func templateDig(m any, key string) string {
	switch v := m.(type) {
	case map[string]any:
		if s, ok := v[key].(string); ok {
			return s
		}
	case string:
		return v
	}
	return ""
}

// formatJiraDate reformats a Jira timestamp with layout. Unparseable input is returned as is.
func formatJiraDate(input, layout string) string {
	t, err := parseJiraTime(input)
	if err != nil {
		return input
	}
	return t.Format(layout)
}

// formatTime formats t with layout, printing "-" for the zero time.
func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}
