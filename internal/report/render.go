package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"text/template"
)

// DefaultTemplate prints one tab-separated line per row. Text cells go
// through cell so embedded tabs and newlines cannot split a row.
const DefaultTemplate = `Key	Status	Updated	Resolution	Summary
{{- range .Rows }}
{{ .Key | cell }}	{{ .Status | cell }}	{{ formatTime .Updated "2006-01-02 15:04" }}	{{ .ResolutionName | default "-" | cell }}	{{ .Summary | cell }}
{{- end }}
`

// Render executes tmpl (DefaultTemplate when empty) against r and aligns
// tab-separated cells into columns.
func Render(w io.Writer, r Report, tmpl string) error {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	t, err := template.New("report").Funcs(FuncMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := t.Execute(tw, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return tw.Flush()
}
