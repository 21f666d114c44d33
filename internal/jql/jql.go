package jql

import (
	"errors"
	"fmt"
	"maps"
	"sort"

	"github.com/gi8lino/deskkit/internal/placeholder"
)

// DefaultFragments are the built-in named JQL sub-expressions.
var DefaultFragments = map[string]string{
	"related_me": "(reporter was currentUser() OR watcher = currentUser() " +
		"OR assignee was currentUser() OR summary ~ currentUser() " +
		"OR description ~ currentUser() OR comment ~ currentUser())",
	"me":              "assignee = currentUser()",
	"unresolved":      "resolution = Unresolved",
	"weekly_resolved": "(resolved >= -1w OR status changed to closed AFTER -1w)",
}

// Presets are the canned searches exposed as commands.
var Presets = map[string]string{
	"me":            "{me} AND {unresolved}",
	"today-closed":  "{me} AND (status changed to resolved AFTER -1d OR status changed to closed AFTER -1d)",
	"related":       "{unresolved} AND {related_me}",
	"last-resolved": "{me} and {weekly_resolved}",
}

// MissingFragmentError reports a template referencing an unknown fragment.
type MissingFragmentError struct {
	Name string
}

func (e *MissingFragmentError) Error() string {
	return fmt.Sprintf("unknown JQL fragment %q", e.Name)
}

// Engine expands JQL templates against a fixed fragment table.
type Engine struct {
	fragments map[string]string
}

// NewEngine returns an Engine with DefaultFragments overlaid by overrides.
func NewEngine(overrides map[string]string) *Engine {
	frags := maps.Clone(DefaultFragments)
	maps.Copy(frags, overrides)
	return &Engine{fragments: frags}
}

// Expand substitutes every {name} in template with its fragment in one pass.
// Fragment text is inserted verbatim and never expanded again.
func (e *Engine) Expand(template string) (string, error) {
	out, err := placeholder.Expand(template, e.fragments)
	if err != nil {
		var missing *placeholder.MissingError
		if errors.As(err, &missing) {
			return "", &MissingFragmentError{Name: missing.Name}
		}
		return "", err
	}
	return out, nil
}

// Fragment returns the text of a named fragment.
func (e *Engine) Fragment(name string) (string, bool) {
	f, ok := e.fragments[name]
	return f, ok
}

// Names returns the known fragment names, sorted.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.fragments))
	for n := range e.fragments {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
