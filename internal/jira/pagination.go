package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// SearchAll pages through a JQL search via startAt/maxResults and returns a
// response shaped like a single page whose "issues" hold every unique issue.
func (a *API) SearchAll(ctx context.Context, jql string, pageSize int) (map[string]any, error) {
	if pageSize <= 0 {
		pageSize = 50
	}

	acc := newAccumulator()
	start := 0
	for {
		raw, err := a.Call(ctx, searchPath, http.MethodGet, nil, map[string]string{
			"jql":        jql,
			"startAt":    strconv.Itoa(start),
			"maxResults": strconv.Itoa(pageSize),
		}, nil)
		if err != nil {
			return nil, err
		}
		page, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected search response of type %T", raw)
		}

		// stop when the backend ignores startAt and repeats the same window
		if acc.merge(page["issues"]) == 0 {
			break
		}

		next, ok := nextPageParams(page, pageSize)
		if !ok {
			break
		}
		start = next
	}

	return map[string]any{
		"startAt":    0,
		"maxResults": len(acc.issues),
		"total":      len(acc.issues),
		"issues":     acc.issues,
	}, nil
}

// accumulator collects issues across pages, de-duplicated by identity.
type accumulator struct {
	issues []any
	seen   map[string]struct{}
}

// newAccumulator creates an empty accumulator.
func newAccumulator() *accumulator {
	return &accumulator{issues: []any{}, seen: map[string]struct{}{}}
}

// merge appends the unseen elements of v (a JSON array) and returns how many were added.
func (a *accumulator) merge(v any) int {
	arr, ok := v.([]any)
	if !ok {
		return 0
	}
	added := 0
	for _, elem := range arr {
		id := itemIdentity(elem)
		if _, dup := a.seen[id]; dup {
			continue
		}
		a.seen[id] = struct{}{}
		a.issues = append(a.issues, elem)
		added++
	}
	return added
}

// nextPageParams computes the next startAt and whether to continue.
func nextPageParams(last map[string]any, fallbackLimit int) (int, bool) {
	start := asInt(last["startAt"])
	limit := asInt(last["maxResults"])
	total := asInt(last["total"])

	if limit <= 0 {
		limit = fallbackLimit
	}
	if limit <= 0 {
		limit = 1 // ensure progress even with bad counters
	}

	next := start + limit
	if total > 0 && next >= total {
		return 0, false
	}
	return next, true
}

// itemIdentity extracts a best-effort identity string for de-duplication.
func itemIdentity(v any) string {
	if m, ok := v.(map[string]any); ok {
		if id, ok := m["id"]; ok {
			return stringify(id)
		}
		if key, ok := m["key"]; ok {
			return stringify(key)
		}
	}
	b, _ := json.Marshal(v) // structural fallback
	return string(b)
}

// asInt converts a JSON scalar into a non-negative int.
func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return max(x, 0)
	case int64:
		return int(max(x, 0))
	case float64:
		return int(max(x, 0))
	case json.Number:
		n, err := x.Int64()
		if err != nil || n < 0 {
			return 0
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(x)
		if err != nil || n < 0 {
			return 0
		}
		return n
	default:
		return 0
	}
}

// stringify converts common scalar types to a string.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.Itoa(int(s))
	case int:
		return strconv.Itoa(s)
	default:
		b, _ := json.Marshal(s)
		return string(b)
	}
}
