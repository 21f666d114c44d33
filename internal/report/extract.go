package report

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/itchyny/gojq"
)

// Extractor evaluates a structured query path against a decoded JSON document
// and returns one JSON-encoded value per result.
type Extractor interface {
	Extract(doc any, path string) ([]string, error)
}

// JQExtractor evaluates jq expressions in-process.
type JQExtractor struct {
	mu      sync.Mutex
	queries map[string]*gojq.Query
}

// NewJQExtractor returns an Extractor using jq syntax.
func NewJQExtractor() *JQExtractor {
	return &JQExtractor{queries: map[string]*gojq.Query{}}
}

// Extract runs path against doc. Each emitted value is encoded like jq prints
// it, so strings keep their surrounding quotes.
func (e *JQExtractor) Extract(doc any, path string) ([]string, error) {
	q, err := e.query(path)
	if err != nil {
		return nil, err
	}

	var out []string
	iter := q.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("evaluate %q: %w", path, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode result of %q: %w", path, err)
		}
		out = append(out, string(b))
	}
	return out, nil
}

// query returns the parsed query for path, parsing it once.
func (e *JQExtractor) query(path string) (*gojq.Query, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if q, ok := e.queries[path]; ok {
		return q, nil
	}
	q, err := gojq.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", path, err)
	}
	e.queries[path] = q
	return q, nil
}
