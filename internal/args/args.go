package args

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	queryMarker = "&="
	bodyMarker  = "@="
)

// Parsed holds the result of classifying argument tokens.
type Parsed struct {
	Query    map[string]string
	Body     map[string]any
	Leftover []string
}

// UsageError names tokens that are neither query nor body parameters.
type UsageError struct {
	Tokens []string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("unexpected positional arguments %q: use key&=value for query or key@=value for body parameters", e.Tokens)
}

// Split classifies every token without rejecting leftovers.
// "&=" is checked before "@=", so a token holding both markers is a query parameter.
func Split(tokens []string) Parsed {
	p := Parsed{
		Query: map[string]string{},
		Body:  map[string]any{},
	}
	for _, tok := range tokens {
		if key, val, ok := strings.Cut(tok, queryMarker); ok {
			p.Query[key] = val
			continue
		}
		if key, val, ok := strings.Cut(tok, bodyMarker); ok {
			p.Body[key] = bodyValue(val)
			continue
		}
		p.Leftover = append(p.Leftover, tok)
	}
	return p
}

// Parse classifies tokens and fails with a UsageError when any remain unclassified.
func Parse(tokens []string) (Parsed, error) {
	p := Split(tokens)
	if len(p.Leftover) > 0 {
		return p, &UsageError{Tokens: p.Leftover}
	}
	return p, nil
}

// bodyValue decodes a JSON object or array so nested bodies can be sent.
// Anything else, scalars included, stays the literal string.
func bodyValue(val string) any {
	trimmed := strings.TrimSpace(val)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return val
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return val
	}
	if _, err := dec.Token(); err != io.EOF {
		return val // trailing data
	}
	return out
}
