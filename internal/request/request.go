package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gi8lino/deskkit/internal/endpoint"
	"github.com/gi8lino/deskkit/internal/placeholder"
)

// Descriptor fully determines one outgoing HTTP request.
type Descriptor struct {
	Method  string
	URL     string // absolute, placeholders substituted, query merged
	Query   map[string]string
	Body    map[string]any
	Headers http.Header
}

// TemplateError reports a path placeholder without a matching format parameter.
type TemplateError struct {
	Template    string
	Placeholder string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("path template %q: missing value for {%s}", e.Template, e.Placeholder)
}

// Builder turns endpoint ids or raw paths into request descriptors.
type Builder struct {
	base     *url.URL
	registry *endpoint.Registry
}

// NewBuilder returns a Builder resolving paths against base.
func NewBuilder(base *url.URL, registry *endpoint.Registry) *Builder {
	return &Builder{base: base, registry: registry}
}

// Build resolves idOrPath through the registry, falling back to a literal path
// with the given method, and produces a complete Descriptor.
func (b *Builder) Build(idOrPath, method string, format, query map[string]string, body map[string]any) (Descriptor, error) {
	method, path, err := b.resolve(idOrPath, method)
	if err != nil {
		return Descriptor{}, err
	}

	expanded, err := placeholder.Expand(path, format)
	if err != nil {
		var missing *placeholder.MissingError
		if errors.As(err, &missing) {
			return Descriptor{}, &TemplateError{Template: path, Placeholder: missing.Name}
		}
		return Descriptor{}, err
	}

	u, err := resolveURL(b.base, expanded)
	if err != nil {
		return Descriptor{}, fmt.Errorf("parse path %q: %w", expanded, err)
	}
	mergeQuery(u, query)

	return Descriptor{
		Method:  method,
		URL:     u.String(),
		Query:   query,
		Body:    body,
		Headers: defaultHeaders(method, body),
	}, nil
}

// Known reports whether id is a registered endpoint.
func (b *Builder) Known(id string) bool {
	_, ok := b.registry.Lookup(id)
	return ok
}

// resolve returns method and path template for idOrPath. A registry hit wins;
// otherwise idOrPath is a literal path and method is required.
func (b *Builder) resolve(idOrPath, method string) (string, string, error) {
	if spec, ok := b.registry.Lookup(idOrPath); ok {
		return canonicalMethod(spec.Method), spec.Path, nil
	}
	if strings.TrimSpace(method) == "" {
		return "", "", fmt.Errorf("%q is not a registered endpoint and no method was given", idOrPath)
	}
	return canonicalMethod(method), idOrPath, nil
}

// ParseBase parses the configured Jira host. A bare host gets the https scheme.
func ParseBase(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("empty host")
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q", host)
	}
	return u, nil
}

// defaultHeaders returns Accept: application/json and, for POST or any
// request carrying a body, Content-Type: application/json.
func defaultHeaders(method string, body map[string]any) http.Header {
	hdr := http.Header{}
	hdr.Set("Accept", "application/json")
	if method == http.MethodPost || len(body) > 0 {
		hdr.Set("Content-Type", "application/json")
	}
	return hdr
}

// canonicalMethod returns an upper-cased HTTP method or GET if empty.
func canonicalMethod(m string) string {
	m = strings.TrimSpace(m)
	if m == "" {
		return http.MethodGet
	}
	return strings.ToUpper(m)
}

// resolveURL parses raw and resolves it against base if not absolute.
func resolveURL(base *url.URL, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() && base != nil {
		u = base.ResolveReference(u)
	}
	return u, nil
}

// mergeQuery merges kv into u's query in sorted key order. Empty keys are ignored.
func mergeQuery(u *url.URL, kv map[string]string) {
	if u == nil || len(kv) == 0 {
		return
	}
	q := u.Query()

	keys := make([]string, 0, len(kv))
	for k := range kv {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		q.Set(k, kv[k])
	}
	u.RawQuery = q.Encode()
}
