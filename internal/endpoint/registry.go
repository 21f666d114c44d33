package endpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Spec maps a symbolic request id to an HTTP method and path template.
type Spec struct {
	ID     string
	Method string
	Path   string // may contain {placeholder} segments
}

// Registry is a read-only lookup table of endpoint specs.
type Registry struct {
	specs map[string]Spec
}

// descriptor is one entry of the endpoint document. An entry carrying
// "method" is a group whose members are flattened into the registry.
type descriptor struct {
	ID      string       `json:"_id"`
	Name    string       `json:"name"`
	Path    string       `json:"path"`
	Methods []descriptor `json:"method"`
}

// Load reads and parses the endpoint document at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint document: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("endpoint document %q: %w", path, err)
	}
	return reg, nil
}

// Parse builds a registry from a JSON array of {_id, name, path} entries or
// groups of the form {"method": [...]}.
func Parse(data []byte) (*Registry, error) {
	var entries []descriptor
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	reg := &Registry{specs: make(map[string]Spec)}
	for _, e := range entries {
		if e.Methods != nil {
			for _, m := range e.Methods {
				if err := reg.add(m); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := reg.add(e); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// add registers a single descriptor; entries without an id are skipped.
func (r *Registry) add(d descriptor) error {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return nil
	}
	if _, dup := r.specs[id]; dup {
		return fmt.Errorf("duplicate endpoint id %q", id)
	}
	r.specs[id] = Spec{
		ID:     id,
		Method: strings.ToUpper(strings.TrimSpace(d.Name)),
		Path:   d.Path,
	}
	return nil
}

// Lookup returns the spec registered under id. A nil registry is empty.
func (r *Registry) Lookup(id string) (Spec, bool) {
	if r == nil {
		return Spec{}, false
	}
	s, ok := r.specs[id]
	return s, ok
}

// Len returns the number of registered endpoints.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.specs)
}

// IDs returns all registered ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
