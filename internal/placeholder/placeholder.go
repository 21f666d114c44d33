package placeholder

import (
	"fmt"
	"strings"
)

// MissingError reports a placeholder without a value.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("no value for placeholder %q", e.Name)
}

// SyntaxError reports a "{" without a closing brace or a lone "}".
type SyntaxError struct {
	Template string
	Offset   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unbalanced brace at offset %d in %q", e.Offset, e.Template)
}

// Expand replaces every {name} in tmpl with values[name] in a single pass.
// Substituted text is never scanned again. "{{" and "}}" yield literal braces;
// any other unmatched brace is a SyntaxError.
func Expand(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", &SyntaxError{Template: tmpl, Offset: i}
			}
			name := tmpl[i+1 : i+1+end]
			val, ok := values[name]
			if !ok {
				return "", &MissingError{Name: name}
			}
			b.WriteString(val)
			i += end + 1
		case c == '}':
			return "", &SyntaxError{Template: tmpl, Offset: i}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Names returns the placeholder names referenced by tmpl in order of appearance.
func Names(tmpl string) []string {
	var names []string
	for i := 0; i < len(tmpl); i++ {
		switch {
		case tmpl[i] == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			i++
		case tmpl[i] == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			i++
		case tmpl[i] == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return names
			}
			names = append(names, tmpl[i+1:i+1+end])
			i += end + 1
		}
	}
	return names
}
