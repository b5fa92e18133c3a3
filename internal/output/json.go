package output

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jmylchreest/charrefs/pkg/charref"
)

// JSONEncoder renders a mapping as a single JSON object in mapping order.
// Non-ASCII and HTML characters are written literally.
type JSONEncoder struct {
	pretty bool
	indent string
}

// NewJSONEncoder creates a JSON encoder.
func NewJSONEncoder(pretty bool, indent string) *JSONEncoder {
	return &JSONEncoder{
		pretty: pretty,
		indent: indent,
	}
}

// Format returns FormatJSON.
func (e *JSONEncoder) Format() Format {
	return FormatJSON
}

// Encode renders m as a JSON object.
func (e *JSONEncoder) Encode(m *charref.Mapping) (string, error) {
	if m.Len() == 0 {
		return "{}", nil
	}

	head, sep, tail := "{", ", ", "}"
	if e.pretty {
		head, sep, tail = "{\n"+e.indent, ",\n"+e.indent, "\n}"
	}

	var sb strings.Builder
	sb.WriteString(head)
	first := true
	for name, glyph := range m.All() {
		k, err := quote(name)
		if err != nil {
			return "", err
		}
		v, err := quote(glyph)
		if err != nil {
			return "", err
		}

		if !first {
			sb.WriteString(sep)
		}
		first = false
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
	}
	sb.WriteString(tail)
	return sb.String(), nil
}

// quote returns s as a JSON string literal without HTML escaping.
func quote(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
