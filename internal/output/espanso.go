package output

import (
	"strings"

	"github.com/jmylchreest/charrefs/pkg/charref"
)

// EspansoEncoder renders a mapping as an espanso match file:
//
//	matches:
//	- trigger: :&amp;
//	  replace: "&"
//
// Triggers are written as-is; replacements are JSON string literals, which
// YAML reads as double-quoted scalars.
type EspansoEncoder struct{}

// NewEspansoEncoder creates an espanso encoder.
func NewEspansoEncoder() *EspansoEncoder {
	return &EspansoEncoder{}
}

// Format returns FormatEspanso.
func (e *EspansoEncoder) Format() Format {
	return FormatEspanso
}

// Encode renders m as an espanso match list.
func (e *EspansoEncoder) Encode(m *charref.Mapping) (string, error) {
	lines := make([]string, 0, 1+2*m.Len())
	lines = append(lines, "matches:")
	for trigger, glyph := range m.All() {
		replace, err := quote(glyph)
		if err != nil {
			return "", err
		}
		lines = append(lines,
			"- trigger: "+trigger,
			"  replace: "+replace,
		)
	}
	return strings.Join(lines, "\n"), nil
}
