package charref

import (
	"fmt"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/rangetable"
)

// FilterMode selects entries by glyph printability.
type FilterMode string

const (
	FilterNone        FilterMode = ""
	FilterPrintable   FilterMode = "printable"
	FilterUnprintable FilterMode = "unprintable"
)

var (
	// Cc, Cf, Cs and Co.
	hidden = runes.In(unicode.C)

	// Everything with a general category; the complement is Cn.
	assigned = runes.In(rangetable.Merge(
		unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.C,
	))
)

// ParseFilter converts a flag value to a FilterMode. "" and "none" mean no filtering.
func ParseFilter(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterNone, "none":
		return FilterNone, nil
	case FilterPrintable, FilterUnprintable:
		return FilterMode(s), nil
	default:
		return FilterNone, fmt.Errorf("%w: %q (use printable or unprintable)", ErrUnsupportedFilter, s)
	}
}

// IsPrintable reports whether r is outside the control, format, surrogate,
// private-use and unassigned categories. Tab, line feed and carriage
// return are always printable.
func IsPrintable(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return true
	}
	if hidden.Contains(r) {
		return false
	}
	return assigned.Contains(r)
}

// Printable reports whether every rune of s is printable.
// The empty string is printable.
func Printable(s string) bool {
	for _, r := range s {
		if !IsPrintable(r) {
			return false
		}
	}
	return true
}

// Filter returns the entries of m selected by mode. FilterNone returns m.
func Filter(m *Mapping, mode FilterMode) (*Mapping, error) {
	var keep func(string) bool
	switch mode {
	case FilterNone:
		return m, nil
	case FilterPrintable:
		keep = Printable
	case FilterUnprintable:
		keep = func(s string) bool { return !Printable(s) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFilter, mode)
	}

	out := NewMapping()
	for name, glyph := range m.All() {
		if keep(glyph) {
			out.Set(name, glyph)
		}
	}
	return out, nil
}
