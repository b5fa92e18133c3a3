package charref

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is an insertion-ordered entity-name to glyph table.
type Mapping struct {
	entries *orderedmap.OrderedMap[string, string]
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{entries: orderedmap.New[string, string]()}
}

// MappingOf builds a mapping from alternating name, glyph arguments.
// A trailing name without a glyph is ignored.
func MappingOf(pairs ...string) *Mapping {
	m := NewMapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores glyph under name. An existing name keeps its position and
// takes the new glyph; the previous glyph is returned with replaced=true.
func (m *Mapping) Set(name, glyph string) (previous string, replaced bool) {
	return m.entries.Set(name, glyph)
}

// Get returns the glyph stored under name.
func (m *Mapping) Get(name string) (string, bool) {
	return m.entries.Get(name)
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return m.entries.Len()
}

// All iterates entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for p := m.entries.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Keys returns the names in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}
