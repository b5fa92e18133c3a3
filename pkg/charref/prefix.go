package charref

// Prefix returns a copy of m with prefix prepended to every name.
func Prefix(m *Mapping, prefix string) *Mapping {
	out := NewMapping()
	for name, glyph := range m.All() {
		out.Set(prefix+name, glyph)
	}
	return out
}
