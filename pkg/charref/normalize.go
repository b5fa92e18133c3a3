package charref

import (
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// Stats counts what Normalize saw.
type Stats struct {
	Rows       int
	Legacy     int
	Duplicates int
	Entities   int
}

// Normalize turns raw rows into a mapping. Names are trimmed and must end
// in ';' (legacy aliases without it are skipped). Glyph markup is decoded.
// A repeated name keeps its first position and takes the later glyph.
func Normalize(rows iter.Seq[RawRow], log *slog.Logger) (*Mapping, Stats) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := NewMapping()
	var stats Stats
	for row := range rows {
		stats.Rows++

		name := strings.TrimSpace(row.Name)
		if !strings.HasSuffix(name, ";") {
			stats.Legacy++
			continue
		}

		glyph := html.UnescapeString(row.Glyph)
		if prev, replaced := m.Set(name, glyph); replaced {
			stats.Duplicates++
			log.Warn("duplicate entity name, later row wins",
				"name", name, "previous", prev, "glyph", glyph)
		}
	}
	stats.Entities = m.Len()

	log.Debug("normalized entity rows",
		"rows", stats.Rows,
		"legacy_skipped", stats.Legacy,
		"duplicates", stats.Duplicates,
		"entities", stats.Entities)
	return m, stats
}
