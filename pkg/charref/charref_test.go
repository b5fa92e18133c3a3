package charref

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// readTestdata reads a file from the testdata directory
func readTestdata(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join("testdata", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return string(data)
}

// --- Locate Tests ---

func TestLocate_FirstTableInContainer(t *testing.T) {
	table, err := Locate(readTestdata(t, "entities.html"))
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}

	if !strings.HasPrefix(table, "<table") || !strings.HasSuffix(table, "</table>") {
		t.Errorf("expected a single table element, got %q", table[:min(len(table), 40)])
	}
	if strings.Contains(table, "decoy") {
		t.Error("table outside the container should not be located")
	}
	if strings.Contains(table, "second") {
		t.Error("only the first table in the container should be located")
	}
	if !strings.Contains(table, "AElig;") {
		t.Error("expected entity rows in the located table")
	}
}

func TestLocate_ContainerMissing(t *testing.T) {
	_, err := Locate(readTestdata(t, "no_container.html"))
	if !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), ContainerID) {
		t.Errorf("error should name the container, got %q", err)
	}
}

func TestLocate_TableMissing(t *testing.T) {
	_, err := Locate(readTestdata(t, "no_table.html"))
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestLocate_AnyElementCarriesID(t *testing.T) {
	doc := `<section id="named-character-references-table"><table><tr><td>x</td></tr></table></section>`
	if _, err := Locate(doc); err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
}

// --- Rows Tests ---

func TestRows_Shape(t *testing.T) {
	table, err := Locate(readTestdata(t, "entities.html"))
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}

	var names []string
	for row := range Rows(table) {
		names = append(names, strings.TrimSpace(row.Name))
	}

	want := []string{
		"AElig;", "AElig", "AMP;", "AMP", "amp;", "lt;", "quot;",
		"bsol;", "Tab;", "ZeroWidthSpace;", "nvlt;", "fjlig;",
	}
	if !slices.Equal(names, want) {
		t.Errorf("Rows() names =\n%q\nwant\n%q", names, want)
	}
}

func TestRows_GlyphIsEscapedMarkup(t *testing.T) {
	table := `<table><tr><td><code>&amp;lt;</code><td>U+0003C<td><span class="glyph">&lt;</span></table>`

	var rows []RawRow
	for row := range Rows(table) {
		rows = append(rows, row)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Glyph != "&lt;" {
		t.Errorf("Glyph = %q, want %q", rows[0].Glyph, "&lt;")
	}
}

func TestRows_NameIsEscapedMarkup(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"AElig;", "AElig;"},
		{"&amp;", "&amp;"},
		{"&amp;amp;", "&amp;amp;"},
		{" &amp;lt; ", " &amp;lt; "},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			table := `<table><tr><td><code>` + tt.code + `</code><td>-<td><span>x</span></table>`

			var names []string
			for row := range Rows(table) {
				names = append(names, row.Name)
			}
			if !slices.Equal(names, []string{tt.want}) {
				t.Errorf("Rows() names = %q, want [%q]", names, tt.want)
			}
		})
	}
}

func TestRows_SkipsNestedMarkup(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{"markup_in_code", `<table><tr><td><code><b>&amp;x;</b></code><td>-<td><span>x</span></table>`},
		{"markup_in_span", `<table><tr><td><code>&amp;x;</code><td>-<td><span><i>x</i></span></table>`},
		{"text_before_code", `<table><tr><td>see <code>&amp;x;</code><td>-<td><span>x</span></table>`},
		{"no_span", `<table><tr><td><code>&amp;x;</code><td>-<td>x</table>`},
		{"two_cells", `<table><tr><td><code>&amp;x;</code><td><span>x</span></table>`},
		{"header_row", `<table><tr><th><code>&amp;x;</code><th>-<th><span>x</span></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for row := range Rows(tt.table) {
				t.Errorf("expected no rows, got %+v", row)
			}
		})
	}
}

func TestRows_StopsEarly(t *testing.T) {
	table, err := Locate(readTestdata(t, "entities.html"))
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}

	count := 0
	for range Rows(table) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected to stop after 2 rows, got %d", count)
	}
}

// --- Normalize Tests ---

func TestNormalize_SkipsLegacyNames(t *testing.T) {
	rows := slices.Values([]RawRow{
		{Name: " &amp; ", Glyph: "&amp;"},
		{Name: "&amp", Glyph: "&amp;"},
		{Name: "&lt;", Glyph: "&lt;"},
		{Name: "&lt", Glyph: "&lt;"},
		{Name: "&gt", Glyph: "&gt;"},
	})

	m, stats := Normalize(rows, nil)

	if m.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", m.Len())
	}
	if stats.Legacy != 3 {
		t.Errorf("expected 3 legacy rows, got %d", stats.Legacy)
	}
	if stats.Rows != 5 {
		t.Errorf("expected 5 rows, got %d", stats.Rows)
	}
	for _, k := range m.Keys() {
		if !strings.HasSuffix(k, ";") {
			t.Errorf("key %q does not end with ';'", k)
		}
	}
}

func TestNormalize_DecodesGlyph(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"&amp;", "&"},
		{"&lt;&#8402;", "<\u20d2"},
		{"&#x1D504;", "\U0001D504"},
		{"&quot;", `"`},
		{"\\", `\`},
		{"&AMP;", "&"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m, _ := Normalize(slices.Values([]RawRow{{Name: "&x;", Glyph: tt.raw}}), nil)
			got, _ := m.Get("&x;")
			if got != tt.want {
				t.Errorf("glyph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_DuplicateLaterWins(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, nil))

	table, err := Locate(readTestdata(t, "duplicates.html"))
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	m, stats := Normalize(Rows(table), log)

	if got, _ := m.Get("one;"); got != "¹" {
		t.Errorf("expected later glyph to win, got %q", got)
	}
	if keys := m.Keys(); !slices.Equal(keys, []string{"one;", "two;"}) {
		t.Errorf("expected first position to be kept, got %q", keys)
	}
	if stats.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", stats.Duplicates)
	}
	if !strings.Contains(buf.String(), "duplicate entity name") {
		t.Errorf("expected duplicate warning, got %q", buf.String())
	}
}

// --- Extract Tests ---

func TestExtract_Entities(t *testing.T) {
	m, stats, err := Extract(readTestdata(t, "entities.html"), nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if stats.Legacy != 2 {
		t.Errorf("expected 2 legacy rows, got %d", stats.Legacy)
	}
	if m.Len() != 10 {
		t.Errorf("expected 10 entities, got %d: %q", m.Len(), m.Keys())
	}

	want := map[string]string{
		"AElig;":          "Æ",
		"AMP;":            "&",
		"amp;":            "&",
		"lt;":             "<",
		"quot;":           `"`,
		"bsol;":           `\`,
		"Tab;":            "\t",
		"ZeroWidthSpace;": "\u200b",
		"nvlt;":           "<\u20d2",
		"fjlig;":          "fj",
	}
	for name, glyph := range want {
		got, ok := m.Get(name)
		if !ok {
			t.Errorf("missing entity %q", name)
			continue
		}
		if got != glyph {
			t.Errorf("%s = %q, want %q", name, got, glyph)
		}
	}
}

func TestExtract_AmpersandRow(t *testing.T) {
	doc := `<div id="named-character-references-table"><table>
<tr><td> <code>&amp;</code> <td> U+00026 <td> <span class="glyph">&amp;</span>
</table></div>`

	m, stats, err := Extract(doc, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if stats.Legacy != 0 {
		t.Errorf("expected no legacy rows, got %d", stats.Legacy)
	}
	if keys := m.Keys(); !slices.Equal(keys, []string{"&amp;"}) {
		t.Errorf("keys = %q, want [\"&amp;\"]", keys)
	}
	if got, _ := m.Get("&amp;"); got != "&" {
		t.Errorf("glyph = %q, want %q", got, "&")
	}
}

func TestExtract_EmptyTable(t *testing.T) {
	_, _, err := Extract(readTestdata(t, "empty_table.html"), nil)
	if !errors.Is(err, ErrNoEntities) {
		t.Fatalf("expected ErrNoEntities, got %v", err)
	}
	if !strings.Contains(err.Error(), "no entities found") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestExtract_OnlyLegacyRows(t *testing.T) {
	doc := `<div id="named-character-references-table"><table>
<tr><td><code>amp</code><td>U+00026<td><span>&amp;</span>
</table></div>`

	_, stats, err := Extract(doc, nil)
	if !errors.Is(err, ErrNoEntities) {
		t.Fatalf("expected ErrNoEntities, got %v", err)
	}
	if stats.Legacy != 1 {
		t.Errorf("expected 1 legacy row, got %d", stats.Legacy)
	}
}

func TestExtract_StructuralErrors(t *testing.T) {
	if _, _, err := Extract(readTestdata(t, "no_container.html"), nil); !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("expected ErrContainerNotFound, got %v", err)
	}
	if _, _, err := Extract(readTestdata(t, "no_table.html"), nil); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}
