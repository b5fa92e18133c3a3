// Package output renders entity mappings and writes the result.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/charrefs/pkg/charref"
)

// Format represents output format types.
type Format string

const (
	FormatJSON    Format = "json"
	FormatEspanso Format = "espanso"
)

// ErrUnsupportedFormat indicates a format with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatEspanso}
}

// FormatList returns the supported formats as "json, espanso".
func FormatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Encoder renders a whole mapping into a document.
type Encoder interface {
	// Encode renders m. The result has no trailing newline.
	Encode(m *charref.Mapping) (string, error)

	// Format returns the format this encoder produces.
	Format() Format
}

// EncoderOption configures an encoder.
type EncoderOption func(*encoderConfig)

type encoderConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing (JSON only).
func WithPretty(enabled bool) EncoderOption {
	return func(c *encoderConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string (JSON only).
func WithIndent(indent string) EncoderOption {
	return func(c *encoderConfig) {
		c.indent = indent
	}
}

// NewEncoder creates an encoder for the specified format.
func NewEncoder(format Format, opts ...EncoderOption) (Encoder, error) {
	cfg := &encoderConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONEncoder(cfg.pretty, cfg.indent), nil
	case FormatEspanso:
		return NewEspansoEncoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s)", ErrUnsupportedFormat, format, FormatList())
	}
}

// Emit writes doc to w, followed by a newline when trailingNewline is set.
func Emit(w io.Writer, doc string, trailingNewline bool) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(doc); err != nil {
		return err
	}
	if trailingNewline {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
