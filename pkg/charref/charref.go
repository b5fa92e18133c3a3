// Package charref extracts the named character references table from an
// HTML document and turns it into an ordered entity-name to glyph mapping.
//
// The pipeline runs strictly forward:
//
//	Locate -> Rows -> Normalize -> Filter -> Prefix
//
// No stage modifies the Mapping it is given.
package charref

import (
	"errors"
	"fmt"
	"log/slog"
)

// ContainerID is the id attribute of the element that wraps the entities table.
const ContainerID = "named-character-references-table"

// Error types for distinguishing structural failures.
// Check with errors.Is(err, charref.ErrNoEntities).
var (
	// ErrContainerNotFound indicates no element carries ContainerID.
	ErrContainerNotFound = errors.New(`could not find element with id="` + ContainerID + `"`)
	// ErrTableNotFound indicates the container holds no table.
	ErrTableNotFound = errors.New("could not find any table in the container")
	// ErrNoEntities indicates the table produced no usable rows.
	ErrNoEntities = errors.New("no entities found in the table")
	// ErrUnsupportedFilter indicates an unknown filter mode.
	ErrUnsupportedFilter = errors.New("unsupported filter")
)

// Extract locates the entities table in doc and normalizes its rows.
// It fails with ErrNoEntities when nothing survives normalization.
func Extract(doc string, log *slog.Logger) (*Mapping, Stats, error) {
	table, err := Locate(doc)
	if err != nil {
		return nil, Stats{}, err
	}

	m, stats := Normalize(Rows(table), log)
	if m.Len() == 0 {
		return nil, stats, fmt.Errorf("%w (%d rows scanned)", ErrNoEntities, stats.Rows)
	}
	return m, stats, nil
}
