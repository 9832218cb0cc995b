package pdb

import (
	"errors"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// NameTable is a parsed PDB string table, as carried by the DBI stream's EC
// substream. IDs are byte offsets into a shared names buffer; strings are
// resolved on demand rather than pre-materialized.
type NameTable struct {
	table format.StringTable
}

func loadNameTable(b []byte) (*NameTable, error) {
	table, err := format.DecodeStringTable(b)
	if err != nil {
		if errors.Is(err, format.ErrUnsupported) {
			return nil, fmt.Errorf("EC name table: %v: %w", err, types.ErrUnsupported)
		}
		return nil, fmt.Errorf("EC name table: %v: %w", err, types.ErrCorrupt)
	}
	return &NameTable{table: table}, nil
}

// Count returns the number of names the table declares.
func (t *NameTable) Count() uint32 { return t.table.NameCount }

// StringForID resolves a name ID (a byte offset into the names buffer).
func (t *NameTable) StringForID(id uint32) (string, error) {
	raw, err := t.table.StringForID(id)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, types.ErrCorrupt)
	}
	return decodeName(raw), nil
}
