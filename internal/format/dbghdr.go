package format

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pkg/types"
)

// DbgStreamTable is the optional debug header array at the tail of the DBI
// stream: one 16-bit stream index per well-known debug stream kind. A slot
// holding types.InvalidStreamIndex (or a slot past the end of a short table)
// means the producer did not emit that stream.
type DbgStreamTable []types.StreamIndex

// DecodeDbgStreamTable decodes size bytes of b as the debug header array.
func DecodeDbgStreamTable(b []byte, size int) (DbgStreamTable, error) {
	if size%DbgStreamSlotSize != 0 {
		return nil, fmt.Errorf("debug header array: odd size %d: %w", size, ErrSizeMismatch)
	}
	if size > len(b) {
		return nil, fmt.Errorf("debug header array: %w (have %d, need %d)", ErrTruncated, len(b), size)
	}
	out := make(DbgStreamTable, size/DbgStreamSlotSize)
	for i := range out {
		out[i] = types.StreamIndex(ReadU16(b, i*DbgStreamSlotSize))
	}
	return out, nil
}

// Lookup returns the stream index recorded for kind, or InvalidStreamIndex
// when the table has no such slot.
func (t DbgStreamTable) Lookup(kind types.DbgStreamKind) types.StreamIndex {
	if int(kind) < 0 || int(kind) >= len(t) {
		return types.InvalidStreamIndex
	}
	return t[kind]
}
