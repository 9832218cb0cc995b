package format

import (
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// DecodeSectionMap decodes the section map substream: a 4-byte header with
// the descriptor count, then that many 20-byte entries. There is no second
// source of truth for the count, so it is trusted but bounds-checked against
// the region length. Trailing bytes beyond the declared entries are ignored,
// matching the original sub-reader behavior.
func DecodeSectionMap(b []byte) ([]types.SectionMapEntry, error) {
	count, err := CheckedReadU16(b, SecMapCountOffset)
	if err != nil {
		return nil, fmt.Errorf("section map header: %w", err)
	}
	// SecMapLogCountOffset holds the logical descriptor count, unused.

	if _, err := buf.CheckListBounds(len(b), SecMapHeaderSize, int(count), SecMapEntrySize); err != nil {
		return nil, fmt.Errorf("section map: %d entries: %v: %w", count, err, ErrTruncated)
	}
	out := make([]types.SectionMapEntry, count)
	for i := range out {
		e := b[SecMapHeaderSize+i*SecMapEntrySize:]
		out[i] = types.SectionMapEntry{
			Flags:         ReadU16(e, SecMapFlagsOffset),
			Ovl:           ReadU16(e, SecMapOvlOffset),
			Group:         ReadU16(e, SecMapGroupOffset),
			Frame:         ReadU16(e, SecMapFrameOffset),
			SectionName:   ReadU16(e, SecMapSecNameOffset),
			ClassName:     ReadU16(e, SecMapClassOffset),
			Offset:        ReadU32(e, SecMapOffsetOffset),
			SectionLength: ReadU32(e, SecMapLengthOffset),
		}
	}
	return out, nil
}
