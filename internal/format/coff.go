package format

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pkg/types"
)

// COFF structures reach this package only through auxiliary debug streams;
// both record types are fixed-size verbatim copies of the PE/COFF layout.

// DecodeSectionHeaders decodes the section header debug stream as a packed
// array of 40-byte COFF section headers.
func DecodeSectionHeaders(b []byte) ([]types.SectionHeader, error) {
	if len(b)%CoffSectionSize != 0 {
		return nil, fmt.Errorf("section header stream: %d bytes not a multiple of %d: %w",
			len(b), CoffSectionSize, ErrSizeMismatch)
	}
	out := make([]types.SectionHeader, len(b)/CoffSectionSize)
	for i := range out {
		s := b[i*CoffSectionSize:]
		h := types.SectionHeader{
			VirtualSize:          ReadU32(s, 0x08),
			VirtualAddress:       ReadU32(s, 0x0C),
			SizeOfRawData:        ReadU32(s, 0x10),
			PointerToRawData:     ReadU32(s, 0x14),
			PointerToRelocations: ReadU32(s, 0x18),
			PointerToLinenumbers: ReadU32(s, 0x1C),
			NumberOfRelocations:  ReadU16(s, 0x20),
			NumberOfLinenumbers:  ReadU16(s, 0x22),
			Characteristics:      ReadU32(s, 0x24),
		}
		copy(h.Name[:], s[:CoffNameSize])
		out[i] = h
	}
	return out, nil
}

// DecodeFpoRecords decodes the new FPO debug stream as a packed array of
// 16-byte frame data records.
func DecodeFpoRecords(b []byte) ([]types.FpoRecord, error) {
	if len(b)%FpoRecordSize != 0 {
		return nil, fmt.Errorf("FPO stream: %d bytes not a multiple of %d: %w",
			len(b), FpoRecordSize, ErrSizeMismatch)
	}
	out := make([]types.FpoRecord, len(b)/FpoRecordSize)
	for i := range out {
		r := b[i*FpoRecordSize:]
		out[i] = types.FpoRecord{
			Offset:     ReadU32(r, 0x00),
			ProcSize:   ReadU32(r, 0x04),
			NumLocals:  ReadU32(r, 0x08),
			NumParams:  ReadU16(r, 0x0C),
			Attributes: ReadU16(r, 0x0E),
		}
	}
	return out, nil
}
