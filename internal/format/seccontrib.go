package format

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pkg/types"
)

// DecodeSectionContrib decodes one V60 contribution record. The caller must
// guarantee at least SecContribSize bytes; the module info prefix embeds the
// record at a length-checked offset.
func DecodeSectionContrib(b []byte) types.SectionContrib {
	return types.SectionContrib{
		Section:         ReadU16(b, SecContribISectOffset),
		Offset:          ReadI32(b, SecContribOffOffset),
		Size:            ReadI32(b, SecContribSizeOffset),
		Characteristics: ReadU32(b, SecContribCharsOffset),
		ModuleIndex:     ReadU16(b, SecContribImodOffset),
		DataCrc:         ReadU32(b, SecContribDataCrcOffset),
		RelocCrc:        ReadU32(b, SecContribRelocCrcOffset),
	}
}

// SectionContribs holds the decoded section contribution substream. Exactly
// one of the two arrays is populated, selected by Version.
type SectionContribs struct {
	Version uint32
	V60     []types.SectionContrib
	V2      []types.SectionContrib2
}

// DecodeSectionContribs decodes the section contribution substream: a 4-byte
// version tag followed by a tightly packed array of the tagged record type.
func DecodeSectionContribs(b []byte) (SectionContribs, error) {
	ver, err := CheckedReadU32(b, 0)
	if err != nil {
		return SectionContribs{}, fmt.Errorf("section contributions: %w", err)
	}
	rest := b[4:]

	switch ver {
	case SecContribVer60:
		if len(rest)%SecContribSize != 0 {
			return SectionContribs{}, fmt.Errorf("section contributions: %d bytes not a multiple of %d: %w",
				len(rest), SecContribSize, ErrSizeMismatch)
		}
		out := make([]types.SectionContrib, len(rest)/SecContribSize)
		for i := range out {
			out[i] = DecodeSectionContrib(rest[i*SecContribSize:])
		}
		return SectionContribs{Version: ver, V60: out}, nil

	case SecContribVer2:
		if len(rest)%SecContrib2Size != 0 {
			return SectionContribs{}, fmt.Errorf("section contributions: %d bytes not a multiple of %d: %w",
				len(rest), SecContrib2Size, ErrSizeMismatch)
		}
		out := make([]types.SectionContrib2, len(rest)/SecContrib2Size)
		for i := range out {
			rec := rest[i*SecContrib2Size:]
			out[i] = types.SectionContrib2{
				SectionContrib:   DecodeSectionContrib(rec),
				CoffSectionIndex: ReadU32(rec, SecContribSize),
			}
		}
		return SectionContribs{Version: ver, V2: out}, nil
	}
	return SectionContribs{}, fmt.Errorf("section contributions: version tag 0x%08x: %w", ver, ErrUnsupported)
}
