package format

import (
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// ModInfoRecord is one variable-length module info record. The fixed 64-byte
// prefix is followed by two NUL-terminated strings (module name, then object
// file name) and padding up to the next 4-byte boundary relative to the
// start of the record.
type ModInfoRecord struct {
	Contrib        types.SectionContrib
	Flags          uint16
	SymStream      types.StreamIndex
	SymByteSize    uint32
	C11ByteSize    uint32
	C13ByteSize    uint32
	DeclaredFiles  uint16 // declared source file count, unreliable
	SrcFileNameNI  uint32
	PdbFilePathNI  uint32
	ModuleNameRaw  []byte
	ObjFileNameRaw []byte
}

// DecodeModInfo decodes the record at the start of b and returns it together
// with the total byte count it occupies (prefix, strings and alignment pad).
func DecodeModInfo(b []byte) (ModInfoRecord, int, error) {
	if len(b) < ModInfoFixedSize {
		return ModInfoRecord{}, 0, fmt.Errorf("modinfo: %w (have %d, need %d)", ErrTruncated, len(b), ModInfoFixedSize)
	}

	rec := ModInfoRecord{
		Contrib:       DecodeSectionContrib(b[ModInfoContribOffset:]),
		Flags:         ReadU16(b, ModInfoFlagsOffset),
		SymStream:     types.StreamIndex(ReadU16(b, ModInfoStreamOffset)),
		SymByteSize:   ReadU32(b, ModInfoSymBytesOffset),
		C11ByteSize:   ReadU32(b, ModInfoLineBytesOffset),
		C13ByteSize:   ReadU32(b, ModInfoC13BytesOffset),
		DeclaredFiles: ReadU16(b, ModInfoNumFilesOffset),
		SrcFileNameNI: ReadU32(b, ModInfoSrcFileNameNIOffset),
		PdbFilePathNI: ReadU32(b, ModInfoPdbFilePathNIOffset),
	}

	r := buf.NewReader(b)
	if err := r.SetOffset(ModInfoNamesOffset); err != nil {
		return ModInfoRecord{}, 0, err
	}
	name, err := r.ReadCString()
	if err != nil {
		return ModInfoRecord{}, 0, fmt.Errorf("modinfo module name: %w", ErrTruncated)
	}
	objFile, err := r.ReadCString()
	if err != nil {
		return ModInfoRecord{}, 0, fmt.Errorf("modinfo object file name: %w", ErrTruncated)
	}
	rec.ModuleNameRaw = name
	rec.ObjFileNameRaw = objFile

	// Records are padded so the next one starts 4-byte aligned. The pad
	// bytes may be missing at the very end of the substream.
	size := r.Offset()
	size = (size + 3) &^ 3
	if size > len(b) {
		size = len(b)
	}
	return rec, size, nil
}
