package format

import (
	"fmt"

	"github.com/joshuapare/pdbkit/pkg/types"
)

// DbiHeader is the fixed 64-byte header at the start of the DBI stream.
// The structure is shown below:
//
//	Offset  Size  Field
//	0x00    4     Version signature, always -1
//	0x04    4     Version header (DbiVersion)
//	0x08    4     Age, must match the info stream age
//	0x0C    2     Global symbol stream number
//	0x0E    2     Build number (packed, see Build* accessors)
//	0x10    2     Public symbol stream number
//	0x12    2     Version of mspdbNNN.dll
//	0x14    2     Symbol record stream number
//	0x16    2     Rbld number of mspdbNNN.dll
//	0x18    4     Module info substream size
//	0x1C    4     Section contribution substream size
//	0x20    4     Section map substream size
//	0x24    4     File info substream size
//	0x28    4     Type server map substream size
//	0x2C    4     MFC type server index
//	0x30    4     Optional debug header array size
//	0x34    4     EC substream size
//	0x38    2     Flags
//	0x3A    2     COFF machine type
//	0x3C    4     Reserved, pad to 64 bytes
type DbiHeader struct {
	VersionSignature int32
	VersionHeader    uint32
	Age              uint32
	GlobalSymStream  uint16
	BuildNumber      uint16
	PublicSymStream  uint16
	PdbDllVersion    uint16
	SymRecordStream  uint16
	PdbDllRbld       uint16
	ModiSize         int32
	SecContrSize     int32
	SecMapSize       int32
	FileInfoSize     int32
	TypeServerSize   int32
	MFCTypeServer    uint32
	DbgHeaderSize    int32
	ECSubstreamSize  int32
	Flags            uint16
	Machine          uint16
}

// DecodeDbiHeader decodes the fixed header. Validation beyond the length
// check is left to Validate so callers can report the stream context.
func DecodeDbiHeader(b []byte) (DbiHeader, error) {
	if len(b) < DbiHeaderSize {
		return DbiHeader{}, fmt.Errorf("dbi header: %w (have %d, need %d)", ErrTruncated, len(b), DbiHeaderSize)
	}
	return DbiHeader{
		VersionSignature: ReadI32(b, DbiVersionSignatureOffset),
		VersionHeader:    ReadU32(b, DbiVersionHeaderOffset),
		Age:              ReadU32(b, DbiAgeOffset),
		GlobalSymStream:  ReadU16(b, DbiGlobalSymStreamOffset),
		BuildNumber:      ReadU16(b, DbiBuildNumberOffset),
		PublicSymStream:  ReadU16(b, DbiPublicSymStreamOffset),
		PdbDllVersion:    ReadU16(b, DbiPdbDllVersionOffset),
		SymRecordStream:  ReadU16(b, DbiSymRecordStreamOffset),
		PdbDllRbld:       ReadU16(b, DbiPdbDllRbldOffset),
		ModiSize:         ReadI32(b, DbiModiSizeOffset),
		SecContrSize:     ReadI32(b, DbiSecContrSizeOffset),
		SecMapSize:       ReadI32(b, DbiSecMapSizeOffset),
		FileInfoSize:     ReadI32(b, DbiFileInfoSizeOffset),
		TypeServerSize:   ReadI32(b, DbiTypeServerSizeOffset),
		MFCTypeServer:    ReadU32(b, DbiMFCTypeServerOffset),
		DbgHeaderSize:    ReadI32(b, DbiDbgHeaderSizeOffset),
		ECSubstreamSize:  ReadI32(b, DbiECSubstreamSizeOffset),
		Flags:            ReadU16(b, DbiFlagsOffset),
		Machine:          ReadU16(b, DbiMachineOffset),
	}, nil
}

// Validate cross-checks the header against the full stream length and the
// age recorded in the info stream. Checks run in a fixed order so the first
// violated invariant is the one reported.
func (h DbiHeader) Validate(streamLen int, infoAge uint32) error {
	if h.VersionSignature != DbiVersionSignature {
		return fmt.Errorf("dbi header: version signature %d: %w", h.VersionSignature, ErrSignatureMismatch)
	}
	if h.VersionHeader < uint32(types.DbiV70) {
		return fmt.Errorf("dbi header: version %d predates V70: %w", h.VersionHeader, ErrUnsupported)
	}
	if h.Age != infoAge {
		return fmt.Errorf("dbi header: age %d does not match info stream age %d: %w", h.Age, infoAge, ErrMismatch)
	}
	for _, s := range []struct {
		name string
		size int32
	}{
		{"module info", h.ModiSize},
		{"section contribution", h.SecContrSize},
		{"section map", h.SecMapSize},
		{"file info", h.FileInfoSize},
		{"type server map", h.TypeServerSize},
		{"debug header", h.DbgHeaderSize},
		{"EC", h.ECSubstreamSize},
	} {
		if s.size < 0 {
			return fmt.Errorf("dbi header: negative %s substream size %d: %w", s.name, s.size, ErrSizeMismatch)
		}
	}
	want := int64(DbiHeaderSize) + int64(h.ModiSize) + int64(h.SecContrSize) +
		int64(h.SecMapSize) + int64(h.FileInfoSize) + int64(h.TypeServerSize) +
		int64(h.DbgHeaderSize) + int64(h.ECSubstreamSize)
	if int64(streamLen) != want {
		return fmt.Errorf("dbi header: stream length %d does not equal substream sum %d: %w",
			streamLen, want, ErrSizeMismatch)
	}
	// Only these substreams carry an alignment guarantee.
	for _, s := range []struct {
		name string
		size int32
	}{
		{"module info", h.ModiSize},
		{"section contribution", h.SecContrSize},
		{"section map", h.SecMapSize},
		{"file info", h.FileInfoSize},
		{"type server map", h.TypeServerSize},
	} {
		if s.size%SubstreamAlign != 0 {
			return fmt.Errorf("dbi header: %s substream size %d not %d-byte aligned: %w",
				s.name, s.size, SubstreamAlign, ErrMisaligned)
		}
	}
	return nil
}

// BuildMajor returns the major toolchain version from the packed build number.
func (h DbiHeader) BuildMajor() uint16 {
	return (h.BuildNumber & DbiBuildMajorMask) >> DbiBuildMajorShift
}

// BuildMinor returns the minor toolchain version from the packed build number.
func (h DbiHeader) BuildMinor() uint16 {
	return h.BuildNumber & DbiBuildMinorMask
}

// IsIncrementallyLinked reports whether the image was linked incrementally.
func (h DbiHeader) IsIncrementallyLinked() bool { return h.Flags&DbiFlagIncremental != 0 }

// IsStripped reports whether private symbols were stripped.
func (h DbiHeader) IsStripped() bool { return h.Flags&DbiFlagStripped != 0 }

// HasCTypes reports whether the image was linked with /debug:ctypes.
func (h DbiHeader) HasCTypes() bool { return h.Flags&DbiFlagHasCTypes != 0 }
