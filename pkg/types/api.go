package types

import "fmt"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed container (e.g., bad MSF magic)
	ErrKindCorrupt                    // structural corruption (bad sizes/offsets/signatures)
	ErrKindUnsupported                // valid feature we don't support (yet)
	ErrKindNoStream                   // stream reference outside the MSF directory
	ErrKindOutOfBounds                // index beyond the end of a decoded table
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, types.ErrCorrupt)
// works for wrapped sentinels and hand-built instances alike.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels commonly returned by implementations. Decoders wrap these with
// fmt.Errorf("...: %w", ...) so the message names the failing check while the
// category stays matchable.
var (
	// ErrNotPDB indicates the file lacks a valid MSF 7.0 magic.
	ErrNotPDB = &Error{Kind: ErrKindFormat, Msg: "not a PDB file (bad MSF magic)"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt PDB structure"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported PDB feature"}
	// ErrNoStream indicates a stream reference past the MSF directory.
	ErrNoStream = &Error{Kind: ErrKindNoStream, Msg: "no such stream"}
	// ErrOutOfBounds indicates an index past the end of a decoded table.
	ErrOutOfBounds = &Error{Kind: ErrKindOutOfBounds, Msg: "index out of bounds"}
)

// -----------------------------------------------------------------------------
// Stream identity
// -----------------------------------------------------------------------------

// StreamIndex is a 16-bit stream reference as stored inside PDB streams
// (the MSF directory itself addresses streams with 32-bit numbers, but every
// cross-reference in the format is 16-bit).
type StreamIndex uint16

// InvalidStreamIndex marks an absent stream reference.
const InvalidStreamIndex StreamIndex = 0xFFFF

// Valid reports whether the index refers to an actual stream.
func (s StreamIndex) Valid() bool { return s != InvalidStreamIndex }

// Fixed stream numbers every PDB reserves, in MSF directory order.
const (
	StreamOldDirectory uint32 = 0 // previous MSF directory (ignored)
	StreamPDB          uint32 = 1 // PDB info stream (version, age, GUID, named streams)
	StreamTPI          uint32 = 2 // type info
	StreamDBI          uint32 = 3 // debug info
	StreamIPI          uint32 = 4 // id info
)

// -----------------------------------------------------------------------------
// Format versions
// -----------------------------------------------------------------------------

// InfoVersion is the implementation version stamped into the PDB info stream.
type InfoVersion uint32

const (
	InfoVC2     InfoVersion = 19941610
	InfoVC4     InfoVersion = 19950623
	InfoVC41    InfoVersion = 19950814
	InfoVC50    InfoVersion = 19960307
	InfoVC98    InfoVersion = 19970604
	InfoVC70Dep InfoVersion = 19990604 // deprecated VC70 pre-release
	InfoVC70    InfoVersion = 20000404
	InfoVC80    InfoVersion = 20030901
	InfoVC110   InfoVersion = 20091201
	InfoVC140   InfoVersion = 20140508
)

// String implements the Stringer interface for InfoVersion.
func (v InfoVersion) String() string {
	switch v {
	case InfoVC2:
		return "VC2"
	case InfoVC4:
		return "VC4"
	case InfoVC41:
		return "VC41"
	case InfoVC50:
		return "VC50"
	case InfoVC98:
		return "VC98"
	case InfoVC70Dep:
		return "VC70 (deprecated)"
	case InfoVC70:
		return "VC70"
	case InfoVC80:
		return "VC80"
	case InfoVC110:
		return "VC110"
	case InfoVC140:
		return "VC140"
	default:
		return fmt.Sprintf("UNKNOWN_VERSION_%d", uint32(v))
	}
}

// DbiVersion is the version stamp in the DBI stream header.
type DbiVersion uint32

const (
	DbiVC41 DbiVersion = 930803
	DbiV50  DbiVersion = 19960307
	DbiV60  DbiVersion = 19970606
	DbiV70  DbiVersion = 19990903
	DbiV110 DbiVersion = 20091201
)

// String implements the Stringer interface for DbiVersion.
func (v DbiVersion) String() string {
	switch v {
	case DbiVC41:
		return "VC41"
	case DbiV50:
		return "V50"
	case DbiV60:
		return "V60"
	case DbiV70:
		return "V70"
	case DbiV110:
		return "V110"
	default:
		return fmt.Sprintf("UNKNOWN_VERSION_%d", uint32(v))
	}
}

// -----------------------------------------------------------------------------
// Machine types
// -----------------------------------------------------------------------------

// MachineType enumerates COFF machine identifiers recorded in the DBI header.
// (The numbers align with the PE/COFF definitions.)
type MachineType uint16

const (
	MachineUnknown   MachineType = 0x0
	MachineAm33      MachineType = 0x13
	MachineAmd64     MachineType = 0x8664
	MachineArm       MachineType = 0x1C0
	MachineArmNT     MachineType = 0x1C4
	MachineArm64     MachineType = 0xAA64
	MachineEbc       MachineType = 0xEBC
	MachineX86       MachineType = 0x14C
	MachineIa64      MachineType = 0x200
	MachineM32R      MachineType = 0x9041
	MachineMips16    MachineType = 0x266
	MachineMipsFpu   MachineType = 0x366
	MachineMipsFpu16 MachineType = 0x466
	MachinePowerPC   MachineType = 0x1F0
	MachinePowerPCFP MachineType = 0x1F1
	MachineR4000     MachineType = 0x166
	MachineSH3       MachineType = 0x1A2
	MachineSH3DSP    MachineType = 0x1A3
	MachineSH4       MachineType = 0x1A6
	MachineSH5       MachineType = 0x1A8
	MachineThumb     MachineType = 0x1C2
	MachineWceMipsV2 MachineType = 0x169
	MachineInvalid   MachineType = 0xFFFF
)

// String implements the Stringer interface for MachineType.
func (m MachineType) String() string {
	switch m {
	case MachineUnknown:
		return "Unknown"
	case MachineAm33:
		return "Am33"
	case MachineAmd64:
		return "x64"
	case MachineArm:
		return "ARM"
	case MachineArmNT:
		return "ARMNT"
	case MachineArm64:
		return "ARM64"
	case MachineEbc:
		return "EBC"
	case MachineX86:
		return "x86"
	case MachineIa64:
		return "IA64"
	case MachineM32R:
		return "M32R"
	case MachineMips16:
		return "MIPS16"
	case MachineMipsFpu:
		return "MIPS-FPU"
	case MachineMipsFpu16:
		return "MIPS-FPU16"
	case MachinePowerPC:
		return "PowerPC"
	case MachinePowerPCFP:
		return "PowerPC-FP"
	case MachineR4000:
		return "R4000"
	case MachineSH3:
		return "SH3"
	case MachineSH3DSP:
		return "SH3-DSP"
	case MachineSH4:
		return "SH4"
	case MachineSH5:
		return "SH5"
	case MachineThumb:
		return "Thumb"
	case MachineWceMipsV2:
		return "WCE-MIPSv2"
	case MachineInvalid:
		return "Invalid"
	default:
		return fmt.Sprintf("UNKNOWN_MACHINE_0x%X", uint16(m))
	}
}

// -----------------------------------------------------------------------------
// Optional debug streams
// -----------------------------------------------------------------------------

// DbgStreamKind names the slots of the optional debug stream index array at
// the tail of the DBI stream. Each slot holds a StreamIndex (or
// InvalidStreamIndex when the producer did not emit that stream).
type DbgStreamKind int

const (
	DbgFPO DbgStreamKind = iota
	DbgException
	DbgFixup
	DbgOmapToSrc
	DbgOmapFromSrc
	DbgSectionHdr
	DbgTokenRidMap
	DbgXdata
	DbgPdata
	DbgNewFPO
	DbgSectionHdrOrig

	// DbgKindCount is the number of well-known slots.
	DbgKindCount
)

// String implements the Stringer interface for DbgStreamKind.
func (k DbgStreamKind) String() string {
	switch k {
	case DbgFPO:
		return "FPO"
	case DbgException:
		return "Exception"
	case DbgFixup:
		return "Fixup"
	case DbgOmapToSrc:
		return "OmapToSrc"
	case DbgOmapFromSrc:
		return "OmapFromSrc"
	case DbgSectionHdr:
		return "SectionHdr"
	case DbgTokenRidMap:
		return "TokenRidMap"
	case DbgXdata:
		return "Xdata"
	case DbgPdata:
		return "Pdata"
	case DbgNewFPO:
		return "NewFPO"
	case DbgSectionHdrOrig:
		return "SectionHdrOrig"
	default:
		return fmt.Sprintf("UNKNOWN_DBG_STREAM_%d", int(k))
	}
}

// -----------------------------------------------------------------------------
// Decoded records
// -----------------------------------------------------------------------------

// GUID is a Windows GUID in its on-disk (mixed-endian) layout.
type GUID [16]byte

// String renders the GUID in registry style, honoring the little-endian
// layout of the first three components.
func (g GUID) String() string {
	return fmt.Sprintf("{%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g[3], g[2], g[1], g[0],
		g[5], g[4],
		g[7], g[6],
		g[8], g[9],
		g[10], g[11], g[12], g[13], g[14], g[15])
}

// SectionContrib describes the bytes one module contributed to an image
// section (the V60 on-disk record, minus its internal padding).
type SectionContrib struct {
	Section         uint16 // 1-based image section index
	Offset          int32  // offset of the contribution within the section
	Size            int32  // contribution size in bytes
	Characteristics uint32 // COFF section characteristics
	ModuleIndex     uint16 // index into the DBI module list
	DataCrc         uint32
	RelocCrc        uint32
}

// SectionContrib2 is the V2 contribution record, which adds the COFF section
// index of the originating object file.
type SectionContrib2 struct {
	SectionContrib
	CoffSectionIndex uint32
}

// Section map entry flags (OMF segment descriptor bits).
const (
	SecMapRead              uint16 = 1 << 0
	SecMapWrite             uint16 = 1 << 1
	SecMapExecute           uint16 = 1 << 2
	SecMapAddressIs32Bit    uint16 = 1 << 3
	SecMapIsSelector        uint16 = 1 << 8
	SecMapIsAbsoluteAddress uint16 = 1 << 9
	SecMapIsGroup           uint16 = 1 << 10
)

// SectionMapEntry is one descriptor from the DBI section map substream.
type SectionMapEntry struct {
	Flags         uint16
	Ovl           uint16 // logical overlay number
	Group         uint16 // group index into the descriptor array
	Frame         uint16
	SectionName   uint16 // byte index of the name, 0xFFFF if none
	ClassName     uint16 // byte index of the class name, 0xFFFF if none
	Offset        uint32 // byte offset of the logical segment
	SectionLength uint32 // byte count of the segment or group
}

// SectionHeader is a COFF section header as stored in the optional
// section-header debug stream.
type SectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// NameString returns the section name with trailing NULs stripped.
func (s SectionHeader) NameString() string {
	for i, b := range s.Name {
		if b == 0 {
			return string(s.Name[:i])
		}
	}
	return string(s.Name[:])
}

// FpoRecord is one frame pointer omission record from the new FPO debug
// stream. The last word packs several bit fields; accessors unpack them.
type FpoRecord struct {
	Offset     uint32 // offset of the first byte of the function
	ProcSize   uint32 // function size in bytes
	NumLocals  uint32 // size of locals, in dwords
	NumParams  uint16 // size of parameters, in dwords
	Attributes uint16
}

// PrologSize returns the byte count of the function prolog.
func (f FpoRecord) PrologSize() uint16 { return f.Attributes & 0x00FF }

// SavedRegsCount returns the number of saved registers.
func (f FpoRecord) SavedRegsCount() uint16 { return (f.Attributes >> 8) & 0x7 }

// HasSEH reports whether the function uses structured exception handling.
func (f FpoRecord) HasSEH() bool { return f.Attributes&(1<<11) != 0 }

// UseBP reports whether the function allocates the base pointer.
func (f FpoRecord) UseBP() bool { return f.Attributes&(1<<12) != 0 }

// FrameType returns the frame type (0=FPO, 1=Trap, 2=TSS, 3=NonFPO).
func (f FpoRecord) FrameType() uint16 { return f.Attributes >> 14 }
