// Package format houses low-level decoders for the on-disk structures of
// Microsoft program database (PDB) files: the MSF container superblock, the
// DBI stream header with its substream records, the info stream, and the
// string table. The goal is to keep the parsing focused, allocation-free
// where possible, and independent from the public API so higher-level
// packages can orchestrate the data in a more ergonomic form.
package format

// MSFMagic is the 32-byte signature at the start of every MSF 7.0 file.
var MSFMagic = []byte("Microsoft C/C++ MSF 7.00\r\n\x1aDS\x00\x00\x00")

// ============================================================================
// MSF SuperBlock Constants
// ============================================================================
// Field offsets within the 56-byte superblock at the start of the file.
const (
	MSFMagicSize = 32

	SBBlockSizeOffset      = 0x20 // u32, bytes per block (512/1024/2048/4096)
	SBFreeBlockMapOffset   = 0x24 // u32, active free block map (1 or 2)
	SBNumBlocksOffset      = 0x28 // u32, total blocks in the file
	SBDirectoryBytesOffset = 0x2C // u32, byte size of the stream directory
	SBUnknownOffset        = 0x30 // u32, unknown/reserved
	SBBlockMapAddrOffset   = 0x34 // u32, block index of the directory block map

	SuperBlockSize = SBBlockMapAddrOffset + 4 // 56 bytes
)

// ============================================================================
// DBI Stream Header Constants
// ============================================================================
// Field offsets within the fixed 64-byte DBI header.
const (
	DbiVersionSignatureOffset = 0x00 // i32, always -1
	DbiVersionHeaderOffset    = 0x04 // u32, DbiVersion
	DbiAgeOffset              = 0x08 // u32, must match the info stream age
	DbiGlobalSymStreamOffset  = 0x0C // u16, global symbol stream number
	DbiBuildNumberOffset      = 0x0E // u16, packed toolchain build number
	DbiPublicSymStreamOffset  = 0x10 // u16, public symbol stream number
	DbiPdbDllVersionOffset    = 0x12 // u16, version of mspdbNNN.dll
	DbiSymRecordStreamOffset  = 0x14 // u16, symbol record stream number
	DbiPdbDllRbldOffset       = 0x16 // u16, rbld number of mspdbNNN.dll
	DbiModiSizeOffset         = 0x18 // i32, module info substream size
	DbiSecContrSizeOffset     = 0x1C // i32, section contribution substream size
	DbiSecMapSizeOffset       = 0x20 // i32, section map substream size
	DbiFileInfoSizeOffset     = 0x24 // i32, file info substream size
	DbiTypeServerSizeOffset   = 0x28 // i32, type server map substream size
	DbiMFCTypeServerOffset    = 0x2C // u32, index of the MFC type server
	DbiDbgHeaderSizeOffset    = 0x30 // i32, optional debug header array size
	DbiECSubstreamSizeOffset  = 0x34 // i32, EC substream size
	DbiFlagsOffset            = 0x38 // u16, DbiFlag* bits
	DbiMachineOffset          = 0x3A // u16, COFF machine type
	DbiReservedOffset         = 0x3C // u32, pad to 64 bytes

	DbiHeaderSize = DbiReservedOffset + 4 // 64 bytes
)

// DbiVersionSignature is the magic value of the header's first field.
const DbiVersionSignature = -1

// DBI header flag bits.
const (
	DbiFlagIncremental = 0x0001 // linked incrementally
	DbiFlagStripped    = 0x0002 // private symbols stripped
	DbiFlagHasCTypes   = 0x0004 // linked with /debug:ctypes
)

// BuildNumber packs the toolchain version: minor in the low byte, major in
// the next seven bits. The top bit flags the post-VC50 numbering scheme.
const (
	DbiBuildMinorMask  = 0x00FF
	DbiBuildMajorMask  = 0x7F00
	DbiBuildMajorShift = 8
)

// SubstreamAlign is the required alignment of the size-checked substreams.
const SubstreamAlign = 4

// ============================================================================
// Module Info Record Constants
// ============================================================================
// Field offsets within the fixed 64-byte prefix of a module info record.
// The prefix is followed by two NUL-terminated strings (module name, then
// object file name) and padding up to the next 4-byte boundary.
const (
	ModInfoModOffset           = 0x00 // u32, runtime pointer echo, ignored
	ModInfoContribOffset       = 0x04 // 28-byte first section contribution
	ModInfoFlagsOffset         = 0x20 // u16, dirty/EC flags and TSM index
	ModInfoStreamOffset        = 0x22 // u16, debug stream holding the module symbols
	ModInfoSymBytesOffset      = 0x24 // u32, symbol record bytes in that stream
	ModInfoLineBytesOffset     = 0x28 // u32, C11 line info bytes
	ModInfoC13BytesOffset      = 0x2C // u32, C13 line info bytes
	ModInfoNumFilesOffset      = 0x30 // u16, declared source file count (unreliable)
	ModInfoPadding1Offset      = 0x32 // u16, pad
	ModInfoFileNameOffsOffset  = 0x34 // u32, file name offset echo, ignored
	ModInfoSrcFileNameNIOffset = 0x38 // u32, name index of the source file name
	ModInfoPdbFilePathNIOffset = 0x3C // u32, name index of the compile-time PDB path
	ModInfoNamesOffset         = 0x40 // c-strings start here

	ModInfoFixedSize = ModInfoNamesOffset // 64 bytes
)

// ============================================================================
// Section Contribution Constants
// ============================================================================
// Version tags for the section contribution substream. All recognized tags
// are offset by the same base constant.
const (
	SecContribVerBase uint32 = 0xeffe0000

	SecContribVer60 = SecContribVerBase + 19970605
	SecContribVer2  = SecContribVerBase + 20140516
)

// Field offsets within a V60 section contribution record. The V2 record is
// the V60 record plus a trailing u32 COFF section index.
const (
	SecContribISectOffset    = 0x00 // u16, 1-based section index (2 bytes pad follow)
	SecContribOffOffset      = 0x04 // i32, offset within the section
	SecContribSizeOffset     = 0x08 // i32, contribution byte count
	SecContribCharsOffset    = 0x0C // u32, COFF characteristics
	SecContribImodOffset     = 0x10 // u16, owning module index (2 bytes pad follow)
	SecContribDataCrcOffset  = 0x14 // u32
	SecContribRelocCrcOffset = 0x18 // u32

	SecContribSize  = 28
	SecContrib2Size = SecContribSize + 4 // + u32 ISectCoff
)

// ============================================================================
// Section Map Constants
// ============================================================================
const (
	SecMapCountOffset    = 0x00 // u16, number of descriptors
	SecMapLogCountOffset = 0x02 // u16, number of logical descriptors, unused

	SecMapHeaderSize = 4

	SecMapFlagsOffset   = 0x00 // u16
	SecMapOvlOffset     = 0x02 // u16
	SecMapGroupOffset   = 0x04 // u16
	SecMapFrameOffset   = 0x06 // u16
	SecMapSecNameOffset = 0x08 // u16, 0xFFFF if none
	SecMapClassOffset   = 0x0A // u16, 0xFFFF if none
	SecMapOffsetOffset  = 0x0C // u32
	SecMapLengthOffset  = 0x10 // u32

	SecMapEntrySize = 20
)

// ============================================================================
// File Info Substream Constants
// ============================================================================
const (
	FileInfoNumModulesOffset = 0x00 // u16, must match the discovered module count
	FileInfoNumSourcesOffset = 0x02 // u16, declared source file count (discarded)

	FileInfoHeaderSize = 4
)

// ============================================================================
// Debug Stream Index Array Constants
// ============================================================================
const (
	// DbgStreamSlotSize is the byte width of one slot of the optional debug
	// stream index array at the tail of the DBI stream.
	DbgStreamSlotSize = 2
)

// ============================================================================
// Auxiliary Stream Record Constants
// ============================================================================
const (
	// CoffSectionSize is the byte size of one COFF section header in the
	// section header debug stream.
	CoffSectionSize = 40

	// CoffNameSize is the byte size of the inline section name.
	CoffNameSize = 8

	// FpoRecordSize is the byte size of one record in the new FPO stream.
	FpoRecordSize = 16
)

// ============================================================================
// Info Stream Constants
// ============================================================================
const (
	InfoVersionOffset   = 0x00 // u32, InfoVersion
	InfoSignatureOffset = 0x04 // u32, timestamp at creation
	InfoAgeOffset       = 0x08 // u32, bumped on every incremental link
	InfoGuidOffset      = 0x0C // 16-byte GUID

	GuidSize       = 16
	InfoHeaderSize = InfoGuidOffset + GuidSize // 28 bytes
)

// ============================================================================
// String Table (EC names) Constants
// ============================================================================
const (
	// StringTableSignature is the magic leading the serialized string table.
	StringTableSignature uint32 = 0xEFFEEFFE

	// Supported string table hash versions.
	StringTableHashV1 uint32 = 1
	StringTableHashV2 uint32 = 2

	StringTableSigOffset     = 0x00 // u32
	StringTableVersionOffset = 0x04 // u32
	StringTableSizeOffset    = 0x08 // u32, byte size of the names buffer

	StringTableHeaderSize = 12
)
