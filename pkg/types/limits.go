package types

// ============================================================================
// MSF / PDB Format Limit Constants
// ============================================================================
// These limits follow from the on-disk format itself rather than from policy:
// exceeding them makes a file unaddressable by the structures that reference
// it, so the decoders treat violations as corruption instead of allocating
// for attacker-controlled counts.

const (
	// MaxStreamCount caps the MSF directory stream count. Every stream
	// reference inside a PDB is 16-bit, so a directory with more streams
	// than this cannot be addressed by the rest of the file.
	MaxStreamCount = 0x10000

	// NilStreamSize marks a deleted stream slot in the MSF directory.
	// Such a stream occupies no blocks and reads as absent.
	NilStreamSize = 0xFFFFFFFF

	// MinBlockSize and MaxBlockSize bound the MSF block size. The format
	// only defines power-of-two block sizes between 512 bytes and 4 KiB.
	MinBlockSize = 512
	MaxBlockSize = 4096

	// MaxModuleCount caps the number of module info records. The file info
	// substream and the section contributions address modules with 16-bit
	// indices, so more modules than this cannot be cross-referenced.
	MaxModuleCount = 0x10000
)
