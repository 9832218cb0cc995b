package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/pdbkit/pkg/types"
)

// SuperBlock captures the MSF container header at the start of every PDB
// file. The structure is shown below:
//
//	Offset  Size  Field
//	0x00    32    Magic "Microsoft C/C++ MSF 7.00\r\n\x1aDS\0\0\0"
//	0x20    4     Block size (512, 1024, 2048 or 4096)
//	0x24    4     Active free block map (1 or 2)
//	0x28    4     Number of blocks in the file
//	0x2C    4     Byte size of the stream directory
//	0x30    4     Unknown/reserved
//	0x34    4     Block index of the directory block map
type SuperBlock struct {
	BlockSize         uint32
	FreeBlockMapBlock uint32
	NumBlocks         uint32
	NumDirectoryBytes uint32
	Unknown           uint32
	BlockMapAddr      uint32
}

// DecodeSuperBlock decodes and magic-checks the superblock.
func DecodeSuperBlock(b []byte) (SuperBlock, error) {
	if len(b) < SuperBlockSize {
		return SuperBlock{}, fmt.Errorf("superblock: %w (have %d, need %d)", ErrTruncated, len(b), SuperBlockSize)
	}
	if !bytes.Equal(b[:MSFMagicSize], MSFMagic) {
		return SuperBlock{}, fmt.Errorf("superblock: %w", ErrSignatureMismatch)
	}
	return SuperBlock{
		BlockSize:         ReadU32(b, SBBlockSizeOffset),
		FreeBlockMapBlock: ReadU32(b, SBFreeBlockMapOffset),
		NumBlocks:         ReadU32(b, SBNumBlocksOffset),
		NumDirectoryBytes: ReadU32(b, SBDirectoryBytesOffset),
		Unknown:           ReadU32(b, SBUnknownOffset),
		BlockMapAddr:      ReadU32(b, SBBlockMapAddrOffset),
	}, nil
}

// Validate cross-checks the superblock against the actual file size.
func (sb SuperBlock) Validate(fileSize int) error {
	bs := sb.BlockSize
	if bs < types.MinBlockSize || bs > types.MaxBlockSize || bs&(bs-1) != 0 {
		return fmt.Errorf("superblock: invalid block size %d: %w", bs, ErrSizeMismatch)
	}
	if sb.FreeBlockMapBlock != 1 && sb.FreeBlockMapBlock != 2 {
		return fmt.Errorf("superblock: invalid free block map %d: %w", sb.FreeBlockMapBlock, ErrSizeMismatch)
	}
	if sb.NumBlocks == 0 || uint64(sb.NumBlocks)*uint64(bs) > uint64(fileSize) {
		return fmt.Errorf("superblock: %d blocks of %d bytes exceed %d-byte file: %w",
			sb.NumBlocks, bs, fileSize, ErrTruncated)
	}
	if sb.NumDirectoryBytes < 4 {
		return fmt.Errorf("superblock: directory of %d bytes too small: %w", sb.NumDirectoryBytes, ErrSizeMismatch)
	}
	if sb.BlockMapAddr == 0 || sb.BlockMapAddr >= sb.NumBlocks {
		return fmt.Errorf("superblock: block map address %d outside %d blocks: %w",
			sb.BlockMapAddr, sb.NumBlocks, ErrSizeMismatch)
	}
	return nil
}

// DirectoryBlockCount returns how many blocks the stream directory spans.
func (sb SuperBlock) DirectoryBlockCount() uint32 {
	return (sb.NumDirectoryBytes + sb.BlockSize - 1) / sb.BlockSize
}
