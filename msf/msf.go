// Package msf reads the Multi-Stream Format container that carries every
// PDB: a superblock, a block-mapped stream directory, and numbered streams
// whose bytes are scattered across fixed-size blocks. The package
// materializes any stream into a contiguous byte slice on demand.
package msf

import (
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// File is a parsed MSF container over an in-memory (or memory-mapped) image.
// It is safe for concurrent readers only after Parse returns; the stream
// cache is not locked.
type File struct {
	data       []byte
	super      format.SuperBlock
	streamSize []uint32   // NilStreamSize marks a deleted slot
	blocks     [][]uint32 // per-stream block lists
	cache      [][]byte   // materialized streams, filled lazily
}

// Parse reads the superblock and stream directory of an MSF image. The
// returned File keeps data aliased; callers must not mutate it.
func Parse(data []byte) (*File, error) {
	sb, err := format.DecodeSuperBlock(data)
	if err != nil {
		return nil, translate("superblock", err)
	}
	if err := sb.Validate(len(data)); err != nil {
		return nil, translate("superblock", err)
	}

	f := &File{data: data, super: sb}
	dir, err := f.readDirectoryBytes()
	if err != nil {
		return nil, err
	}
	if err := f.parseDirectory(dir); err != nil {
		return nil, err
	}
	f.cache = make([][]byte, len(f.streamSize))
	return f, nil
}

// SuperBlock returns the decoded container header.
func (f *File) SuperBlock() format.SuperBlock { return f.super }

// BlockSize returns the container block size in bytes.
func (f *File) BlockSize() uint32 { return f.super.BlockSize }

// StreamCount returns the number of directory slots, deleted slots included.
func (f *File) StreamCount() uint32 { return uint32(len(f.streamSize)) }

// StreamSize returns the byte size of stream index. Deleted streams have
// size zero.
func (f *File) StreamSize(index uint32) (uint32, error) {
	if index >= f.StreamCount() {
		return 0, fmt.Errorf("msf: stream %d of %d: %w", index, f.StreamCount(), types.ErrNoStream)
	}
	if f.streamSize[index] == types.NilStreamSize {
		return 0, nil
	}
	return f.streamSize[index], nil
}

// StreamBytes materializes stream index into a contiguous byte slice. The
// result is cached and shared between callers; treat it as read-only.
// Deleted streams read as empty.
func (f *File) StreamBytes(index uint32) ([]byte, error) {
	if index >= f.StreamCount() {
		return nil, fmt.Errorf("msf: stream %d of %d: %w", index, f.StreamCount(), types.ErrNoStream)
	}
	if f.cache[index] != nil {
		return f.cache[index], nil
	}
	size := f.streamSize[index]
	if size == types.NilStreamSize {
		size = 0
	}
	out := make([]byte, 0, size)
	remaining := int(size)
	for _, block := range f.blocks[index] {
		n := min(remaining, int(f.super.BlockSize))
		chunk, err := f.blockBytes(block, n)
		if err != nil {
			return nil, fmt.Errorf("msf: stream %d: %w", index, err)
		}
		out = append(out, chunk...)
		remaining -= n
	}
	if remaining != 0 {
		return nil, fmt.Errorf("msf: stream %d: %d bytes not covered by block list: %w",
			index, remaining, types.ErrCorrupt)
	}
	f.cache[index] = out
	return out, nil
}

// blockBytes returns the first n bytes of the given block.
func (f *File) blockBytes(block uint32, n int) ([]byte, error) {
	if block >= f.super.NumBlocks {
		return nil, fmt.Errorf("block %d outside %d-block file: %w", block, f.super.NumBlocks, types.ErrCorrupt)
	}
	off := int(block) * int(f.super.BlockSize)
	chunk, ok := buf.Slice(f.data, off, n)
	if !ok {
		return nil, fmt.Errorf("block %d (%d bytes at %d) past end of file: %w", block, n, off, types.ErrCorrupt)
	}
	return chunk, nil
}

// readDirectoryBytes assembles the stream directory from the block map the
// superblock points at.
func (f *File) readDirectoryBytes() ([]byte, error) {
	mapBytes, err := f.blockBytes(f.super.BlockMapAddr, int(f.super.DirectoryBlockCount())*4)
	if err != nil {
		return nil, fmt.Errorf("msf: directory block map: %w", err)
	}
	dir := make([]byte, 0, f.super.NumDirectoryBytes)
	remaining := int(f.super.NumDirectoryBytes)
	for off := 0; off < len(mapBytes); off += 4 {
		n := min(remaining, int(f.super.BlockSize))
		chunk, err := f.blockBytes(format.ReadU32(mapBytes, off), n)
		if err != nil {
			return nil, fmt.Errorf("msf: directory: %w", err)
		}
		dir = append(dir, chunk...)
		remaining -= n
	}
	return dir, nil
}

// parseDirectory decodes the directory: a stream count, the per-stream byte
// sizes, then each live stream's block list.
func (f *File) parseDirectory(dir []byte) error {
	r := buf.NewReader(dir)
	numStreams, err := r.ReadU32()
	if err != nil {
		return fmt.Errorf("msf: directory stream count: %w", types.ErrCorrupt)
	}
	if numStreams > types.MaxStreamCount {
		return fmt.Errorf("msf: %d streams exceed limit %d: %w", numStreams, types.MaxStreamCount, types.ErrCorrupt)
	}
	sizes, err := r.ReadU32Slice(int(numStreams))
	if err != nil {
		return fmt.Errorf("msf: directory sizes: %w", types.ErrCorrupt)
	}

	blocks := make([][]uint32, numStreams)
	for i, size := range sizes {
		if size == types.NilStreamSize {
			continue
		}
		count := (size + f.super.BlockSize - 1) / f.super.BlockSize
		list, err := r.ReadU32Slice(int(count))
		if err != nil {
			return fmt.Errorf("msf: stream %d block list (%d blocks): %w", i, count, types.ErrCorrupt)
		}
		blocks[i] = list
	}
	f.streamSize = sizes
	f.blocks = blocks
	return nil
}
