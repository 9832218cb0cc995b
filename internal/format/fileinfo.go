package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
)

// FileInfo is the decoded layout of the file info substream:
//
//	u16 NumModules        must match the discovered module record count
//	u16 NumSourceFiles    declared total, unreliable, discarded
//	u16 ModIndices[NumModules]      layout compatibility only, unused
//	u16 ModFileCounts[NumModules]   per-module source file counts
//	u32 FileNameOffsets[sum(ModFileCounts)]
//	u8  Names[]           packed NUL-terminated strings, addressed by offset
//
// NumSourceFiles cannot be trusted because the format predates PDBs with
// more than 64k source files, so the real count is recomputed by summing
// ModFileCounts in a wider type.
type FileInfo struct {
	ModFileCounts   []uint16
	FileNameOffsets []uint32
	Names           []byte
}

// DecodeFileInfo decodes the file info substream. numModules is the module
// record count discovered by iterating the module info substream; the
// declared NumModules must agree with it.
func DecodeFileInfo(b []byte, numModules int) (FileInfo, error) {
	r := buf.NewReader(b)
	declModules, err := r.ReadU16()
	if err != nil {
		return FileInfo{}, fmt.Errorf("file info header: %w", ErrTruncated)
	}
	if _, err := r.ReadU16(); err != nil { // declared NumSourceFiles, discarded
		return FileInfo{}, fmt.Errorf("file info header: %w", ErrTruncated)
	}
	if int(declModules) != numModules {
		return FileInfo{}, fmt.Errorf("file info: declared module count %d does not match %d discovered records: %w",
			declModules, numModules, ErrMismatch)
	}

	// ModIndices: read past for layout compatibility, semantically unused
	// for the same reason NumSourceFiles is.
	if _, err := r.ReadU16Slice(numModules); err != nil {
		return FileInfo{}, fmt.Errorf("file info module indices: %w", ErrTruncated)
	}
	counts, err := r.ReadU16Slice(numModules)
	if err != nil {
		return FileInfo{}, fmt.Errorf("file info module file counts: %w", ErrTruncated)
	}

	var numSourceFiles uint32
	for _, c := range counts {
		numSourceFiles += uint32(c)
	}

	offsets, err := r.ReadU32Slice(int(numSourceFiles))
	if err != nil {
		return FileInfo{}, fmt.Errorf("file info name offsets (%d files): %w", numSourceFiles, ErrTruncated)
	}
	names, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return FileInfo{}, fmt.Errorf("file info names buffer: %w", ErrTruncated)
	}

	return FileInfo{
		ModFileCounts:   counts,
		FileNameOffsets: offsets,
		Names:           names,
	}, nil
}

// NumSourceFiles returns the recomputed total source file count.
func (fi FileInfo) NumSourceFiles() int { return len(fi.FileNameOffsets) }

// FileName resolves the index-th source file name against the names buffer.
// An index past the offsets table is reported distinctly from a corrupt
// offset so callers can surface the right error category.
func (fi FileInfo) FileName(index uint32) ([]byte, error) {
	if index >= uint32(len(fi.FileNameOffsets)) {
		return nil, fmt.Errorf("file info: name index %d past %d offsets: %w",
			index, len(fi.FileNameOffsets), ErrIndexOutOfBounds)
	}
	off := fi.FileNameOffsets[index]
	if off >= uint32(len(fi.Names)) {
		return nil, fmt.Errorf("file info: name offset %d past %d-byte buffer: %w",
			off, len(fi.Names), ErrTruncated)
	}
	rel := bytes.IndexByte(fi.Names[off:], 0)
	if rel < 0 {
		return nil, fmt.Errorf("file info: unterminated name at offset %d: %w", off, ErrTruncated)
	}
	return fi.Names[off : int(off)+rel], nil
}
