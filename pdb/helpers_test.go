package pdb

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// ----------------------------------------------------------------------------
// Fake stream source
// ----------------------------------------------------------------------------

// fakeSource serves streams from a slice, standing in for the MSF layer.
type fakeSource struct {
	streams [][]byte
}

func (f *fakeSource) StreamCount() uint32 { return uint32(len(f.streams)) }

func (f *fakeSource) StreamSize(index uint32) (uint32, error) {
	b, err := f.StreamBytes(index)
	if err != nil {
		return 0, err
	}
	return uint32(len(b)), nil
}

func (f *fakeSource) StreamBytes(index uint32) ([]byte, error) {
	if index >= uint32(len(f.streams)) {
		return nil, fmt.Errorf("fake: stream %d: %w", index, types.ErrNoStream)
	}
	return f.streams[index], nil
}

// ----------------------------------------------------------------------------
// DBI stream builder
// ----------------------------------------------------------------------------

// dbiBuilder assembles a synthetic, well-formed DBI stream byte by byte.
// Tests corrupt the result afterwards to exercise specific checks.
type dbiBuilder struct {
	age     uint32
	modi    []byte
	contrib []byte
	secMap  []byte
	fiRaw   []byte // overrides the file info region when set
	fiMods  int    // module count for the default file info region
	ec      []byte
	dbg     []types.StreamIndex
}

// newDbiBuilder returns a builder for a stream with no modules, an empty
// V60 contribution set, an empty section map, an empty EC name table, and a
// debug header table pointing the section header stream at fake stream 1.
func newDbiBuilder() *dbiBuilder {
	dbg := make([]types.StreamIndex, types.DbgKindCount)
	for i := range dbg {
		dbg[i] = types.InvalidStreamIndex
	}
	dbg[types.DbgSectionHdr] = 1
	return &dbiBuilder{
		age:     1,
		contrib: binary.LittleEndian.AppendUint32(nil, format.SecContribVer60),
		secMap:  make([]byte, format.SecMapHeaderSize),
		ec:      buildECRegion(nil),
		dbg:     dbg,
	}
}

// addModule appends one module info record.
func (b *dbiBuilder) addModule(name, objFile string) *dbiBuilder {
	size := format.ModInfoFixedSize + len(name) + 1 + len(objFile) + 1
	size = (size + 3) &^ 3
	rec := make([]byte, size)
	binary.LittleEndian.PutUint16(rec[format.ModInfoStreamOffset:], 0xFFFF)
	copy(rec[format.ModInfoNamesOffset:], name)
	copy(rec[format.ModInfoNamesOffset+len(name)+1:], objFile)
	b.modi = append(b.modi, rec...)
	b.fiMods++
	return b
}

// withFileInfo replaces the default (empty) file info region.
func (b *dbiBuilder) withFileInfo(counts []uint16, declaredSources uint16, offsets []uint32, names []byte) *dbiBuilder {
	b.fiRaw = buildFileInfoRegion(counts, declaredSources, offsets, names)
	return b
}

// buildFileInfoRegion serializes a file info substream, padded to 4 bytes.
func buildFileInfoRegion(counts []uint16, declaredSources uint16, offsets []uint32, names []byte) []byte {
	fi := binary.LittleEndian.AppendUint16(nil, uint16(len(counts)))
	fi = binary.LittleEndian.AppendUint16(fi, declaredSources)
	for i := range counts {
		fi = binary.LittleEndian.AppendUint16(fi, uint16(i))
	}
	for _, c := range counts {
		fi = binary.LittleEndian.AppendUint16(fi, c)
	}
	for _, off := range offsets {
		fi = binary.LittleEndian.AppendUint32(fi, off)
	}
	fi = append(fi, names...)
	for len(fi)%format.SubstreamAlign != 0 {
		fi = append(fi, 0)
	}
	return fi
}

// withContribs replaces the contribution region with a tag and raw records.
func (b *dbiBuilder) withContribs(version uint32, records []byte) *dbiBuilder {
	b.contrib = append(binary.LittleEndian.AppendUint32(nil, version), records...)
	return b
}

// build serializes the stream: 64-byte header plus the seven regions.
func (b *dbiBuilder) build() []byte {
	fi := b.fiRaw
	if fi == nil {
		fi = buildFileInfoRegion(make([]uint16, b.fiMods), 0, nil, nil)
	}
	dbg := make([]byte, len(b.dbg)*format.DbgStreamSlotSize)
	for i, s := range b.dbg {
		binary.LittleEndian.PutUint16(dbg[i*format.DbgStreamSlotSize:], uint16(s))
	}

	hdr := make([]byte, format.DbiHeaderSize)
	binary.LittleEndian.PutUint32(hdr[format.DbiVersionSignatureOffset:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(hdr[format.DbiVersionHeaderOffset:], uint32(types.DbiV70))
	binary.LittleEndian.PutUint32(hdr[format.DbiAgeOffset:], b.age)
	binary.LittleEndian.PutUint16(hdr[format.DbiBuildNumberOffset:], 0x8E1D)
	binary.LittleEndian.PutUint16(hdr[format.DbiMachineOffset:], uint16(types.MachineAmd64))
	binary.LittleEndian.PutUint32(hdr[format.DbiModiSizeOffset:], uint32(len(b.modi)))
	binary.LittleEndian.PutUint32(hdr[format.DbiSecContrSizeOffset:], uint32(len(b.contrib)))
	binary.LittleEndian.PutUint32(hdr[format.DbiSecMapSizeOffset:], uint32(len(b.secMap)))
	binary.LittleEndian.PutUint32(hdr[format.DbiFileInfoSizeOffset:], uint32(len(fi)))
	binary.LittleEndian.PutUint32(hdr[format.DbiDbgHeaderSizeOffset:], uint32(len(dbg)))
	binary.LittleEndian.PutUint32(hdr[format.DbiECSubstreamSizeOffset:], uint32(len(b.ec)))

	out := hdr
	out = append(out, b.modi...)
	out = append(out, b.contrib...)
	out = append(out, b.secMap...)
	out = append(out, fi...)
	out = append(out, b.ec...)
	return append(out, dbg...)
}

// buildECRegion serializes a minimal string table for the EC substream.
func buildECRegion(names []byte) []byte {
	ec := binary.LittleEndian.AppendUint32(nil, format.StringTableSignature)
	ec = binary.LittleEndian.AppendUint32(ec, format.StringTableHashV1)
	ec = binary.LittleEndian.AppendUint32(ec, uint32(len(names)))
	ec = append(ec, names...)
	ec = binary.LittleEndian.AppendUint32(ec, 0) // hash buckets
	return binary.LittleEndian.AppendUint32(ec, 0) // name count
}

// buildSectionHeaderStream serializes COFF section headers for the fake
// section header debug stream.
func buildSectionHeaderStream(names ...string) []byte {
	out := make([]byte, 0, len(names)*format.CoffSectionSize)
	for i, name := range names {
		s := make([]byte, format.CoffSectionSize)
		copy(s, name)
		binary.LittleEndian.PutUint32(s[0x0C:], uint32(0x1000*(i+1)))
		out = append(out, s...)
	}
	return out
}

// defaultSource returns a fake source whose stream 1 holds a single .text
// section header, matching newDbiBuilder's debug header table.
func defaultSource() *fakeSource {
	return &fakeSource{streams: [][]byte{{}, buildSectionHeaderStream(".text")}}
}

// mustParse builds the stream and requires a successful parse.
func mustParse(t *testing.T, b *dbiBuilder, src *fakeSource) *DbiStream {
	t.Helper()
	s, err := ParseDbiStream(b.build(), b.age, src)
	if err != nil {
		t.Fatalf("ParseDbiStream: %v", err)
	}
	return s
}
