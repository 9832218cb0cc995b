package pdb

import (
	"errors"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// StreamSource provides numbered streams from a PDB container. *msf.File
// satisfies it; tests substitute in-memory fakes.
type StreamSource interface {
	StreamCount() uint32
	StreamSize(index uint32) (uint32, error)
	StreamBytes(index uint32) ([]byte, error)
}

// SectionContribVisitor receives section contribution records during
// iteration. Exactly one of the two methods is called per record, matching
// the version the stream was written with; implementations that only care
// about the common fields can forward Visit2 to Visit.
type SectionContribVisitor interface {
	Visit(sc types.SectionContrib)
	Visit2(sc types.SectionContrib2)
}

// DbiStream is the parsed DBI (debug info) stream. All fields are populated
// by a single ParseDbiStream pass and immutable afterwards; there is no
// partially parsed state.
type DbiStream struct {
	header     format.DbiHeader
	modules    []Module
	contribs   format.SectionContribs
	secMap     []types.SectionMapEntry
	sections   []types.SectionHeader
	fpo        []types.FpoRecord
	dbgStreams format.DbgStreamTable
	fileInfo   format.FileInfo
	typeServer []byte
	ecNames    *NameTable
}

// ParseDbiStream decodes and validates the DBI stream in one pass. infoAge
// is the age from the info stream, cross-checked against the header. src
// supplies the auxiliary indexed streams (section headers, FPO records).
//
// Any violated invariant aborts the parse: the stream's declared substream
// sizes must sum to its exact length, the size-checked substreams must be
// 4-byte aligned, the module count declared by the file info substream must
// match the count discovered by iterating module records, and every indexed
// read is bounds-checked. Declared counts with an independent derivation
// (module count, source file total) are recomputed, never trusted.
func ParseDbiStream(data []byte, infoAge uint32, src StreamSource) (*DbiStream, error) {
	header, err := format.DecodeDbiHeader(data)
	if err != nil {
		return nil, fmt.Errorf("dbi: %v: %w", err, types.ErrCorrupt)
	}
	if err := header.Validate(len(data), infoAge); err != nil {
		return nil, translateDbi(err)
	}

	// Segment the substreams. Sizes are non-negative and sum to the stream
	// length, so these reads cannot fail after Validate.
	r := buf.NewReader(data)
	_ = r.Skip(format.DbiHeaderSize)
	modiRegion, _ := r.ReadBytes(int(header.ModiSize))
	contribRegion, _ := r.ReadBytes(int(header.SecContrSize))
	secMapRegion, _ := r.ReadBytes(int(header.SecMapSize))
	fileInfoRegion, _ := r.ReadBytes(int(header.FileInfoSize))
	typeServerRegion, _ := r.ReadBytes(int(header.TypeServerSize))
	ecRegion, _ := r.ReadBytes(int(header.ECSubstreamSize))
	dbgRegion, _ := r.ReadBytes(int(header.DbgHeaderSize))

	s := &DbiStream{header: header, typeServer: typeServerRegion}

	builders, err := decodeModules(modiRegion)
	if err != nil {
		return nil, err
	}

	s.dbgStreams, err = format.DecodeDbgStreamTable(dbgRegion, len(dbgRegion))
	if err != nil {
		return nil, translateDbi(err)
	}

	s.contribs, err = format.DecodeSectionContribs(contribRegion)
	if err != nil {
		return nil, translateDbi(err)
	}
	if err := s.loadSectionHeaders(src); err != nil {
		return nil, err
	}
	s.secMap, err = format.DecodeSectionMap(secMapRegion)
	if err != nil {
		return nil, translateDbi(err)
	}
	s.fileInfo, err = associateSourceFiles(fileInfoRegion, builders)
	if err != nil {
		return nil, err
	}
	if err := s.loadFpoRecords(src); err != nil {
		return nil, err
	}

	if r.Remaining() > 0 {
		return nil, fmt.Errorf("dbi: %d unexpected trailing bytes: %w", r.Remaining(), types.ErrCorrupt)
	}

	s.ecNames, err = loadNameTable(ecRegion)
	if err != nil {
		return nil, err
	}

	s.modules = make([]Module, len(builders))
	for i := range builders {
		s.modules[i] = builders[i].freeze()
	}
	return s, nil
}

// decodeModules iterates the module info substream until exhausted. The
// module count is whatever the iteration discovers; no header field is
// consulted. More records than MaxModuleCount cannot be addressed by the
// 16-bit module indices elsewhere in the stream, so the parse aborts.
func decodeModules(region []byte) ([]moduleBuilder, error) {
	var builders []moduleBuilder
	for off := 0; off < len(region); {
		if len(builders) == types.MaxModuleCount {
			return nil, fmt.Errorf("dbi: module records exceed %d: %w",
				types.MaxModuleCount, types.ErrCorrupt)
		}
		rec, size, err := format.DecodeModInfo(region[off:])
		if err != nil {
			return nil, fmt.Errorf("dbi: module record %d at offset %d: %v: %w",
				len(builders), off, err, types.ErrCorrupt)
		}
		builders = append(builders, moduleBuilder{rec: rec})
		off += size
	}
	return builders, nil
}

// associateSourceFiles decodes the file info substream and distributes file
// names to their modules: module i owns the next ModFileCounts[i] entries of
// the offsets table, consumed by one running cursor across all modules.
func associateSourceFiles(region []byte, builders []moduleBuilder) (format.FileInfo, error) {
	fi, err := format.DecodeFileInfo(region, len(builders))
	if err != nil {
		return format.FileInfo{}, translateDbi(err)
	}
	cursor := uint32(0)
	for i := range builders {
		count := int(fi.ModFileCounts[i])
		files := make([]string, 0, count)
		for j := 0; j < count; j++ {
			raw, err := fi.FileName(cursor)
			if err != nil {
				return format.FileInfo{}, translateDbi(err)
			}
			files = append(files, decodeName(raw))
			cursor++
		}
		builders[i].sourceFiles = files
	}
	return fi, nil
}

// loadSectionHeaders fetches the mandatory section header debug stream.
func (s *DbiStream) loadSectionHeaders(src StreamSource) error {
	index := s.dbgStreams.Lookup(types.DbgSectionHdr)
	if !index.Valid() || uint32(index) >= src.StreamCount() {
		return fmt.Errorf("dbi: section header stream %d: %w", index, types.ErrNoStream)
	}
	data, err := src.StreamBytes(uint32(index))
	if err != nil {
		return fmt.Errorf("dbi: section header stream %d: %w", index, err)
	}
	headers, err := format.DecodeSectionHeaders(data)
	if err != nil {
		return translateDbi(err)
	}
	s.sections = headers
	return nil
}

// loadFpoRecords fetches the optional new-FPO debug stream. An absent slot
// is success with no records; a slot referencing a stream outside the
// directory is an error.
func (s *DbiStream) loadFpoRecords(src StreamSource) error {
	index := s.dbgStreams.Lookup(types.DbgNewFPO)
	if !index.Valid() {
		return nil
	}
	if uint32(index) >= src.StreamCount() {
		return fmt.Errorf("dbi: FPO stream %d: %w", index, types.ErrNoStream)
	}
	data, err := src.StreamBytes(uint32(index))
	if err != nil {
		return fmt.Errorf("dbi: FPO stream %d: %w", index, err)
	}
	records, err := format.DecodeFpoRecords(data)
	if err != nil {
		return translateDbi(err)
	}
	s.fpo = records
	return nil
}

// translateDbi maps format sentinels onto the public error categories.
func translateDbi(err error) error {
	switch {
	case errors.Is(err, format.ErrUnsupported):
		return fmt.Errorf("dbi: %v: %w", err, types.ErrUnsupported)
	case errors.Is(err, format.ErrIndexOutOfBounds):
		return fmt.Errorf("dbi: %v: %w", err, types.ErrOutOfBounds)
	default:
		return fmt.Errorf("dbi: %v: %w", err, types.ErrCorrupt)
	}
}

// Version returns the DBI format version from the header.
func (s *DbiStream) Version() types.DbiVersion { return types.DbiVersion(s.header.VersionHeader) }

// Age returns the age recorded in the DBI header. It always equals the info
// stream age; a mismatch fails the parse.
func (s *DbiStream) Age() uint32 { return s.header.Age }

// BuildMajorVersion returns the toolchain major version.
func (s *DbiStream) BuildMajorVersion() uint16 { return s.header.BuildMajor() }

// BuildMinorVersion returns the toolchain minor version.
func (s *DbiStream) BuildMinorVersion() uint16 { return s.header.BuildMinor() }

// PdbDllVersion returns the version of the mspdb DLL that wrote the file.
func (s *DbiStream) PdbDllVersion() uint16 { return s.header.PdbDllVersion }

// IsIncrementallyLinked reports whether the image was linked incrementally.
func (s *DbiStream) IsIncrementallyLinked() bool { return s.header.IsIncrementallyLinked() }

// IsStripped reports whether private symbols were stripped.
func (s *DbiStream) IsStripped() bool { return s.header.IsStripped() }

// HasCTypes reports whether the image was linked with /debug:ctypes.
func (s *DbiStream) HasCTypes() bool { return s.header.HasCTypes() }

// MachineType returns the COFF machine the image targets.
func (s *DbiStream) MachineType() types.MachineType { return types.MachineType(s.header.Machine) }

// GlobalSymbolStreamIndex returns the global symbol stream number.
func (s *DbiStream) GlobalSymbolStreamIndex() types.StreamIndex {
	return types.StreamIndex(s.header.GlobalSymStream)
}

// PublicSymbolStreamIndex returns the public symbol stream number.
func (s *DbiStream) PublicSymbolStreamIndex() types.StreamIndex {
	return types.StreamIndex(s.header.PublicSymStream)
}

// SymRecordStreamIndex returns the symbol record stream number.
func (s *DbiStream) SymRecordStreamIndex() types.StreamIndex {
	return types.StreamIndex(s.header.SymRecordStream)
}

// Modules returns the module records in stream order, each with its source
// files resolved. Callers must not mutate the returned slice.
func (s *DbiStream) Modules() []Module { return s.modules }

// VisitSectionContributions iterates the section contributions in stream
// order, dispatching each record to the visitor method matching the
// version the substream was written with.
func (s *DbiStream) VisitSectionContributions(v SectionContribVisitor) {
	switch s.contribs.Version {
	case format.SecContribVer60:
		for _, sc := range s.contribs.V60 {
			v.Visit(sc)
		}
	case format.SecContribVer2:
		for _, sc := range s.contribs.V2 {
			v.Visit2(sc)
		}
	}
}

// SectionMap returns the section map descriptors.
func (s *DbiStream) SectionMap() []types.SectionMapEntry { return s.secMap }

// SectionHeaders returns the COFF section headers from the section header
// debug stream.
func (s *DbiStream) SectionHeaders() []types.SectionHeader { return s.sections }

// FpoRecords returns the new-FPO records, empty when the producer emitted
// no FPO stream.
func (s *DbiStream) FpoRecords() []types.FpoRecord { return s.fpo }

// NumSourceFiles returns the total source file count, recomputed by summing
// the per-module counts rather than trusting the declared header field.
func (s *DbiStream) NumSourceFiles() int { return s.fileInfo.NumSourceFiles() }

// SourceFileName resolves the index-th entry of the stream-wide file name
// table (the concatenation of every module's file list, in module order).
func (s *DbiStream) SourceFileName(index uint32) (string, error) {
	raw, err := s.fileInfo.FileName(index)
	if err != nil {
		return "", translateDbi(err)
	}
	return decodeName(raw), nil
}

// DebugStreamIndex returns the stream number recorded for the given debug
// stream kind, or an invalid index when absent.
func (s *DbiStream) DebugStreamIndex(kind types.DbgStreamKind) types.StreamIndex {
	return s.dbgStreams.Lookup(kind)
}

// TypeServerMap returns the raw type server map substream. Its internal
// structure is not decoded here.
func (s *DbiStream) TypeServerMap() []byte { return s.typeServer }

// ECNames returns the name table decoded from the EC substream.
func (s *DbiStream) ECNames() *NameTable { return s.ecNames }

// Commit is a placeholder for symmetry with writable stream types. Writing
// the DBI stream back is not implemented; Commit always succeeds.
func (s *DbiStream) Commit() error { return nil }
