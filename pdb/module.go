package pdb

import (
	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// Module is one compiled object module recorded in the DBI stream. Values
// are frozen once the DBI parse completes; accessors are safe for shared
// readers.
type Module struct {
	name        string
	objFileName string
	flags       uint16
	symStream   types.StreamIndex
	symByteSize uint32
	c11ByteSize uint32
	c13ByteSize uint32
	contrib     types.SectionContrib
	sourceFiles []string
}

// moduleBuilder accumulates a module during the DBI parse: the fixed record
// in pass one, then the source file names appended by the file info pass.
// freeze turns it into the immutable public value.
type moduleBuilder struct {
	rec         format.ModInfoRecord
	sourceFiles []string
}

func (b *moduleBuilder) freeze() Module {
	return Module{
		name:        decodeName(b.rec.ModuleNameRaw),
		objFileName: decodeName(b.rec.ObjFileNameRaw),
		flags:       b.rec.Flags,
		symStream:   b.rec.SymStream,
		symByteSize: b.rec.SymByteSize,
		c11ByteSize: b.rec.C11ByteSize,
		c13ByteSize: b.rec.C13ByteSize,
		contrib:     b.rec.Contrib,
		sourceFiles: b.sourceFiles,
	}
}

// Name returns the module name, usually the object file path as seen by the
// linker.
func (m Module) Name() string { return m.name }

// ObjFileName returns the object file path. For modules drawn from an
// archive this is the archive path, while Name is the member.
func (m Module) ObjFileName() string { return m.objFileName }

// SymStream returns the stream holding the module's symbol records, or an
// invalid index when the module has none.
func (m Module) SymStream() types.StreamIndex { return m.symStream }

// SymByteSize returns the byte count of symbol records in SymStream.
func (m Module) SymByteSize() uint32 { return m.symByteSize }

// C11LineInfoSize returns the byte count of C11-style line info.
func (m Module) C11LineInfoSize() uint32 { return m.c11ByteSize }

// C13LineInfoSize returns the byte count of C13-style line info.
func (m Module) C13LineInfoSize() uint32 { return m.c13ByteSize }

// FirstContribution returns the module's representative section
// contribution from the module info record.
func (m Module) FirstContribution() types.SectionContrib { return m.contrib }

// SourceFiles returns the module's source file names in record order.
// Callers must not mutate the returned slice.
func (m Module) SourceFiles() []string { return m.sourceFiles }
