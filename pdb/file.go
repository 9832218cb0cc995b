package pdb

import (
	"fmt"

	"github.com/joshuapare/pdbkit/internal/mmfile"
	"github.com/joshuapare/pdbkit/msf"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// File is an opened PDB, backed by mmap (unix) or a byte slice (others).
// The info and DBI streams are parsed on first use and memoized, including
// a parse failure: a stream that failed to parse stays failed.
//
// A File is not safe for concurrent use until the streams the caller needs
// have been parsed once; after that, all accessors are read-only.
type File struct {
	msf     *msf.File
	cleanup func() error

	info     *InfoStream
	infoErr  error
	infoDone bool

	dbi     *DbiStream
	dbiErr  error
	dbiDone bool
}

// Open memory-maps the file at path and parses the MSF container layer.
func Open(path string) (*File, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("pdb: open %s: %w", path, err)
	}
	container, err := msf.Parse(data)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	return &File{msf: container, cleanup: cleanup}, nil
}

// FromBytes parses an in-memory PDB image. The image is aliased, not
// copied; callers must not mutate it while the File is in use.
func FromBytes(data []byte) (*File, error) {
	container, err := msf.Parse(data)
	if err != nil {
		return nil, err
	}
	return &File{msf: container}, nil
}

// Close releases the underlying mapping. Accessors must not be used after
// Close; streams already materialized by the MSF layer remain valid copies.
func (f *File) Close() error {
	if f.cleanup == nil {
		return nil
	}
	cleanup := f.cleanup
	f.cleanup = nil
	return cleanup()
}

// MSF returns the container layer, for direct stream access.
func (f *File) MSF() *msf.File { return f.msf }

// Info returns the parsed info stream (fixed stream 1).
func (f *File) Info() (*InfoStream, error) {
	if f.infoDone {
		return f.info, f.infoErr
	}
	f.infoDone = true
	data, err := f.msf.StreamBytes(types.StreamPDB)
	if err != nil {
		f.infoErr = err
		return nil, err
	}
	f.info, f.infoErr = parseInfoStream(data)
	return f.info, f.infoErr
}

// Dbi returns the parsed DBI stream (fixed stream 3). Parsing pulls the
// info stream first for the age cross-check.
func (f *File) Dbi() (*DbiStream, error) {
	if f.dbiDone {
		return f.dbi, f.dbiErr
	}
	f.dbiDone = true
	info, err := f.Info()
	if err != nil {
		f.dbiErr = err
		return nil, err
	}
	data, err := f.msf.StreamBytes(types.StreamDBI)
	if err != nil {
		f.dbiErr = err
		return nil, err
	}
	f.dbi, f.dbiErr = ParseDbiStream(data, info.Age(), f.msf)
	return f.dbi, f.dbiErr
}
