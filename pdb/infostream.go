package pdb

import (
	"errors"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// InfoStream is the parsed PDB info stream (fixed stream 1). It identifies
// the PDB (GUID, signature, age) and maps named streams to stream numbers.
type InfoStream struct {
	data format.InfoData
}

func parseInfoStream(b []byte) (*InfoStream, error) {
	data, err := format.DecodeInfoStream(b)
	if err != nil {
		if errors.Is(err, format.ErrUnsupported) {
			return nil, fmt.Errorf("info stream: %v: %w", err, types.ErrUnsupported)
		}
		return nil, fmt.Errorf("info stream: %v: %w", err, types.ErrCorrupt)
	}
	return &InfoStream{data: data}, nil
}

// Version returns the implementation version stamp.
func (s *InfoStream) Version() types.InfoVersion { return s.data.Version }

// Signature returns the creation timestamp signature.
func (s *InfoStream) Signature() uint32 { return s.data.Signature }

// Age returns the PDB age, bumped on every incremental link. The DBI stream
// header records the same value and the two must agree.
func (s *InfoStream) Age() uint32 { return s.data.Age }

// GUID returns the unique identifier matching the built image.
func (s *InfoStream) GUID() types.GUID { return s.data.GUID }

// NamedStreamIndex returns the stream number registered under name (for
// example "/names"), or false when no such named stream exists.
func (s *InfoStream) NamedStreamIndex(name string) (uint32, bool) {
	idx, ok := s.data.NamedStreams[name]
	return idx, ok
}
