package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// InfoData is the decoded PDB info stream (fixed stream 1): a 28-byte header
// followed by the named stream map. Bytes after the map (feature signatures
// in newer PDBs) are ignored.
type InfoData struct {
	Version      types.InfoVersion
	Signature    uint32
	Age          uint32
	GUID         types.GUID
	NamedStreams map[string]uint32
}

// DecodeInfoStream decodes the info stream header and named stream map.
func DecodeInfoStream(b []byte) (InfoData, error) {
	if len(b) < InfoHeaderSize {
		return InfoData{}, fmt.Errorf("info stream: %w (have %d, need %d)", ErrTruncated, len(b), InfoHeaderSize)
	}
	info := InfoData{
		Version:      types.InfoVersion(ReadU32(b, InfoVersionOffset)),
		Signature:    ReadU32(b, InfoSignatureOffset),
		Age:          ReadU32(b, InfoAgeOffset),
		NamedStreams: make(map[string]uint32),
	}
	copy(info.GUID[:], b[InfoGuidOffset:InfoGuidOffset+GuidSize])

	if info.Version < types.InfoVC70 {
		return InfoData{}, fmt.Errorf("info stream: version %d predates VC70: %w", info.Version, ErrUnsupported)
	}

	r := buf.NewReader(b)
	if err := r.SetOffset(InfoHeaderSize); err != nil {
		return InfoData{}, err
	}
	if err := decodeNamedStreamMap(r, info.NamedStreams); err != nil {
		return InfoData{}, err
	}
	return info, nil
}

// decodeNamedStreamMap decodes the serialized string map that follows the
// info header: a length-prefixed string buffer, then a serialized hash table
// of (name offset, stream number) pairs.
func decodeNamedStreamMap(r *buf.Reader, out map[string]uint32) error {
	strBufLen, err := r.ReadU32()
	if err != nil {
		return fmt.Errorf("named stream map: string buffer size: %w", ErrTruncated)
	}
	strBuf, err := r.ReadBytes(int(strBufLen))
	if err != nil {
		return fmt.Errorf("named stream map: %d-byte string buffer: %w", strBufLen, ErrTruncated)
	}

	size, err := r.ReadU32()
	if err != nil {
		return fmt.Errorf("named stream map: hash table size: %w", ErrTruncated)
	}
	if _, err := r.ReadU32(); err != nil { // capacity, unused when deserializing
		return fmt.Errorf("named stream map: hash table capacity: %w", ErrTruncated)
	}
	// Present and deleted bit vectors, serialized as a word count plus the
	// words. Only the pair list that follows matters for lookup.
	for _, vec := range []string{"present", "deleted"} {
		words, err := r.ReadU32()
		if err != nil {
			return fmt.Errorf("named stream map: %s vector size: %w", vec, ErrTruncated)
		}
		if _, err := r.ReadU32Slice(int(words)); err != nil {
			return fmt.Errorf("named stream map: %s vector: %w", vec, ErrTruncated)
		}
	}

	for i := uint32(0); i < size; i++ {
		nameOff, err := r.ReadU32()
		if err != nil {
			return fmt.Errorf("named stream map: entry %d name offset: %w", i, ErrTruncated)
		}
		streamNum, err := r.ReadU32()
		if err != nil {
			return fmt.Errorf("named stream map: entry %d stream number: %w", i, ErrTruncated)
		}
		if nameOff >= uint32(len(strBuf)) {
			return fmt.Errorf("named stream map: entry %d name offset %d past %d-byte buffer: %w",
				i, nameOff, len(strBuf), ErrTruncated)
		}
		rel := bytes.IndexByte(strBuf[nameOff:], 0)
		if rel < 0 {
			return fmt.Errorf("named stream map: entry %d unterminated name: %w", i, ErrTruncated)
		}
		out[string(strBuf[nameOff:int(nameOff)+rel])] = streamNum
	}
	return nil
}
