package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
)

// StringTable is the serialized name table carried by the DBI EC substream
// (and by the /names stream). Layout:
//
//	u32 Signature   0xEFFEEFFE
//	u32 HashVersion 1 or 2
//	u32 ByteSize    size of the names buffer
//	u8  Names[ByteSize]   packed NUL-terminated strings, addressed by offset
//	u32 HashCount
//	u32 IDs[HashCount]    hash buckets; an ID is a byte offset into Names
//	u32 NameCount
type StringTable struct {
	HashVersion uint32
	Names       []byte
	IDs         []uint32
	NameCount   uint32
}

// DecodeStringTable decodes a serialized string table.
func DecodeStringTable(b []byte) (StringTable, error) {
	r := buf.NewReader(b)
	sig, err := r.ReadU32()
	if err != nil {
		return StringTable{}, fmt.Errorf("string table header: %w", ErrTruncated)
	}
	if sig != StringTableSignature {
		return StringTable{}, fmt.Errorf("string table: signature 0x%08x: %w", sig, ErrSignatureMismatch)
	}
	hashVer, err := r.ReadU32()
	if err != nil {
		return StringTable{}, fmt.Errorf("string table header: %w", ErrTruncated)
	}
	if hashVer != StringTableHashV1 && hashVer != StringTableHashV2 {
		return StringTable{}, fmt.Errorf("string table: hash version %d: %w", hashVer, ErrUnsupported)
	}
	byteSize, err := r.ReadU32()
	if err != nil {
		return StringTable{}, fmt.Errorf("string table header: %w", ErrTruncated)
	}
	names, err := r.ReadBytes(int(byteSize))
	if err != nil {
		return StringTable{}, fmt.Errorf("string table: %d-byte names buffer: %w", byteSize, ErrTruncated)
	}
	hashCount, err := r.ReadU32()
	if err != nil {
		return StringTable{}, fmt.Errorf("string table hash count: %w", ErrTruncated)
	}
	ids, err := r.ReadU32Slice(int(hashCount))
	if err != nil {
		return StringTable{}, fmt.Errorf("string table: %d hash buckets: %w", hashCount, ErrTruncated)
	}
	nameCount, err := r.ReadU32()
	if err != nil {
		return StringTable{}, fmt.Errorf("string table name count: %w", ErrTruncated)
	}
	return StringTable{
		HashVersion: hashVer,
		Names:       names,
		IDs:         ids,
		NameCount:   nameCount,
	}, nil
}

// StringForID resolves id (a byte offset) against the names buffer.
func (st StringTable) StringForID(id uint32) ([]byte, error) {
	if id >= uint32(len(st.Names)) {
		return nil, fmt.Errorf("string table: id %d past %d-byte buffer: %w", id, len(st.Names), ErrTruncated)
	}
	rel := bytes.IndexByte(st.Names[id:], 0)
	if rel < 0 {
		return nil, fmt.Errorf("string table: unterminated string at %d: %w", id, ErrTruncated)
	}
	return st.Names[id : int(id)+rel], nil
}
