package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func buildStringTable(names []byte, ids []uint32, nameCount uint32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, StringTableSignature)
	b = binary.LittleEndian.AppendUint32(b, StringTableHashV1)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(names)))
	b = append(b, names...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(ids)))
	for _, id := range ids {
		b = binary.LittleEndian.AppendUint32(b, id)
	}
	return binary.LittleEndian.AppendUint32(b, nameCount)
}

func TestDecodeStringTable(t *testing.T) {
	raw := buildStringTable([]byte("\x00one.c\x00two.c\x00"), []uint32{0, 1, 7}, 2)
	st, err := DecodeStringTable(raw)
	if err != nil {
		t.Fatalf("DecodeStringTable: %v", err)
	}
	if st.HashVersion != StringTableHashV1 || st.NameCount != 2 || len(st.IDs) != 3 {
		t.Fatalf("unexpected table: %+v", st)
	}
	for id, want := range map[uint32]string{0: "", 1: "one.c", 7: "two.c"} {
		s, err := st.StringForID(id)
		if err != nil {
			t.Fatalf("StringForID(%d): %v", id, err)
		}
		if string(s) != want {
			t.Fatalf("StringForID(%d) = %q, want %q", id, s, want)
		}
	}
}

func TestDecodeStringTableBadSignature(t *testing.T) {
	raw := buildStringTable(nil, nil, 0)
	binary.LittleEndian.PutUint32(raw, 0xDEADBEEF)
	if _, err := DecodeStringTable(raw); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestDecodeStringTableBadHashVersion(t *testing.T) {
	raw := buildStringTable(nil, nil, 0)
	PutU32(raw, StringTableVersionOffset, 3)
	if _, err := DecodeStringTable(raw); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDecodeStringTableTruncated(t *testing.T) {
	raw := buildStringTable([]byte("a\x00"), []uint32{0}, 1)
	for _, n := range []int{0, 4, StringTableHeaderSize - 1, len(raw) - 1} {
		if _, err := DecodeStringTable(raw[:n]); !errors.Is(err, ErrTruncated) {
			t.Fatalf("cut at %d: expected ErrTruncated, got %v", n, err)
		}
	}
}

func TestStringTableStringForIDOutOfRange(t *testing.T) {
	st, err := DecodeStringTable(buildStringTable([]byte("a\x00"), nil, 1))
	if err != nil {
		t.Fatalf("DecodeStringTable: %v", err)
	}
	if _, err := st.StringForID(2); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
