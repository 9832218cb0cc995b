package format

import (
	"errors"
	"testing"
)

func buildSecMap(entries int) []byte {
	b := make([]byte, SecMapHeaderSize+entries*SecMapEntrySize)
	PutU16(b, SecMapCountOffset, uint16(entries))
	PutU16(b, SecMapLogCountOffset, uint16(entries))
	for i := 0; i < entries; i++ {
		e := b[SecMapHeaderSize+i*SecMapEntrySize:]
		PutU16(e, SecMapFlagsOffset, 0x010D)
		PutU16(e, SecMapFrameOffset, uint16(i+1))
		PutU16(e, SecMapSecNameOffset, 0xFFFF)
		PutU16(e, SecMapClassOffset, 0xFFFF)
		PutU32(e, SecMapLengthOffset, uint32(0x1000*(i+1)))
	}
	return b
}

func TestDecodeSectionMap(t *testing.T) {
	entries, err := DecodeSectionMap(buildSecMap(3))
	if err != nil {
		t.Fatalf("DecodeSectionMap: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[1].Frame != 2 || entries[1].SectionLength != 0x2000 || entries[1].SectionName != 0xFFFF {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
}

func TestDecodeSectionMapEmpty(t *testing.T) {
	entries, err := DecodeSectionMap(buildSecMap(0))
	if err != nil {
		t.Fatalf("DecodeSectionMap: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("len = %d, want 0", len(entries))
	}
}

func TestDecodeSectionMapCountPastRegion(t *testing.T) {
	b := buildSecMap(1)
	PutU16(b, SecMapCountOffset, 2)
	if _, err := DecodeSectionMap(b); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeSectionMapMissingHeader(t *testing.T) {
	if _, err := DecodeSectionMap(nil); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
