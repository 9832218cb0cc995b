package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func buildContribRecord(section uint16, offset, size int32, module uint16) []byte {
	b := make([]byte, SecContribSize)
	PutU16(b, SecContribISectOffset, section)
	PutU32(b, SecContribOffOffset, uint32(offset))
	PutU32(b, SecContribSizeOffset, uint32(size))
	PutU32(b, SecContribCharsOffset, 0x60000020)
	PutU16(b, SecContribImodOffset, module)
	PutU32(b, SecContribDataCrcOffset, 0x11111111)
	PutU32(b, SecContribRelocCrcOffset, 0x22222222)
	return b
}

func TestDecodeSectionContribsV60(t *testing.T) {
	region := make([]byte, 4)
	binary.LittleEndian.PutUint32(region, SecContribVer60)
	region = append(region, buildContribRecord(1, 0, 0x40, 0)...)
	region = append(region, buildContribRecord(2, 0x40, 0x20, 1)...)

	sc, err := DecodeSectionContribs(region)
	if err != nil {
		t.Fatalf("DecodeSectionContribs: %v", err)
	}
	if sc.Version != SecContribVer60 || len(sc.V60) != 2 || sc.V2 != nil {
		t.Fatalf("unexpected result: %+v", sc)
	}
	if sc.V60[1].Section != 2 || sc.V60[1].Offset != 0x40 || sc.V60[1].ModuleIndex != 1 {
		t.Fatalf("unexpected record: %+v", sc.V60[1])
	}
}

func TestDecodeSectionContribsV2(t *testing.T) {
	region := make([]byte, 4)
	binary.LittleEndian.PutUint32(region, SecContribVer2)
	rec := append(buildContribRecord(3, 8, 16, 7), 0x05, 0x00, 0x00, 0x00)
	region = append(region, rec...)

	sc, err := DecodeSectionContribs(region)
	if err != nil {
		t.Fatalf("DecodeSectionContribs: %v", err)
	}
	if sc.Version != SecContribVer2 || len(sc.V2) != 1 || sc.V60 != nil {
		t.Fatalf("unexpected result: %+v", sc)
	}
	if sc.V2[0].Section != 3 || sc.V2[0].CoffSectionIndex != 5 {
		t.Fatalf("unexpected record: %+v", sc.V2[0])
	}
}

func TestDecodeSectionContribsUnknownVersion(t *testing.T) {
	region := make([]byte, 4)
	binary.LittleEndian.PutUint32(region, SecContribVerBase+1)
	if _, err := DecodeSectionContribs(region); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDecodeSectionContribsOddLength(t *testing.T) {
	region := make([]byte, 4+SecContribSize-1)
	binary.LittleEndian.PutUint32(region, SecContribVer60)
	if _, err := DecodeSectionContribs(region); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestDecodeSectionContribsEmpty(t *testing.T) {
	if _, err := DecodeSectionContribs(nil); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
