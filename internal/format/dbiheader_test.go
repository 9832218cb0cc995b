package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/joshuapare/pdbkit/pkg/types"
)

// buildDbiHeader returns a 64-byte header whose substream sizes are all zero,
// so it validates against a bare 64-byte stream with age 1.
func buildDbiHeader() []byte {
	b := make([]byte, DbiHeaderSize)
	PutU32(b, DbiVersionSignatureOffset, 0xFFFFFFFF) // -1
	PutU32(b, DbiVersionHeaderOffset, uint32(types.DbiV70))
	PutU32(b, DbiAgeOffset, 1)
	PutU16(b, DbiBuildNumberOffset, 0x8E1D) // 14.29
	PutU16(b, DbiFlagsOffset, DbiFlagIncremental|DbiFlagHasCTypes)
	PutU16(b, DbiMachineOffset, uint16(types.MachineAmd64))
	return b
}

func TestDecodeDbiHeader(t *testing.T) {
	h, err := DecodeDbiHeader(buildDbiHeader())
	if err != nil {
		t.Fatalf("DecodeDbiHeader: %v", err)
	}
	if h.VersionSignature != -1 {
		t.Fatalf("signature = %d, want -1", h.VersionSignature)
	}
	if h.VersionHeader != uint32(types.DbiV70) || h.Age != 1 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if h.BuildMajor() != 14 || h.BuildMinor() != 0x1D {
		t.Fatalf("build = %d.%d, want 14.29", h.BuildMajor(), h.BuildMinor())
	}
	if !h.IsIncrementallyLinked() || h.IsStripped() || !h.HasCTypes() {
		t.Fatalf("unexpected flags: %04x", h.Flags)
	}
	if err := h.Validate(DbiHeaderSize, 1); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDecodeDbiHeaderTruncated(t *testing.T) {
	if _, err := DecodeDbiHeader(make([]byte, DbiHeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDbiHeaderValidateSignature(t *testing.T) {
	b := buildDbiHeader()
	PutU32(b, DbiVersionSignatureOffset, 0) // any non -1 value
	h, _ := DecodeDbiHeader(b)
	if err := h.Validate(DbiHeaderSize, 1); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestDbiHeaderValidateOldVersion(t *testing.T) {
	b := buildDbiHeader()
	PutU32(b, DbiVersionHeaderOffset, uint32(types.DbiV60))
	h, _ := DecodeDbiHeader(b)
	if err := h.Validate(DbiHeaderSize, 1); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDbiHeaderValidateAgeMismatch(t *testing.T) {
	h, _ := DecodeDbiHeader(buildDbiHeader())
	if err := h.Validate(DbiHeaderSize, 2); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestDbiHeaderValidateLengthSum(t *testing.T) {
	h, _ := DecodeDbiHeader(buildDbiHeader())
	if err := h.Validate(DbiHeaderSize+1, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestDbiHeaderValidateNegativeSize(t *testing.T) {
	b := buildDbiHeader()
	PutI32(b, DbiECSubstreamSizeOffset, -4)
	h, _ := DecodeDbiHeader(b)
	if err := h.Validate(DbiHeaderSize-4, 1); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestDbiHeaderValidateMisalignment(t *testing.T) {
	// Each size-checked substream reports misalignment by name.
	cases := []struct {
		name   string
		offset int
	}{
		{"module info", DbiModiSizeOffset},
		{"section contribution", DbiSecContrSizeOffset},
		{"section map", DbiSecMapSizeOffset},
		{"file info", DbiFileInfoSizeOffset},
		{"type server map", DbiTypeServerSizeOffset},
	}
	for _, tc := range cases {
		b := buildDbiHeader()
		PutU32(b, tc.offset, 2)
		h, _ := DecodeDbiHeader(b)
		err := h.Validate(DbiHeaderSize+2, 1)
		if !errors.Is(err, ErrMisaligned) {
			t.Fatalf("%s: expected ErrMisaligned, got %v", tc.name, err)
		}
		if got := err.Error(); !strings.Contains(got, tc.name) {
			t.Fatalf("%s: error %q does not name the substream", tc.name, got)
		}
	}
}

// The EC and debug header substreams carry no alignment guarantee.
func TestDbiHeaderValidateUnalignedECAllowed(t *testing.T) {
	b := buildDbiHeader()
	PutU32(b, DbiECSubstreamSizeOffset, 2)
	h, _ := DecodeDbiHeader(b)
	if err := h.Validate(DbiHeaderSize+2, 1); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
