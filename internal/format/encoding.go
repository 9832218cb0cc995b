package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/buf"
)

// Binary encoding utilities for little-endian integers.
//
// The PDB format is little-endian throughout. The Put*/Read* helpers assume
// the caller already validated bounds (builders and tests); the CheckedRead*
// helpers are for decoding untrusted input and report truncation instead of
// panicking.

// PutU16 writes a uint16 value to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutI32 writes an int32 value to the buffer at the specified offset in little-endian format.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// ReadU16 reads a uint16 value from the buffer at the specified offset in little-endian format.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadI32 reads an int32 value from the buffer at the specified offset in little-endian format.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

// CheckedReadU16 reads a little-endian uint16, reporting truncation.
func CheckedReadU16(b []byte, off int) (uint16, error) {
	if !buf.Has(b, off, 2) {
		return 0, fmt.Errorf("u16 at offset %d: %w (len %d)", off, ErrTruncated, len(b))
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

// CheckedReadU32 reads a little-endian uint32, reporting truncation.
func CheckedReadU32(b []byte, off int) (uint32, error) {
	if !buf.Has(b, off, 4) {
		return 0, fmt.Errorf("u32 at offset %d: %w (len %d)", off, ErrTruncated, len(b))
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}
