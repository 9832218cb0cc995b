// Package buf provides a bounds-checked little-endian cursor over byte
// slices and overflow-safe arithmetic for validating untrusted offsets.
package buf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Reader is a bounds-checked little-endian cursor over a byte slice. Reads
// advance the offset on success and leave it untouched on failure, so a
// caller can report the failing offset. Byte-slice results alias the
// underlying buffer; callers must treat them as read-only.
type Reader struct {
	data []byte
	off  int
}

// NewReader returns a cursor positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.data) }

// Offset returns the current cursor position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Empty reports whether the cursor has consumed the whole buffer.
func (r *Reader) Empty() bool { return r.off >= len(r.data) }

// SetOffset moves the cursor to an absolute position.
func (r *Reader) SetOffset(off int) error {
	if off < 0 || off > len(r.data) {
		return fmt.Errorf("buf: offset %d outside %d-byte buffer", off, len(r.data))
	}
	r.off = off
	return nil
}

// Skip advances the cursor n bytes without reading them.
func (r *Reader) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("buf: negative skip %d", n)
	}
	end, ok := AddOverflowSafe(r.off, n)
	if !ok || end > len(r.data) {
		return fmt.Errorf("buf: skip of %d bytes at offset %d exceeds %d-byte buffer", n, r.off, len(r.data))
	}
	r.off = end
	return nil
}

// Align advances the cursor to the next multiple of n (a power of two).
func (r *Reader) Align(n int) error {
	pad := (n - r.off%n) % n
	return r.Skip(pad)
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadBytes returns the next n bytes as a sub-slice of the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("buf: negative read %d", n)
	}
	b, ok := Slice(r.data, r.off, n)
	if !ok {
		return nil, fmt.Errorf("buf: read of %d bytes at offset %d exceeds %d-byte buffer", n, r.off, len(r.data))
	}
	r.off += n
	return b, nil
}

// ReadCString reads bytes up to (but not including) the next NUL and
// advances past the terminator. A missing terminator is an error.
func (r *Reader) ReadCString() ([]byte, error) {
	rel := bytes.IndexByte(r.data[r.off:], 0)
	if rel < 0 {
		return nil, fmt.Errorf("buf: unterminated string at offset %d", r.off)
	}
	s := r.data[r.off : r.off+rel]
	r.off += rel + 1
	return s, nil
}

// ReadU16Slice reads count little-endian uint16 values.
func (r *Reader) ReadU16Slice(count int) ([]uint16, error) {
	raw, err := r.readArray(count, 2)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return out, nil
}

// ReadU32Slice reads count little-endian uint32 values.
func (r *Reader) ReadU32Slice(count int) ([]uint32, error) {
	raw, err := r.readArray(count, 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out, nil
}

func (r *Reader) readArray(count, elemSize int) ([]byte, error) {
	end, err := CheckListBounds(len(r.data), r.off, count, elemSize)
	if err != nil {
		return nil, fmt.Errorf("buf: array: %w", err)
	}
	raw := r.data[r.off:end]
	r.off = end
	return raw, nil
}
