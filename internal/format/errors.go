package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates a substream size violated its alignment rule.
	ErrMisaligned = errors.New("format: misaligned substream")
	// ErrSizeMismatch indicates declared sizes disagree with the actual bytes.
	ErrSizeMismatch = errors.New("format: size mismatch")
	// ErrMismatch indicates two fields that must agree do not.
	ErrMismatch = errors.New("format: cross-field mismatch")
	// ErrUnsupported indicates the structure or feature is not yet supported.
	ErrUnsupported = errors.New("format: unsupported feature")
	// ErrIndexOutOfBounds indicates an index past the end of a decoded table.
	ErrIndexOutOfBounds = errors.New("format: index out of bounds")
)
