package format

import "errors"

var (
	// ErrSignatureMismatch indicates a header did not start with BlockSignature.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrMisaligned indicates a payload size or offset off the Alignment grid.
	ErrMisaligned = errors.New("format: misaligned block")
	// ErrLoop indicates a next-offset chain that never reaches the last block.
	ErrLoop = errors.New("format: block list loops")
)
