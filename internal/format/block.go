package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/arenakit/internal/buf"
)

// Block is a decoded block header.
type Block struct {
	Offset int  // Header offset within the arena
	Size   int  // Payload size, excluding the header
	Free   bool // True when the block is available
	Next   int  // Header offset of the following block, or -1 for the last block
}

// Payload returns the offset of the first payload byte.
func (b Block) Payload() int { return b.Offset + HeaderSize }

// End returns the offset one past the last payload byte.
func (b Block) End() int { return b.Offset + HeaderSize + b.Size }

// Last reports whether b has no successor.
func (b Block) Last() bool { return b.Next < 0 }

// PutBlock encodes blk at blk.Offset. The caller must ensure the header fits.
func PutBlock(b []byte, blk Block) {
	off := blk.Offset
	copy(b[off+SignatureOffset:off+SignatureOffset+SignatureSize], BlockSignature)
	var flags uint16
	if blk.Free {
		flags |= FlagFree
	}
	PutU16(b, off+FlagsOffset, flags)
	PutU32(b, off+SizeOffset, uint32(blk.Size))
	next := uint32(NoNext)
	if blk.Next >= 0 {
		next = uint32(blk.Next)
	}
	PutU32(b, off+NextOffset, next)
}

// SetFree rewrites only the flags field of the header at off.
func SetFree(b []byte, off int, free bool) {
	var flags uint16
	if free {
		flags |= FlagFree
	}
	PutU16(b, off+FlagsOffset, flags)
}

// DecodeBlock decodes the header at off and checks that its payload fits in b.
// Linkage and contiguity are not checked here; see arena/verify.
func DecodeBlock(b []byte, off int) (Block, error) {
	hdr, ok := buf.Slice(b, off, HeaderSize)
	if !ok {
		return Block{}, fmt.Errorf("block at %d: %w", off, ErrTruncated)
	}
	if !bytes.Equal(hdr[SignatureOffset:SignatureOffset+SignatureSize], BlockSignature) {
		return Block{}, fmt.Errorf("block at %d: %w", off, ErrSignatureMismatch)
	}
	size := int(buf.U32LE(hdr[SizeOffset:]))
	if !IsAligned(off) || !IsAligned(size) {
		return Block{}, fmt.Errorf("block at %d: size %d: %w", off, size, ErrMisaligned)
	}
	if !buf.Has(b, off+HeaderSize, size) {
		return Block{}, fmt.Errorf("block at %d: payload %d: %w", off, size, ErrTruncated)
	}
	next := -1
	if raw := buf.U32LE(hdr[NextOffset:]); raw != NoNext {
		next = int(raw)
	}
	return Block{
		Offset: off,
		Size:   size,
		Free:   buf.U16LE(hdr[FlagsOffset:])&FlagFree != 0,
		Next:   next,
	}, nil
}

// Walk calls fn for every block reachable from the header at offset 0, in
// list order. It stops at the first decode error, when fn returns false, or
// after maxBlocks steps (which guards against a corrupted cyclic list).
func Walk(b []byte, fn func(Block) bool) error {
	maxBlocks := len(b)/MinArenaBytes + 1
	off := 0
	for i := 0; ; i++ {
		if i > maxBlocks {
			return fmt.Errorf("walk: more than %d blocks: %w", maxBlocks, ErrLoop)
		}
		blk, err := DecodeBlock(b, off)
		if err != nil {
			return err
		}
		if !fn(blk) || blk.Last() {
			return nil
		}
		off = blk.Next
	}
}
