// Package format houses the on-buffer layout of arena block headers. The goal
// is to keep encoding and decoding focused and allocation-free so the
// allocator, the verifier, and the printer agree on a single definition of
// what a block looks like.
package format

var (
	// BlockSignature is the two-byte tag at the start of every block header.
	// Layout:
	//   0x00  'b' 'k'
	BlockSignature = []byte{'b', 'k'}
)

const (
	// HeaderSize is the size of a block header in bytes. Every block, free or
	// in use, is prefixed by exactly one header.
	//
	// Header layout (little-endian):
	//
	//	Offset  Size  Description
	//	0x00    2     Signature "bk"
	//	0x02    2     Flags (FlagFree)
	//	0x04    4     Payload size in bytes, excluding the header
	//	0x08    4     Offset of the next header, or NoNext
	HeaderSize = 12

	// SignatureSize is the length of BlockSignature.
	SignatureSize = 2

	SignatureOffset = 0x00
	FlagsOffset     = 0x02
	SizeOffset      = 0x04
	NextOffset      = 0x08

	// FlagFree marks a block whose payload is available for allocation.
	FlagFree = 0x0001

	// NoNext is stored in the next field of the last block in the arena.
	NoNext = 0xFFFFFFFF

	// Alignment is the allocation granule. Payload sizes are always a
	// multiple of it.
	Alignment     = 4
	AlignmentMask = Alignment - 1

	// DefaultArenaBytes is the arena capacity used when none is configured.
	DefaultArenaBytes = 1024

	// MinArenaBytes is the smallest arena that can hold one header and one granule.
	MinArenaBytes = HeaderSize + Alignment

	// MaxArenaBytes keeps every header offset representable in the 32-bit
	// next field with room left for NoNext.
	MaxArenaBytes = 1 << 30
)
