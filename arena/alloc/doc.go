// Package alloc provides a first-fit block allocator over a single fixed-size arena.
//
// # Overview
//
// The allocator owns one contiguous byte buffer of Options.ArenaBytes bytes.
// The buffer is always partitioned into a singly-linked sequence of blocks,
// each prefixed by a 12-byte header (see internal/format), covering the arena
// with no gaps and no overlaps. Nothing outside the buffer is consulted to
// find, split, or merge blocks.
//
//   - Alloc(n): first-fit search in address order, split when the remainder
//     can carry its own header
//   - Free(h): recover the header one HeaderSize step before the payload,
//     mark it free, then coalesce adjacent free blocks over the whole list
//   - Inspect(): read-only snapshot of the block list
//   - Initialize(): destructive reset to a single free block
//
// # Usage Example
//
//	a, err := alloc.New(nil) // DefaultOptions: 1024-byte arena
//	if err != nil {
//	    return err
//	}
//
//	h, payload, err := a.Alloc(50) // rounded up to 52 bytes
//	if errors.Is(err, alloc.ErrOutOfMemory) {
//	    // expected outcome, not a fault
//	}
//	copy(payload, "hello")
//
//	_ = a.Free(h)
//
// # Handles
//
// A Handle names the payload offset of a block and is only produced by Alloc.
// It also carries the owning allocator and the reset epoch it was issued in,
// so a handle from another arena or from before Initialize is rejected with
// ErrForeignHandle instead of corrupting state. Handles pointing outside
// [HeaderSize, ArenaBytes] are rejected with ErrOutOfRange. Reusing a handle
// after its block was freed and handed out again cannot be detected; that is
// a caller bug.
//
// Every rejected Free leaves the arena untouched. Callers that want the
// silent behavior of a classic free() may ignore the returned error.
//
// # Zero-Size Requests
//
// ZeroReserveGranule (the default) makes Alloc(0) reserve one 4-byte granule.
// ZeroReject makes it fail with ErrZeroSize.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/arenakit/arena/verify: Structural invariant checks over Bytes()
//   - github.com/joshuapare/arenakit/arena/printer: Text and JSON rendering of Inspect()
//   - github.com/joshuapare/arenakit/internal/format: Block header layout
package alloc
