// Package verify checks the structural invariants of an arena image.
//
// The checks operate on the raw bytes returned by alloc.Allocator.Bytes and
// never mutate them. They are used by the allocator tests after every
// operation and by arenactl's verify command.
//
// Invariants:
//
//   - The first header sits at offset 0 and every header carries the "bk" signature
//   - Payload sizes are positive multiples of the allocation granule
//   - Each block's next field points exactly at the end of its payload
//   - The last block ends exactly at the arena boundary
//   - Payload plus header bytes over all blocks equal the arena size
//   - No two consecutive blocks are both free
package verify
