package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free block is large enough for the request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrZeroSize indicates a zero-byte request under the ZeroReject policy.
	ErrZeroSize = errors.New("alloc: zero-size request rejected")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("alloc: negative request size")

	// ErrOutOfRange indicates a handle whose offset lies outside the arena.
	ErrOutOfRange = errors.New("alloc: handle out of range")

	// ErrForeignHandle indicates a handle that does not name a block of this
	// arena in its current epoch.
	ErrForeignHandle = errors.New("alloc: handle not owned by this arena")

	// ErrDoubleFree indicates Free on a block that is already free.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrNotAllocated indicates payload access through a handle whose block is free.
	ErrNotAllocated = errors.New("alloc: block not allocated")

	// ErrNotInitialized indicates use of an Allocator before Initialize or New.
	ErrNotInitialized = errors.New("alloc: arena not initialized")

	// ErrBadOptions indicates that Options failed validation.
	ErrBadOptions = errors.New("alloc: bad options")

	// ErrCorrupt indicates a block header that failed to decode.
	ErrCorrupt = errors.New("alloc: arena corrupt")
)
