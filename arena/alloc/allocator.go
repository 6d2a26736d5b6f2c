package alloc

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/joshuapare/arenakit/internal/buf"
	"github.com/joshuapare/arenakit/internal/format"
)

// ownerSeq hands out allocator ids; 0 is reserved for the zero Handle.
var ownerSeq atomic.Uint32

// Allocator is a first-fit allocator over one fixed arena.
// The zero value is usable after Initialize, with DefaultOptions.
type Allocator struct {
	data []byte
	opts Options
	log  *slog.Logger

	id          uint32
	epoch       uint32
	initialized bool

	stats counters
}

// New creates an allocator, allocates its arena once, and initializes it.
// A nil opts means DefaultOptions.
func New(opts *Options) (*Allocator, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
		if o.ArenaBytes == 0 {
			o.ArenaBytes = format.DefaultArenaBytes
		}
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	a := &Allocator{}
	a.setup(o)
	a.Initialize()
	return a, nil
}

func (a *Allocator) setup(o Options) {
	a.opts = o
	a.log = o.logger()
	a.data = make([]byte, o.ArenaBytes)
	a.id = ownerSeq.Add(1)
}

// Initialize resets the arena to a single free block spanning
// ArenaBytes - HeaderSize payload bytes. All outstanding handles become
// invalid. Calling it on a zero Allocator performs the one-time setup with
// DefaultOptions.
func (a *Allocator) Initialize() {
	if a.data == nil {
		a.setup(DefaultOptions())
	}
	clear(a.data)
	format.PutBlock(a.data, format.Block{
		Offset: 0,
		Size:   len(a.data) - format.HeaderSize,
		Free:   true,
		Next:   -1,
	})
	a.epoch++
	a.initialized = true
	a.log.Debug("arena initialized", "arena_bytes", len(a.data), "epoch", a.epoch)
}

// Capacity returns the arena size in bytes.
func (a *Allocator) Capacity() int { return len(a.data) }

// Bytes returns the raw arena image, headers included. The slice aliases the
// arena; it is meant for verification and must not be written.
func (a *Allocator) Bytes() []byte { return a.data }

// Alloc reserves at least n bytes and returns a handle plus the payload slice.
// The payload may be longer than n when the remainder of the chosen block
// was too small to split off. ErrOutOfMemory is the normal failure outcome
// and leaves the arena unchanged.
func (a *Allocator) Alloc(n int) (Handle, []byte, error) {
	if !a.initialized {
		return Handle{}, nil, ErrNotInitialized
	}
	a.stats.AllocCalls++

	size, err := a.roundRequest(n)
	if err != nil {
		return Handle{}, nil, err
	}

	blk, found, err := a.firstFit(size)
	if err != nil {
		return Handle{}, nil, err
	}
	if !found {
		a.stats.OutOfMemory++
		a.log.Info("out of memory", "requested", n, "aligned", size)
		return Handle{}, nil, fmt.Errorf("%w: need %d bytes", ErrOutOfMemory, size)
	}

	switch {
	case blk.Size == size:
		// Exact fit.
	case blk.Size > size+format.HeaderSize:
		a.split(&blk, size)
	default:
		// Remainder cannot carry a header; grant the whole block.
		a.log.Debug("absorbing remainder", "offset", blk.Offset, "size", blk.Size, "need", size)
	}
	blk.Free = false
	format.PutBlock(a.data, blk)

	p := blk.Payload()
	a.log.Debug("alloc", "requested", n, "aligned", size, "offset", blk.Offset, "granted", blk.Size)
	h := Handle{owner: a.id, epoch: a.epoch, off: uint32(p)}
	return h, a.data[p : p+blk.Size : p+blk.Size], nil
}

// roundRequest applies the zero-size policy and rounds n up to the granule.
func (a *Allocator) roundRequest(n int) (int, error) {
	switch {
	case n < 0:
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	case n == 0 && a.opts.ZeroSize == ZeroReject:
		return 0, ErrZeroSize
	case n == 0:
		return format.Alignment, nil
	}
	// Anything past the arena can never fit; cap before rounding so the
	// addition cannot overflow.
	if n > len(a.data) {
		return len(a.data) + format.Alignment, nil
	}
	return format.Align4(n), nil
}

// firstFit returns the first free block, in address order, whose payload is
// at least size bytes.
func (a *Allocator) firstFit(size int) (format.Block, bool, error) {
	var (
		hit   format.Block
		found bool
	)
	err := format.Walk(a.data, func(blk format.Block) bool {
		if blk.Free && blk.Size >= size {
			hit, found = blk, true
			return false
		}
		return true
	})
	if err != nil {
		return format.Block{}, false, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return hit, found, nil
}

// split shrinks blk to size and writes a free tail block after it, linked to
// blk's old successor.
func (a *Allocator) split(blk *format.Block, size int) {
	tail := format.Block{
		Offset: blk.Offset + format.HeaderSize + size,
		Size:   blk.Size - size - format.HeaderSize,
		Free:   true,
		Next:   blk.Next,
	}
	format.PutBlock(a.data, tail)
	blk.Size = size
	blk.Next = tail.Offset
	a.stats.Splits++
	a.log.Debug("split", "offset", blk.Offset, "size", size, "tail_offset", tail.Offset, "tail_size", tail.Size)
}

// Free releases the block owning h and coalesces adjacent free blocks across
// the whole list. A rejected handle returns an error and changes nothing.
func (a *Allocator) Free(h Handle) error {
	if !a.initialized {
		return ErrNotInitialized
	}
	a.stats.FreeCalls++

	blk, err := a.resolve(h)
	if err != nil {
		a.stats.RejectedFrees++
		a.log.Warn("free rejected", "handle", h.String(), "err", err)
		return err
	}
	if blk.Free {
		if !a.opts.GuardDoubleFree {
			return nil
		}
		a.stats.RejectedFrees++
		a.log.Warn("free rejected", "handle", h.String(), "err", ErrDoubleFree)
		return fmt.Errorf("%w: %s", ErrDoubleFree, h)
	}

	format.SetFree(a.data, blk.Offset, true)
	a.log.Debug("free", "offset", blk.Offset, "size", blk.Size)
	return a.coalesce()
}

// Payload returns the payload slice of a live handle.
func (a *Allocator) Payload(h Handle) ([]byte, error) {
	if !a.initialized {
		return nil, ErrNotInitialized
	}
	blk, err := a.resolve(h)
	if err != nil {
		return nil, err
	}
	if blk.Free {
		return nil, fmt.Errorf("%w: %s", ErrNotAllocated, h)
	}
	p := blk.Payload()
	return a.data[p : p+blk.Size : p+blk.Size], nil
}

// resolve maps a handle back to its block: a bounds check, a fixed
// HeaderSize backstep, then a membership check against the block list.
func (a *Allocator) resolve(h Handle) (format.Block, error) {
	off := int(h.off)
	if !buf.InRange(off, format.HeaderSize, len(a.data)) {
		return format.Block{}, fmt.Errorf("%w: offset %d not in [%d, %d]",
			ErrOutOfRange, off, format.HeaderSize, len(a.data))
	}
	if h.owner != a.id || h.epoch != a.epoch {
		return format.Block{}, fmt.Errorf("%w: %s issued elsewhere", ErrForeignHandle, h)
	}

	hdr := off - format.HeaderSize
	var (
		hit   format.Block
		found bool
	)
	err := format.Walk(a.data, func(blk format.Block) bool {
		if blk.Offset == hdr {
			hit, found = blk, true
			return false
		}
		return blk.Offset < hdr
	})
	if err != nil {
		return format.Block{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if !found {
		return format.Block{}, fmt.Errorf("%w: no block header at %d", ErrForeignHandle, hdr)
	}
	return hit, nil
}

// Inspect returns a snapshot of the block list in address order.
func (a *Allocator) Inspect() []BlockInfo {
	if !a.initialized {
		return nil
	}
	var out []BlockInfo
	err := format.Walk(a.data, func(blk format.Block) bool {
		out = append(out, BlockInfo{
			Index:       len(out),
			Offset:      blk.Offset,
			PayloadSize: blk.Size,
			Free:        blk.Free,
		})
		return true
	})
	if err != nil {
		a.log.Warn("inspect stopped early", "blocks", len(out), "err", err)
	}
	return out
}
