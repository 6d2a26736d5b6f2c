package alloc

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/format"
)

// coalesce walks the list from the head and merges every run of adjacent
// free blocks into its first block. After a merge the same block is examined
// again, since its new successor may also be free. Each merge removes one
// block, so the pass ends after at most (blocks - 1) merges.
func (a *Allocator) coalesce() error {
	off := 0
	for {
		cur, err := format.DecodeBlock(a.data, off)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if cur.Last() {
			return nil
		}
		next, err := format.DecodeBlock(a.data, cur.Next)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if !cur.Free || !next.Free {
			off = cur.Next
			continue
		}

		cur.Size += next.Size + format.HeaderSize
		cur.Next = next.Next
		format.PutBlock(a.data, cur)
		// Wipe the absorbed header so it cannot be decoded again.
		clear(a.data[next.Offset : next.Offset+format.HeaderSize])
		a.stats.Merges++
		a.log.Debug("merge", "offset", cur.Offset, "absorbed", next.Offset, "size", cur.Size)
	}
}
