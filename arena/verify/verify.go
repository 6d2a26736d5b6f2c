package verify

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/format"
)

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all arena invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Structure(data); err != nil {
		return err
	}
	return NoAdjacentFree(data)
}

// Structure validates headers, linkage, contiguity, and coverage.
func Structure(data []byte) error {
	_, err := Coverage(data)
	return err
}

// Coverage walks the list checking structure and returns the summed
// payload-plus-header bytes, which equals len(data) for a valid arena.
func Coverage(data []byte) (int, error) {
	if len(data) < format.MinArenaBytes {
		return 0, &ValidationError{
			Type:    "Structure",
			Message: fmt.Sprintf("arena too small: %d bytes (need %d)", len(data), format.MinArenaBytes),
			Offset:  -1,
		}
	}

	total := 0
	pos := 0
	for {
		blk, err := format.DecodeBlock(data, pos)
		if err != nil {
			return total, &ValidationError{Type: "Header", Message: err.Error(), Offset: pos}
		}
		if flags := format.ReadU16(data, pos+format.FlagsOffset); flags&^format.FlagFree != 0 {
			return total, &ValidationError{
				Type:    "Header",
				Message: fmt.Sprintf("unknown flag bits 0x%04X", flags),
				Offset:  pos,
			}
		}
		if blk.Size == 0 {
			return total, &ValidationError{Type: "Header", Message: "zero payload size", Offset: pos}
		}
		total += blk.Size + format.HeaderSize

		if blk.Last() {
			if blk.End() != len(data) {
				return total, &ValidationError{
					Type:    "Coverage",
					Message: fmt.Sprintf("last block ends at 0x%X, arena ends at 0x%X", blk.End(), len(data)),
					Offset:  pos,
				}
			}
			break
		}
		if blk.Next != blk.End() {
			return total, &ValidationError{
				Type:    "Linkage",
				Message: fmt.Sprintf("next=0x%X, payload ends at 0x%X", blk.Next, blk.End()),
				Offset:  pos,
			}
		}
		pos = blk.Next
	}

	if total != len(data) {
		return total, &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("blocks cover %d bytes, arena is %d", total, len(data)),
			Offset:  -1,
		}
	}
	return total, nil
}

// NoAdjacentFree validates that no two consecutive blocks are both free.
func NoAdjacentFree(data []byte) error {
	var (
		violation *ValidationError
		prevFree  bool
		prevOff   int
	)
	err := format.Walk(data, func(blk format.Block) bool {
		if prevFree && blk.Free {
			violation = &ValidationError{
				Type:    "Coalescing",
				Message: fmt.Sprintf("free block at 0x%X follows free block at 0x%X", blk.Offset, prevOff),
				Offset:  blk.Offset,
			}
			return false
		}
		prevFree, prevOff = blk.Free, blk.Offset
		return true
	})
	if err != nil {
		return &ValidationError{Type: "Header", Message: err.Error(), Offset: -1}
	}
	if violation != nil {
		return violation
	}
	return nil
}

// FreeBytes returns the total payload bytes held by free blocks.
func FreeBytes(data []byte) (int, error) {
	total := 0
	err := format.Walk(data, func(blk format.Block) bool {
		if blk.Free {
			total += blk.Size
		}
		return true
	})
	if err != nil {
		return 0, &ValidationError{Type: "Header", Message: err.Error(), Offset: -1}
	}
	return total, nil
}
