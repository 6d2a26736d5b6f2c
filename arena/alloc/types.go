package alloc

import "fmt"

// Handle is an opaque reference to an allocated payload. Only Alloc creates
// non-zero handles; the zero Handle is never valid.
type Handle struct {
	owner uint32 // id of the issuing Allocator
	epoch uint32 // Initialize count at issue time
	off   uint32 // payload offset within the arena
}

// Offset returns the payload offset within the arena, for diagnostics.
func (h Handle) Offset() int { return int(h.off) }

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h == Handle{} }

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(0x%X)", h.off)
}

// BlockInfo describes one block in list order.
type BlockInfo struct {
	Index       int  `json:"index"`
	Offset      int  `json:"offset"`
	PayloadSize int  `json:"size"`
	Free        bool `json:"free"`
}

// ZeroSizePolicy selects how Alloc treats a request for zero bytes.
type ZeroSizePolicy uint8

const (
	// ZeroReserveGranule rounds a zero-byte request up to one granule.
	ZeroReserveGranule ZeroSizePolicy = iota
	// ZeroReject fails a zero-byte request with ErrZeroSize.
	ZeroReject
)

func (p ZeroSizePolicy) String() string {
	switch p {
	case ZeroReserveGranule:
		return "reserve"
	case ZeroReject:
		return "reject"
	default:
		return fmt.Sprintf("ZeroSizePolicy(%d)", uint8(p))
	}
}

// ParseZeroSizePolicy parses the String form of a policy.
func ParseZeroSizePolicy(s string) (ZeroSizePolicy, error) {
	switch s {
	case "reserve", "":
		return ZeroReserveGranule, nil
	case "reject":
		return ZeroReject, nil
	default:
		return 0, fmt.Errorf("%w: unknown zero-size policy %q (must be reserve or reject)", ErrBadOptions, s)
	}
}
