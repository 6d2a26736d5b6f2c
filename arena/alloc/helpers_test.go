package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena/verify"
	"github.com/joshuapare/arenakit/internal/format"
)

const (
	// fullPayload is the single free block of a fresh default arena.
	fullPayload = format.DefaultArenaBytes - format.HeaderSize

	// slot is the footprint of a 52-byte block (50 rounded up) plus its header.
	slot = 52 + format.HeaderSize
)

// newTestAllocator creates an allocator, letting mutate adjust DefaultOptions.
func newTestAllocator(t *testing.T, mutate ...func(*Options)) *Allocator {
	t.Helper()
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	a, err := New(&opts)
	require.NoError(t, err)
	return a
}

// mustAlloc allocates n bytes and fails the test on error.
func mustAlloc(t *testing.T, a *Allocator, n int) (Handle, []byte) {
	t.Helper()
	h, payload, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.False(t, h.IsZero())
	return h, payload
}

// assertInvariants checks all structural invariants of the arena.
func assertInvariants(t *testing.T, a *Allocator) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(a.Bytes()))
}

// layout returns payload sizes with allocated blocks negated, mirroring
// verify's test layout notation.
func layout(a *Allocator) []int {
	var out []int
	for _, b := range a.Inspect() {
		if b.Free {
			out = append(out, b.PayloadSize)
		} else {
			out = append(out, -b.PayloadSize)
		}
	}
	return out
}

// snapshot copies the arena image for later comparison.
func snapshot(a *Allocator) []byte {
	return append([]byte(nil), a.Bytes()...)
}
