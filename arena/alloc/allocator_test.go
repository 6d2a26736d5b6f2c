package alloc

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
)

func TestNew_Defaults(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)

	assert.Equal(t, format.DefaultArenaBytes, a.Capacity())
	assert.Equal(t, []BlockInfo{{Index: 0, Offset: 0, PayloadSize: fullPayload, Free: true}}, a.Inspect())
	assertInvariants(t, a)
}

func TestNew_ZeroArenaBytesMeansDefault(t *testing.T) {
	a, err := New(&Options{GuardDoubleFree: true})
	require.NoError(t, err)
	assert.Equal(t, format.DefaultArenaBytes, a.Capacity())
}

func TestNew_RejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"too small", Options{ArenaBytes: format.HeaderSize}},
		{"misaligned", Options{ArenaBytes: 1026}},
		{"too large", Options{ArenaBytes: format.MaxArenaBytes + format.Alignment}},
		{"unknown zero policy", Options{ArenaBytes: 1024, ZeroSize: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&tt.opts)
			require.ErrorIs(t, err, ErrBadOptions)
		})
	}
}

func TestNew_CustomCapacity(t *testing.T) {
	a := newTestAllocator(t, func(o *Options) { o.ArenaBytes = 4096 })
	assert.Equal(t, []int{4096 - format.HeaderSize}, layout(a))
	assertInvariants(t, a)
}

func TestZeroValue_RequiresInitialize(t *testing.T) {
	var a Allocator

	_, _, err := a.Alloc(8)
	require.ErrorIs(t, err, ErrNotInitialized)
	require.ErrorIs(t, a.Free(Handle{}), ErrNotInitialized)
	_, err = a.Payload(Handle{})
	require.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, a.Inspect())

	a.Initialize()
	assert.Equal(t, format.DefaultArenaBytes, a.Capacity())
	h, _ := mustAlloc(t, &a, 8)
	require.NoError(t, a.Free(h))
	assertInvariants(t, &a)
}

func TestInitialize_WipesAllocations(t *testing.T) {
	a := newTestAllocator(t)
	h1, _ := mustAlloc(t, a, 50)
	mustAlloc(t, a, 100)
	require.Len(t, a.Inspect(), 3)

	a.Initialize()
	assert.Equal(t, []int{fullPayload}, layout(a))
	assertInvariants(t, a)

	// Handles from before the reset belong to an older epoch.
	require.ErrorIs(t, a.Free(h1), ErrForeignHandle)
}

func TestInitialize_RepeatIsReset(t *testing.T) {
	a := newTestAllocator(t)
	a.Initialize()
	a.Initialize()
	assert.Equal(t, []int{fullPayload}, layout(a))

	// A fully fragmented head does not trigger a reset by itself.
	mustAlloc(t, a, fullPayload)
	assert.Equal(t, []int{-fullPayload}, layout(a))
	_, _, err := a.Alloc(4)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, []int{-fullPayload}, layout(a))
}

func TestAlloc_RoundsToGranule(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{50, 52},
		{10, 12},
	}
	for _, tt := range tests {
		a := newTestAllocator(t)
		_, payload := mustAlloc(t, a, tt.n)
		assert.Len(t, payload, tt.want, "Alloc(%d)", tt.n)
		assert.Equal(t, -tt.want, layout(a)[0], "Alloc(%d)", tt.n)
		assertInvariants(t, a)
	}
}

func TestAlloc_SplitsOversizedBlock(t *testing.T) {
	a := newTestAllocator(t)
	h, payload := mustAlloc(t, a, 50)

	assert.Equal(t, format.HeaderSize, h.Offset(), "first payload follows the head header")
	assert.Len(t, payload, 52)
	assert.Equal(t, []int{-52, fullPayload - 52 - format.HeaderSize}, layout(a))
	assert.Equal(t, 1, a.Stats().Splits)
	assertInvariants(t, a)
}

func TestAlloc_ExactFitLeavesNoFreeBlock(t *testing.T) {
	a := newTestAllocator(t)
	_, payload := mustAlloc(t, a, fullPayload)

	assert.Len(t, payload, fullPayload)
	assert.Equal(t, []int{-fullPayload}, layout(a))
	assert.Equal(t, 0, a.Stats().FreeBlocks)
	assert.Equal(t, 0, a.Stats().Splits)
	assertInvariants(t, a)
}

func TestAlloc_AbsorbsUnsplittableRemainder(t *testing.T) {
	// A remainder of at most one header cannot become its own block.
	for _, n := range []int{fullPayload - format.HeaderSize, fullPayload - 8, fullPayload - 4} {
		a := newTestAllocator(t)
		_, payload := mustAlloc(t, a, n)
		assert.Len(t, payload, fullPayload, "Alloc(%d) should get the whole block", n)
		assert.Equal(t, []int{-fullPayload}, layout(a))
		assertInvariants(t, a)
	}
}

func TestAlloc_SplitsAtThresholdPlusOneGranule(t *testing.T) {
	a := newTestAllocator(t)
	n := fullPayload - format.HeaderSize - format.Alignment
	_, payload := mustAlloc(t, a, n)

	assert.Len(t, payload, n)
	assert.Equal(t, []int{-n, format.Alignment}, layout(a))
	assertInvariants(t, a)
}

func TestAlloc_OutOfMemoryLeavesStateUnchanged(t *testing.T) {
	for _, n := range []int{fullPayload + 1, fullPayload + 4, 2000, format.MaxArenaBytes * 2} {
		a := newTestAllocator(t)
		before := snapshot(a)

		h, payload, err := a.Alloc(n)
		require.ErrorIs(t, err, ErrOutOfMemory, "Alloc(%d)", n)
		assert.True(t, h.IsZero())
		assert.Nil(t, payload)
		assert.Equal(t, before, a.Bytes())
		assert.Equal(t, 1, a.Stats().OutOfMemory)
	}
}

func TestAlloc_OutOfMemoryWhenFragmented(t *testing.T) {
	a := newTestAllocator(t)
	var hs []Handle
	for n := 0; n < 8; n++ {
		h, _ := mustAlloc(t, a, 50)
		hs = append(hs, h)
	}
	// Free every other block: plenty of total free space, no single fit.
	for i := 0; i < len(hs); i += 2 {
		require.NoError(t, a.Free(hs[i]))
	}
	tailFree := fullPayload - 8*slot
	require.Greater(t, a.Stats().FreeBytes, tailFree)

	_, _, err := a.Alloc(tailFree + 4)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assertInvariants(t, a)
}

func TestAlloc_FirstFitPicksLowestAddress(t *testing.T) {
	a := newTestAllocator(t)
	var hs []Handle
	for n := 0; n < 6; n++ {
		h, _ := mustAlloc(t, a, 50)
		hs = append(hs, h)
	}
	require.NoError(t, a.Free(hs[3]))
	require.NoError(t, a.Free(hs[1]))
	require.Equal(t, []int{-52, 52, -52, 52, -52, -52, fullPayload - 6*slot}, layout(a))

	first, _ := mustAlloc(t, a, 52)
	second, _ := mustAlloc(t, a, 52)
	third, _ := mustAlloc(t, a, 52)

	assert.Equal(t, hs[1].Offset(), first.Offset())
	assert.Equal(t, hs[3].Offset(), second.Offset())
	assert.Equal(t, 6*slot+format.HeaderSize, third.Offset())
	assertInvariants(t, a)
}

func TestAlloc_FirstFitSkipsTooSmallBlocks(t *testing.T) {
	a := newTestAllocator(t)
	small, _ := mustAlloc(t, a, 8)
	mustAlloc(t, a, 8)
	require.NoError(t, a.Free(small))

	h, _ := mustAlloc(t, a, 16)
	assert.Equal(t, 2*(8+format.HeaderSize)+format.HeaderSize, h.Offset())
	assert.Equal(t, 8, layout(a)[0], "small hole stays free")
	assertInvariants(t, a)
}

func TestAlloc_Deterministic(t *testing.T) {
	sequence := []int{64, 128, 7, 200, 0, 33, 100}

	run := func() []int {
		a := newTestAllocator(t)
		var offsets []int
		var live []Handle
		for i, n := range sequence {
			h, _ := mustAlloc(t, a, n)
			offsets = append(offsets, h.Offset())
			live = append(live, h)
			if i%3 == 2 {
				require.NoError(t, a.Free(live[0]))
				live = live[1:]
			}
		}
		return offsets
	}

	assert.Equal(t, run(), run(), "allocations must be deterministic")
}

func TestAlloc_ZeroSizePolicy(t *testing.T) {
	t.Run("reserve granule", func(t *testing.T) {
		a := newTestAllocator(t)
		h, payload := mustAlloc(t, a, 0)
		assert.Len(t, payload, format.Alignment)
		assert.Equal(t, []int{-format.Alignment, fullPayload - format.Alignment - format.HeaderSize}, layout(a))
		require.NoError(t, a.Free(h))
		assert.Equal(t, []int{fullPayload}, layout(a))
	})

	t.Run("reject", func(t *testing.T) {
		a := newTestAllocator(t, func(o *Options) { o.ZeroSize = ZeroReject })
		before := snapshot(a)
		h, payload, err := a.Alloc(0)
		require.ErrorIs(t, err, ErrZeroSize)
		assert.True(t, h.IsZero())
		assert.Nil(t, payload)
		assert.Equal(t, before, a.Bytes())

		_, payload = mustAlloc(t, a, 1)
		assert.Len(t, payload, format.Alignment, "non-zero requests are unaffected")
	})
}

func TestAlloc_NegativeSize(t *testing.T) {
	a := newTestAllocator(t)
	_, _, err := a.Alloc(-1)
	require.ErrorIs(t, err, ErrBadSize)
	assert.Equal(t, []int{fullPayload}, layout(a))
}

func TestAlloc_PayloadIsCapped(t *testing.T) {
	a := newTestAllocator(t)
	h, payload := mustAlloc(t, a, 8)
	mustAlloc(t, a, 8)
	require.Equal(t, len(payload), cap(payload))

	// Appending must reallocate instead of writing into the next header.
	grown := append(payload, 'x')
	grown[0] = 'y'
	assertInvariants(t, a)

	got, err := a.Payload(h)
	require.NoError(t, err)
	assert.NotEqual(t, byte('y'), got[0])
}

func TestAlloc_Logging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := newTestAllocator(t, func(o *Options) { o.Logger = logger })

	h, _ := mustAlloc(t, a, 50)
	_, _, err := a.Alloc(5000)
	require.True(t, errors.Is(err, ErrOutOfMemory))
	require.NoError(t, a.Free(h))
	require.Error(t, a.Free(h))

	out := logs.String()
	assert.Contains(t, out, "msg=split")
	assert.Contains(t, out, `msg="out of memory"`)
	assert.Contains(t, out, "msg=merge")
	assert.Contains(t, out, `msg="free rejected"`)
}
