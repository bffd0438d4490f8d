package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocReturnsStoredCopy(t *testing.T) {
	t.Parallel()

	a := New[int]()
	p := a.Alloc(42)
	require.NotNil(t, p)
	assert.Equal(t, 42, *p)
	assert.Equal(t, 1, a.Len())
}

func TestAddressesStableAcrossGrowth(t *testing.T) {
	t.Parallel()

	// Allocate enough entries to force several chunk growths, remembering
	// every pointer, then verify none of them moved or changed.
	const n = firstChunkCap + maxChunkCap*3 + 7

	a := New[int]()
	ptrs := make([]*int, 0, n)
	for i := 0; i < n; i++ {
		ptrs = append(ptrs, a.Alloc(i))
	}

	require.Equal(t, n, a.Len())
	for i, p := range ptrs {
		require.Equal(t, i, *p, "entry %d changed after later allocations", i)
	}

	// Pointers taken early must still refer to the same storage: writing
	// through one must be visible through the arena's copy.
	*ptrs[3] = -1
	assert.Equal(t, -1, *ptrs[3])
}

func TestChunkCapacityDoublesUpToMax(t *testing.T) {
	t.Parallel()

	a := New[byte]()
	total := 0
	for cap := firstChunkCap; cap < maxChunkCap; cap *= 2 {
		total += cap
	}
	// Fill past the doubling phase and into two max-sized chunks.
	for i := 0; i < total+maxChunkCap+1; i++ {
		a.Alloc(byte(i))
	}

	caps := make([]int, 0, len(a.chunks))
	for _, c := range a.chunks {
		caps = append(caps, cap(c))
	}

	want := []int{}
	for c := firstChunkCap; c < maxChunkCap; c *= 2 {
		want = append(want, c)
	}
	want = append(want, maxChunkCap, maxChunkCap)
	assert.Equal(t, want, caps)
}

func TestReleaseEmptiesButKeepsHandedOutPointers(t *testing.T) {
	t.Parallel()

	a := New[string]()
	p := a.Alloc("kept")
	a.Release()

	assert.Equal(t, 0, a.Len())
	assert.Equal(t, "kept", *p)

	// Reusable after release.
	q := a.Alloc("fresh")
	assert.Equal(t, "fresh", *q)
	assert.Equal(t, 1, a.Len())
}

func TestZeroValueUsable(t *testing.T) {
	t.Parallel()

	var a Arena[struct{ x, y int }]
	p := a.Alloc(struct{ x, y int }{1, 2})
	assert.Equal(t, 1, p.x)
	assert.Equal(t, 2, p.y)
}
