// Package arena provides a growable allocator whose entries never move.
//
// The arena hands out pointers into fixed-capacity chunks and only ever
// appends; a chunk is never resized or compacted once created, so every
// pointer returned by Alloc stays valid and unchanged for the arena's whole
// lifetime. That address stability is the point: callers are expected to hand
// the returned pointers to code that retains and dereferences them long after
// the allocation call.
//
// An Arena is not safe for concurrent use. It is meant to be owned by a single
// parsing session and dropped with it.
package arena

const (
	// firstChunkCap is the capacity of the first chunk. Small documents
	// should not pay for a large allocation up front.
	firstChunkCap = 16

	// maxChunkCap caps the doubling growth. Beyond this, chunks are
	// allocated at a fixed size; growth stays amortized O(1) per entry.
	maxChunkCap = 1024
)

// Arena is an append-only allocator for values of type T.
//
// The zero value is ready to use.
type Arena[T any] struct {
	chunks [][]T
	n      int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v in the arena and returns a pointer to the stored copy. The
// pointer remains valid and the pointee unmoved until the arena itself is
// unreachable; Release does not invalidate pointers already handed out.
func (a *Arena[T]) Alloc(v T) *T {
	last := len(a.chunks) - 1
	if last < 0 || len(a.chunks[last]) == cap(a.chunks[last]) {
		a.grow()
		last = len(a.chunks) - 1
	}
	a.chunks[last] = append(a.chunks[last], v)
	a.n++
	return &a.chunks[last][len(a.chunks[last])-1]
}

// Len reports how many values have been allocated.
func (a *Arena[T]) Len() int {
	return a.n
}

// Release drops the arena's own references to its chunks so they can be
// collected once no caller-held pointers remain. The arena is empty and
// reusable afterwards.
func (a *Arena[T]) Release() {
	a.chunks = nil
	a.n = 0
}

func (a *Arena[T]) grow() {
	c := firstChunkCap
	if last := len(a.chunks) - 1; last >= 0 {
		c = cap(a.chunks[last]) * 2
		if c > maxChunkCap {
			c = maxChunkCap
		}
	}
	a.chunks = append(a.chunks, make([]T, 0, c))
}
