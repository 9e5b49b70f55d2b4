package gesture

// Sample is one timestamped scalar in a motion history.
type Sample struct {
	T     float64 // seconds
	Value float64
}

// Ring is a fixed-capacity FIFO. Push appends at the tail and, once the ring
// is full, evicts the head.
type Ring[T any] struct {
	buf   []T
	start int
	n     int
}

// NewRing creates a ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v, dropping the oldest item when the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of items held.
func (r *Ring[T]) Len() int { return r.n }

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// At returns the i-th item, 0 being the oldest. It panics when i is out of range.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.n {
		panic("gesture: ring index out of range")
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

// Last returns the item k places from the tail; Last(0) is the newest.
func (r *Ring[T]) Last(k int) T {
	return r.At(r.n - 1 - k)
}

// Clear empties the ring without releasing its storage.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start = 0
	r.n = 0
}

// Snapshot copies the items out in arrival order.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.n)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}
