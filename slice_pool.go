package cfr

// slicePool keeps the scratch vectors released by finished nodes of a walk
// so deeper nodes can reuse their backing arrays. Every trainer owns its
// pools; a nil pool allocates on every call.
type slicePool[T any] struct {
	spare [][]T
}

// alloc returns a zeroed slice of length n.
func (p *slicePool[T]) alloc(n int) []T {
	if p == nil || len(p.spare) == 0 {
		return make([]T, n)
	}

	last := len(p.spare) - 1
	s := p.spare[last]
	p.spare = p.spare[:last]
	if cap(s) < n {
		return make([]T, n)
	}

	s = s[:n]
	clear(s)
	return s
}

// free returns s to the pool. s must not be used afterwards.
func (p *slicePool[T]) free(s []T) {
	if p == nil || cap(s) == 0 {
		return
	}

	p.spare = append(p.spare, s[:0])
}
