package dd

import "sync"

// pool reduces GC pressure from the child-diagram slices the evaluator
// allocates once per join-tree node while walking a slice. Adapted from
// the object-pool idiom a SAT solver uses to reuse trail/assignment
// structures across decisions — here the hot allocation is a []Dd rather
// than a trail entry.
type pool struct {
	childListPool *sync.Pool
}

func newPool() *pool {
	return &pool{
		childListPool: &sync.Pool{
			New: func() interface{} {
				return make([]Dd, 0, 16)
			},
		},
	}
}

// GetChildList returns a zero-length []Dd with at least the requested
// capacity.
func (p *pool) GetChildList(size int) []Dd {
	slice := p.childListPool.Get().([]Dd)
	if cap(slice) < size {
		return make([]Dd, 0, size)
	}
	return slice[:0]
}

// PutChildList returns a child list to the pool.
func (p *pool) PutChildList(slice []Dd) {
	if slice != nil && cap(slice) <= 128 {
		p.childListPool.Put(slice)
	}
}
