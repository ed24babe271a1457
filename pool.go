package evalcore

import (
	"sync"
	"sync/atomic"
)

// workPool hands out reusable row-block work matrices: one column per
// tree node, each with capacity for one batch of rows. Work buffers are
// reused across row blocks and across calls rather than allocated per
// call.
type workPool[T any] struct {
	sync.Pool
	totalAllocated atomic.Int64 // total matrices allocated
	currentLive    atomic.Int64 // matrices currently checked out
}

func newWorkPool[T any]() *workPool[T] {
	return &workPool[T]{}
}

// get returns a work matrix with at least numNodes columns, each with
// capacity for at least batchSize rows. A nil receiver always allocates
// fresh.
func (p *workPool[T]) get(numNodes, batchSize int) [][]T {
	if p == nil {
		return newWorkMatrix[T](numNodes, batchSize)
	}

	p.currentLive.Add(1)

	i := p.Pool.Get()
	if i == nil {
		p.totalAllocated.Add(1)
		return newWorkMatrix[T](numNodes, batchSize)
	}

	m := i.([][]T)
	if len(m) < numNodes || len(m[0]) < batchSize {
		p.totalAllocated.Add(1)
		return newWorkMatrix[T](numNodes, batchSize)
	}
	return m[:numNodes]
}

// put returns a work matrix to the pool for reuse.
func (p *workPool[T]) put(m [][]T) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	p.Pool.Put(m)
}

// stats returns the count of currently checked-out matrices and the
// total allocated over the pool's lifetime.
func (p *workPool[T]) stats() (live, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}

// newWorkMatrix allocates a numNodes x batchSize matrix as one
// contiguous backing slice sliced into per-node columns, so a full
// matrix is one allocation rather than numNodes of them.
func newWorkMatrix[T any](numNodes, batchSize int) [][]T {
	m := make([][]T, numNodes)
	backing := make([]T, numNodes*batchSize)
	for i := range m {
		m[i] = backing[i*batchSize : (i+1)*batchSize]
	}
	return m
}
