package pools

import "sync/atomic"

// Poolable is implemented by objects recycled through a SessionPool.
type Poolable interface {
	Reset()
}

// SessionPool is a worker-local free list of session control blocks.
// In-use blocks are owned by their connection's task; idle blocks are
// owned by the pool and returned to the heap only when the worker dies.
// Counters are atomic for the same reason as BufferPool's.
type SessionPool struct {
	newFunc func() Poolable
	free    []Poolable

	gets atomic.Uint64
	puts atomic.Uint64
	news atomic.Uint64
}

// NewSessionPool creates a pool producing blocks with newFunc.
func NewSessionPool(newFunc func() Poolable) *SessionPool {
	return &SessionPool{newFunc: newFunc}
}

// Acquire pops an idle block or allocates a fresh one.
func (p *SessionPool) Acquire() Poolable {
	p.gets.Add(1)
	if n := len(p.free); n > 0 {
		obj := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return obj
	}
	p.news.Add(1)
	return p.newFunc()
}

// Release resets the block and pushes it onto the free list. The
// append may grow the list's backing array, but it never blocks and
// never leaves the worker.
func (p *SessionPool) Release(obj Poolable) {
	if obj == nil {
		return
	}
	obj.Reset()
	p.puts.Add(1)
	p.free = append(p.free, obj)
}

// Idle reports the current free-list length.
func (p *SessionPool) Idle() int {
	return len(p.free)
}

// InUse reports how many acquired blocks have not been released.
func (p *SessionPool) InUse() int {
	return int(p.gets.Load() - p.puts.Load())
}

// Stats reports gets, puts, and the fraction of acquires served from
// the free list.
func (p *SessionPool) Stats() (gets, puts uint64, hitRate float64) {
	g, n := p.gets.Load(), p.news.Load()
	if g > 0 {
		hitRate = float64(g-n) / float64(g)
	}
	return g, p.puts.Load(), hitRate
}
