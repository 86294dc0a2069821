// Package admission bounds the number of sessions open at once.
package admission

import "sync/atomic"

// Gate admits up to a fixed number of concurrent sessions. Connections
// over the cap are turned away, not queued.
type Gate struct {
	capacity int64
	active   atomic.Int64
	rejected atomic.Int64
}

func New(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{capacity: int64(capacity)}
}

// TryAdmit takes a slot if one is free.
func (g *Gate) TryAdmit() bool {
	for {
		cur := g.active.Load()
		if cur >= g.capacity {
			g.rejected.Add(1)
			return false
		}
		if g.active.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Release gives back a slot taken by TryAdmit.
func (g *Gate) Release() {
	if g.active.Add(-1) < 0 {
		panic("admission: Release without matching TryAdmit")
	}
}

func (g *Gate) Active() int64   { return g.active.Load() }
func (g *Gate) Rejected() int64 { return g.rejected.Load() }
func (g *Gate) Capacity() int64 { return g.capacity }
