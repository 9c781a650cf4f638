package status

import (
	"math"
	"sync/atomic"
)

// Gauge is a float64 cell stored as raw bits, zero value reads 0
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

func (g *Gauge) Load() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Peak raises the gauge to v if v is larger, returns the resulting value
func (g *Gauge) Peak(v float64) float64 {
	for {
		old := g.bits.Load()
		cur := math.Float64frombits(old)
		if v <= cur {
			return cur
		}
		if g.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return v
		}
	}
}
