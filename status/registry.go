package status

import (
	"slices"
	"strings"
	"sync/atomic"
)

// Registry holds the counters and gauges of the steering layer
// Systems resolve cells once at construction, the tick path only touches atomics
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[Gauge]
}

func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[Gauge](),
	}
}

// Sample is one metric value read by Snapshot
type Sample struct {
	Key   string
	Value float64
	Gauge bool
}

// Snapshot reads every cell, counters first, each group in key order
// prefix filters by key prefix, empty keeps everything
func (r *Registry) Snapshot(prefix string) []Sample {
	var out []Sample
	r.Counters.Range(func(key string, v *atomic.Int64) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, Sample{Key: key, Value: float64(v.Load())})
		}
	})
	r.Gauges.Range(func(key string, v *Gauge) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, Sample{Key: key, Value: v.Load(), Gauge: true})
		}
	})
	return slices.Clip(out)
}
