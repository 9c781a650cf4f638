package status

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/niello/deusexmachina-sub012/status"

// Bridge exports registry metrics as OpenTelemetry observable gauges
// Values are read on collection, the tick path keeps writing plain atomics
type Bridge struct {
	reg *Registry

	counters metric.Int64ObservableGauge
	gauges   metric.Float64ObservableGauge

	registration metric.Registration
}

// NewBridge registers the gauges on m, nil m uses the global meter (no-op if not configured)
func NewBridge(reg *Registry, m metric.Meter) (*Bridge, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	b := &Bridge{reg: reg}

	var err error
	b.counters, err = m.Int64ObservableGauge(
		"steering.status.count",
		metric.WithDescription("Steering counters by name"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating counter gauge: %w", err)
	}

	b.gauges, err = m.Float64ObservableGauge(
		"steering.status.value",
		metric.WithDescription("Steering gauges by name"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating value gauge: %w", err)
	}

	b.registration, err = m.RegisterCallback(b.observe, b.counters, b.gauges)
	if err != nil {
		return nil, fmt.Errorf("registering status callback: %w", err)
	}
	return b, nil
}

func (b *Bridge) observe(_ context.Context, o metric.Observer) error {
	for _, s := range b.reg.Snapshot("") {
		attrs := metric.WithAttributes(attribute.String("name", s.Key))
		if s.Gauge {
			o.ObserveFloat64(b.gauges, s.Value, attrs)
		} else {
			o.ObserveInt64(b.counters, int64(s.Value), attrs)
		}
	}
	return nil
}

// Close unregisters the collection callback
func (b *Bridge) Close() error {
	if b.registration == nil {
		return nil
	}
	return b.registration.Unregister()
}
