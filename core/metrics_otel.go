package core

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsOptions configures NewOTelMetrics.
type OTelMetricsOptions struct {
	MeterProvider          metric.MeterProvider
	Meter                  metric.Meter
	InstrumentationName    string
	InstrumentationVersion string
}

var _ MetricHook = (*OTelMetrics)(nil)

// OTelMetrics implements MetricHook using OpenTelemetry counters.
type OTelMetrics struct {
	meter          metric.Meter
	allocations    metric.Int64Counter
	releases       metric.Int64Counter
	allocatedBytes metric.Int64Counter
	releasedBytes  metric.Int64Counter
	violations     metric.Int64Counter
}

// NewOTelMetrics constructs a MetricHook that emits OpenTelemetry counter measurements.
func NewOTelMetrics(opts OTelMetricsOptions) (*OTelMetrics, error) {
	meter := opts.Meter
	if meter == nil {
		provider := opts.MeterProvider
		if provider == nil {
			provider = otel.GetMeterProvider()
		}
		name := opts.InstrumentationName
		if name == "" {
			name = "github.com/rocketbitz/nautilus-ffi-go/core"
		}
		meter = provider.Meter(name, metric.WithInstrumentationVersion(opts.InstrumentationVersion))
	}

	allocations, err := meter.Int64Counter("nautilus.ffi.allocations")
	if err != nil {
		return nil, err
	}
	releases, err := meter.Int64Counter("nautilus.ffi.releases")
	if err != nil {
		return nil, err
	}
	allocatedBytes, err := meter.Int64Counter("nautilus.ffi.allocated_bytes", metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	releasedBytes, err := meter.Int64Counter("nautilus.ffi.released_bytes", metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	violations, err := meter.Int64Counter("nautilus.ffi.contract_violations")
	if err != nil {
		return nil, err
	}

	return &OTelMetrics{
		meter:          meter,
		allocations:    allocations,
		releases:       releases,
		allocatedBytes: allocatedBytes,
		releasedBytes:  releasedBytes,
		violations:     violations,
	}, nil
}

// Allocated records a native allocation handed to the host.
func (o *OTelMetrics) Allocated(kind string, bytes uintptr) {
	attrs := metric.WithAttributes(attribute.String(labelKind, kind))
	o.allocations.Add(context.Background(), 1, attrs)
	o.allocatedBytes.Add(context.Background(), int64(bytes), attrs)
}

// Released records the host releasing a native allocation.
func (o *OTelMetrics) Released(kind string, bytes uintptr) {
	attrs := metric.WithAttributes(attribute.String(labelKind, kind))
	o.releases.Add(context.Background(), 1, attrs)
	o.releasedBytes.Add(context.Background(), int64(bytes), attrs)
}

// ContractViolation counts fatal precondition failures by operation.
func (o *OTelMetrics) ContractViolation(op string) {
	o.violations.Add(context.Background(), 1, metric.WithAttributes(attribute.String(labelOp, op)))
}
