package core

import "github.com/prometheus/client_golang/prometheus"

// PrometheusMetricsOptions configures NewPrometheusMetrics.
type PrometheusMetricsOptions struct {
	Registerer  prometheus.Registerer
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
}

var _ MetricHook = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements MetricHook using Prometheus counters.
type PrometheusMetrics struct {
	allocations    *prometheus.CounterVec
	releases       *prometheus.CounterVec
	allocatedBytes *prometheus.CounterVec
	releasedBytes  *prometheus.CounterVec
	violations     *prometheus.CounterVec
}

// NewPrometheusMetrics constructs a MetricHook backed by Prometheus counters.
func NewPrometheusMetrics(opts PrometheusMetricsOptions) (*PrometheusMetrics, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counter := func(name, help string, keys []string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: opts.ConstLabels,
		}, keys)
	}

	p := &PrometheusMetrics{
		allocations:    counter("nautilus_ffi_allocations_total", "Number of native allocations handed to the host", kindLabelKeys),
		releases:       counter("nautilus_ffi_releases_total", "Number of native allocations released by the host", kindLabelKeys),
		allocatedBytes: counter("nautilus_ffi_allocated_bytes_total", "Bytes allocated for the host", kindLabelKeys),
		releasedBytes:  counter("nautilus_ffi_released_bytes_total", "Bytes released by the host", kindLabelKeys),
		violations:     counter("nautilus_ffi_contract_violations_total", "Number of fatal contract violations", opLabelKeys),
	}

	var err error
	if p.allocations, err = registerCounterVec(reg, p.allocations); err != nil {
		return nil, err
	}
	if p.releases, err = registerCounterVec(reg, p.releases); err != nil {
		return nil, err
	}
	if p.allocatedBytes, err = registerCounterVec(reg, p.allocatedBytes); err != nil {
		return nil, err
	}
	if p.releasedBytes, err = registerCounterVec(reg, p.releasedBytes); err != nil {
		return nil, err
	}
	if p.violations, err = registerCounterVec(reg, p.violations); err != nil {
		return nil, err
	}

	return p, nil
}

var (
	kindLabelKeys = []string{labelKind}
	opLabelKeys   = []string{labelOp}
)

func (p *PrometheusMetrics) Allocated(kind string, bytes uintptr) {
	p.allocations.WithLabelValues(kind).Inc()
	p.allocatedBytes.WithLabelValues(kind).Add(float64(bytes))
}

func (p *PrometheusMetrics) Released(kind string, bytes uintptr) {
	p.releases.WithLabelValues(kind).Inc()
	p.releasedBytes.WithLabelValues(kind).Add(float64(bytes))
}

func (p *PrometheusMetrics) ContractViolation(op string) {
	p.violations.WithLabelValues(op).Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}
