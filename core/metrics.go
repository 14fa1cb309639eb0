package core

import "sync/atomic"

// Allocation kinds reported to a MetricHook.
const (
	KindCVec    = "cvec"
	KindCString = "cstring"
)

const (
	labelKind = "kind"
	labelOp   = "op"
)

// MetricHook observes native allocations crossing the boundary. Implementations
// must be safe for concurrent use.
type MetricHook interface {
	Allocated(kind string, bytes uintptr)
	Released(kind string, bytes uintptr)
	ContractViolation(op string)
}

type hookHolder struct {
	hook MetricHook
}

var metrics atomic.Pointer[hookHolder]

// SetMetricHook installs the hook notified on every allocation, release and
// contract violation. Passing nil disables metrics.
func SetMetricHook(h MetricHook) {
	if h == nil {
		metrics.Store(nil)
		return
	}
	metrics.Store(&hookHolder{hook: h})
}

func metricHook() MetricHook {
	if h := metrics.Load(); h != nil {
		return h.hook
	}
	return nil
}

func recordAllocated(kind string, bytes uintptr) {
	if hook := metricHook(); hook != nil {
		hook.Allocated(kind, bytes)
	}
}

func recordReleased(kind string, bytes uintptr) {
	if hook := metricHook(); hook != nil {
		hook.Released(kind, bytes)
	}
}
