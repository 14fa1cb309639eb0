package ffi

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rocketbitz/nautilus-ffi-go/core"
	"github.com/rocketbitz/nautilus-ffi-go/msgbus"
)

// Go pointers may not be retained by C, so long-lived Go objects cross the
// boundary as opaque integer handles resolved through this registry.
var (
	busRegistry sync.Map // uint64 -> *msgbus.MessageBus
	busSeq      atomic.Uint64
)

func storeBus(bus *msgbus.MessageBus) uint64 {
	handle := busSeq.Add(1)
	busRegistry.Store(handle, bus)
	return handle
}

func loadBus(op string, handle uint64) *msgbus.MessageBus {
	value, ok := busRegistry.Load(handle)
	if !ok {
		core.Violate(op, ErrUnknownHandle, strconv.FormatUint(handle, 10))
	}
	return value.(*msgbus.MessageBus)
}

func releaseBus(op string, handle uint64) {
	if _, ok := busRegistry.LoadAndDelete(handle); !ok {
		core.Violate(op, ErrUnknownHandle, strconv.FormatUint(handle, 10))
	}
}
