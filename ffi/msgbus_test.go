//go:build cgo

package ffi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketbitz/nautilus-ffi-go/core"
	"github.com/rocketbitz/nautilus-ffi-go/internal/capi"
	"github.com/rocketbitz/nautilus-ffi-go/msgbus"
)

// hostCallable stands in for a host object: a live C allocation the bus
// only ever stores and hands back.
func hostCallable(t *testing.T) unsafe.Pointer {
	t.Helper()
	ptr := capi.AllocBytes(1)
	require.NotNil(t, ptr)
	t.Cleanup(func() { capi.FreeBytes(ptr) })
	return ptr
}

func cvecStrings(v []unsafe.Pointer) []string {
	out := make([]string, len(v))
	for i, ptr := range v {
		out[i] = core.CStringToString(ptr)
	}
	return out
}

func TestMessageBusHandleLifecycle(t *testing.T) {
	before := liveBuses()
	traderID := cString("TRADER-001")
	name := cString("RiskBus")
	defer cstr_drop(traderID)
	defer cstr_drop(name)

	bus := msgbus_new(traderID, name)
	assert.Equal(t, before+1, liveBuses())
	assert.Equal(t, "RiskBus", loadBus("test", uint64(bus)).Name())

	msgbus_drop(bus)
	assert.Equal(t, before, liveBuses())

	expectViolation(t, ErrUnknownHandle, func() { msgbus_drop(bus) })
	expectViolation(t, ErrUnknownHandle, func() { msgbus_topics(bus) })
}

func TestMessageBusInvalidTraderID(t *testing.T) {
	traderID := cString("TRADER")
	defer cstr_drop(traderID)
	expectViolation(t, msgbus.ErrInvalidTraderID, func() { msgbus_new(traderID, nil) })
	expectViolation(t, core.ErrNullPointer, func() { msgbus_new(nil, nil) })
}

func TestMessageBusRegistration(t *testing.T) {
	traderID := cString("TRADER-001")
	defer cstr_drop(traderID)
	bus := msgbus_new(traderID, nil)
	defer msgbus_drop(bus)
	callable := hostCallable(t)
	endpoint := cString("DataEngine.execute")
	handlerID := cString("handler-1")
	defer cstr_drop(endpoint)
	defer cstr_drop(handlerID)

	assert.Zero(t, uint8(msgbus_is_registered(bus, endpoint)))
	assert.Nil(t, msgbus_get_endpoint(bus, endpoint))

	msgbus_register(bus, endpoint, handlerID, callable)
	assert.Equal(t, uint8(1), uint8(msgbus_is_registered(bus, endpoint)))
	assert.Equal(t, callable, msgbus_get_endpoint(bus, endpoint))

	names := msgbus_endpoints(bus)
	assert.Equal(t, []string{"DataEngine.execute"}, cvecStrings(core.CVecSlice[unsafe.Pointer](fromCVec(names))))
	vec_cstr_drop(names)

	msgbus_deregister(bus, endpoint)
	assert.Zero(t, uint8(msgbus_is_registered(bus, endpoint)))
}

func TestMessageBusSubscriptions(t *testing.T) {
	traderID := cString("TRADER-001")
	defer cstr_drop(traderID)
	bus := msgbus_new(traderID, nil)
	defer msgbus_drop(bus)
	low, high := hostCallable(t), hostCallable(t)
	pattern := cString("data.quotes.*")
	topic := cString("data.quotes.BINANCE")
	lowID := cString("low")
	highID := cString("high")
	defer cstr_drop(pattern)
	defer cstr_drop(topic)
	defer cstr_drop(lowID)
	defer cstr_drop(highID)

	assert.Zero(t, uint8(msgbus_has_subscribers(bus, topic)))

	msgbus_subscribe(bus, pattern, lowID, low, 1)
	msgbus_subscribe(bus, pattern, highID, high, 9)
	assert.Equal(t, uint8(1), uint8(msgbus_has_subscribers(bus, topic)))
	assert.Equal(t, uint8(1), uint8(msgbus_is_subscribed(bus, pattern, lowID, low)))

	callables := msgbus_get_matching_callables(bus, topic)
	got := core.CVecSlice[unsafe.Pointer](fromCVec(callables))
	assert.Equal(t, []unsafe.Pointer{high, low}, got)
	vec_callable_drop(callables)

	topics := msgbus_topics(bus)
	assert.Equal(t, []string{"data.quotes.*"}, cvecStrings(core.CVecSlice[unsafe.Pointer](fromCVec(topics))))
	vec_cstr_drop(topics)

	msgbus_unsubscribe(bus, pattern, highID, high)
	msgbus_unsubscribe(bus, pattern, lowID, low)
	assert.Zero(t, uint8(msgbus_is_subscribed(bus, pattern, lowID, low)))

	empty := msgbus_get_matching_callables(bus, topic)
	assert.Zero(t, uint64(empty.len))
	vec_callable_drop(empty)
}

func TestMessageBusRequestResponse(t *testing.T) {
	traderID := cString("TRADER-001")
	defer cstr_drop(traderID)
	bus := msgbus_new(traderID, nil)
	defer msgbus_drop(bus)
	callable := hostCallable(t)
	endpoint := cString("RiskEngine.request")
	missing := cString("Nowhere.request")
	handlerID := cString("risk")
	defer cstr_drop(endpoint)
	defer cstr_drop(missing)
	defer cstr_drop(handlerID)

	msgbus_register(bus, endpoint, handlerID, callable)

	requestID := uuid4_new()
	assert.Zero(t, uint8(msgbus_is_pending_request(bus, &requestID)))
	assert.Equal(t, callable, msgbus_request_handler(bus, endpoint, requestID))
	assert.Equal(t, uint8(1), uint8(msgbus_is_pending_request(bus, &requestID)))

	assert.Equal(t, callable, msgbus_response_handler(bus, &requestID))
	assert.Zero(t, uint8(msgbus_is_pending_request(bus, &requestID)))
	assert.Nil(t, msgbus_response_handler(bus, &requestID))

	other := uuid4_new()
	assert.Nil(t, msgbus_request_handler(bus, missing, other))
	assert.Zero(t, uint8(msgbus_is_pending_request(bus, &other)))
}

func TestMessageBusIsMatching(t *testing.T) {
	topic := cString("data.quotes.BINANCE")
	pattern := cString("data.*.BINANC?")
	miss := cString("data.trades.*")
	defer cstr_drop(topic)
	defer cstr_drop(pattern)
	defer cstr_drop(miss)

	assert.Equal(t, uint8(1), uint8(msgbus_is_matching(topic, pattern)))
	assert.Zero(t, uint8(msgbus_is_matching(topic, miss)))
	expectViolation(t, core.ErrNullPointer, func() { msgbus_is_matching(nil, pattern) })
}
