//go:build cgo

package ffi

/*
#include "nautilus_core.h"
*/
import "C"

import (
	"unsafe"

	"github.com/rocketbitz/nautilus-ffi-go/core"
	"github.com/rocketbitz/nautilus-ffi-go/msgbus"
)

func hostHandler(op string, handlerID *C.char, callable unsafe.Pointer) msgbus.Handler {
	return msgbus.Handler{ID: goString(op, handlerID), HostRef: callable}
}

// stringsToCVec hands each string to the host as an owned C string inside a
// CVec of char*. Release it with vec_cstr_drop.
func stringsToCVec(values []string) C.CVec {
	ptrs := make([]unsafe.Pointer, len(values))
	for i, v := range values {
		ptrs[i] = core.NewCString(v)
	}
	return toCVec(core.CVecFromSlice(ptrs))
}

// msgbus_new returns an opaque bus handle; release it with msgbus_drop.
// name_ptr may be null to use the default name.
//
//export msgbus_new
func msgbus_new(traderIDPtr *C.char, namePtr *C.char) C.uint64_t {
	traderID := goString("msgbus_new", traderIDPtr)
	var opts []msgbus.Option
	if name, ok := optionalGoString(namePtr); ok {
		opts = append(opts, msgbus.WithName(name))
	}
	bus, err := msgbus.New(traderID, opts...)
	if err != nil {
		core.Violate("msgbus_new", err, traderID)
	}
	return C.uint64_t(storeBus(bus))
}

//export msgbus_drop
func msgbus_drop(bus C.uint64_t) {
	releaseBus("msgbus_drop", uint64(bus))
}

// msgbus_endpoints returns a CVec of owned char*; release it with vec_cstr_drop.
//
//export msgbus_endpoints
func msgbus_endpoints(bus C.uint64_t) C.CVec {
	return stringsToCVec(loadBus("msgbus_endpoints", uint64(bus)).Endpoints())
}

// msgbus_topics returns a CVec of owned char*; release it with vec_cstr_drop.
//
//export msgbus_topics
func msgbus_topics(bus C.uint64_t) C.CVec {
	return stringsToCVec(loadBus("msgbus_topics", uint64(bus)).Topics())
}

//export vec_cstr_drop
func vec_cstr_drop(v C.CVec) {
	cvec := fromCVec(v)
	for _, ptr := range core.CVecSlice[unsafe.Pointer](cvec) {
		core.DropCString(ptr)
	}
	core.DropCVec[unsafe.Pointer](cvec)
}

//export msgbus_has_subscribers
func msgbus_has_subscribers(bus C.uint64_t, topicPtr *C.char) C.uint8_t {
	topic := goString("msgbus_has_subscribers", topicPtr)
	return cBool(loadBus("msgbus_has_subscribers", uint64(bus)).HasSubscribers(topic))
}

//export msgbus_is_subscribed
func msgbus_is_subscribed(bus C.uint64_t, topicPtr *C.char, handlerIDPtr *C.char, callable unsafe.Pointer) C.uint8_t {
	topic := goString("msgbus_is_subscribed", topicPtr)
	handler := hostHandler("msgbus_is_subscribed", handlerIDPtr, callable)
	return cBool(loadBus("msgbus_is_subscribed", uint64(bus)).IsSubscribed(topic, handler))
}

//export msgbus_is_registered
func msgbus_is_registered(bus C.uint64_t, endpointPtr *C.char) C.uint8_t {
	endpoint := goString("msgbus_is_registered", endpointPtr)
	return cBool(loadBus("msgbus_is_registered", uint64(bus)).IsRegistered(endpoint))
}

//export msgbus_is_pending_request
func msgbus_is_pending_request(bus C.uint64_t, requestID *C.UUID4_t) C.uint8_t {
	id := fromCUUID("msgbus_is_pending_request", requestID)
	return cBool(loadBus("msgbus_is_pending_request", uint64(bus)).IsPendingResponse(id))
}

//export msgbus_register
func msgbus_register(bus C.uint64_t, endpointPtr *C.char, handlerIDPtr *C.char, callable unsafe.Pointer) {
	endpoint := goString("msgbus_register", endpointPtr)
	handler := hostHandler("msgbus_register", handlerIDPtr, callable)
	loadBus("msgbus_register", uint64(bus)).Register(endpoint, handler)
}

//export msgbus_deregister
func msgbus_deregister(bus C.uint64_t, endpointPtr *C.char) {
	endpoint := goString("msgbus_deregister", endpointPtr)
	loadBus("msgbus_deregister", uint64(bus)).Deregister(endpoint)
}

//export msgbus_subscribe
func msgbus_subscribe(bus C.uint64_t, topicPtr *C.char, handlerIDPtr *C.char, callable unsafe.Pointer, priority C.uint8_t) {
	topic := goString("msgbus_subscribe", topicPtr)
	handler := hostHandler("msgbus_subscribe", handlerIDPtr, callable)
	loadBus("msgbus_subscribe", uint64(bus)).Subscribe(topic, handler, uint8(priority))
}

//export msgbus_unsubscribe
func msgbus_unsubscribe(bus C.uint64_t, topicPtr *C.char, handlerIDPtr *C.char, callable unsafe.Pointer) {
	topic := goString("msgbus_unsubscribe", topicPtr)
	handler := hostHandler("msgbus_unsubscribe", handlerIDPtr, callable)
	loadBus("msgbus_unsubscribe", uint64(bus)).Unsubscribe(topic, handler)
}

// msgbus_get_endpoint returns the host callable registered for the endpoint,
// or null. The callable stays owned by the host.
//
//export msgbus_get_endpoint
func msgbus_get_endpoint(bus C.uint64_t, endpointPtr *C.char) unsafe.Pointer {
	endpoint := goString("msgbus_get_endpoint", endpointPtr)
	h, ok := loadBus("msgbus_get_endpoint", uint64(bus)).Endpoint(endpoint)
	if !ok {
		return nil
	}
	return h.HostRef
}

// msgbus_get_matching_callables returns a CVec of host callables (void*) in
// delivery order; release it with vec_callable_drop.
//
//export msgbus_get_matching_callables
func msgbus_get_matching_callables(bus C.uint64_t, topicPtr *C.char) C.CVec {
	topic := goString("msgbus_get_matching_callables", topicPtr)
	subs := loadBus("msgbus_get_matching_callables", uint64(bus)).MatchingSubscriptions(topic)
	callables := make([]unsafe.Pointer, 0, len(subs))
	for _, sub := range subs {
		callables = append(callables, sub.Handler.HostRef)
	}
	return toCVec(core.CVecFromSlice(callables))
}

//export vec_callable_drop
func vec_callable_drop(v C.CVec) {
	core.DropCVec[unsafe.Pointer](fromCVec(v))
}

// msgbus_request_handler returns the host callable for the endpoint and
// records request_id for correlation, or null when nothing is registered.
//
//export msgbus_request_handler
func msgbus_request_handler(bus C.uint64_t, endpointPtr *C.char, requestID C.UUID4_t) unsafe.Pointer {
	endpoint := goString("msgbus_request_handler", endpointPtr)
	id := fromCUUID("msgbus_request_handler", &requestID)
	h, ok := loadBus("msgbus_request_handler", uint64(bus)).RequestHandler(endpoint, id)
	if !ok {
		return nil
	}
	return h.HostRef
}

//export msgbus_response_handler
func msgbus_response_handler(bus C.uint64_t, correlationID *C.UUID4_t) unsafe.Pointer {
	id := fromCUUID("msgbus_response_handler", correlationID)
	h, ok := loadBus("msgbus_response_handler", uint64(bus)).ResponseHandler(id)
	if !ok {
		return nil
	}
	return h.HostRef
}

//export msgbus_is_matching
func msgbus_is_matching(topicPtr *C.char, patternPtr *C.char) C.uint8_t {
	topic := goString("msgbus_is_matching", topicPtr)
	pattern := goString("msgbus_is_matching", patternPtr)
	return cBool(msgbus.IsMatching(topic, pattern))
}
