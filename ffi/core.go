//go:build cgo

// Package ffi exports the C ABI of the library. Build a shared library with
//
//	go build -buildmode=c-shared -o libnautilus.so ./cmd/libnautilus
//
// Every pointer returned by a *_new, *_to_cstr or *_get_* function is owned
// by the caller and must be released exactly once with its paired drop
// function. Passing a null pointer where a value is required, malformed
// identifier text, or an unknown handle aborts the process.
package ffi

/*
#include "nautilus_core.h"
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/rocketbitz/nautilus-ffi-go/core"
	"github.com/rocketbitz/nautilus-ffi-go/internal/capi"
)

//export nautilus_ffi_abi_version
func nautilus_ffi_abi_version() C.uint32_t {
	return C.uint32_t(capi.BuildVersion().Packed())
}

// nautilus_ffi_abi_compatible reports whether a host built against the
// packed version required can use this library.
//
//export nautilus_ffi_abi_compatible
func nautilus_ffi_abi_compatible(required C.uint32_t) C.uint8_t {
	return cBool(abiCompatible(uint32(required)))
}

func abiCompatible(packed uint32) bool {
	want := capi.UnpackVersion(packed)
	if err := capi.EnsureCompatible(want); err != nil {
		core.Logger().Warn("incompatible host ABI",
			zap.Stringer("required", want),
			zap.Stringer("build", capi.BuildVersion()),
			zap.Error(err))
		return false
	}
	return true
}

//export secs_to_nanos
func secs_to_nanos(secs C.double) C.uint64_t {
	return C.uint64_t(core.SecsToNanos(float64(secs)))
}

//export secs_to_millis
func secs_to_millis(secs C.double) C.uint64_t {
	return C.uint64_t(core.SecsToMillis(float64(secs)))
}

//export millis_to_nanos
func millis_to_nanos(millis C.double) C.uint64_t {
	return C.uint64_t(core.MillisToNanos(float64(millis)))
}

//export micros_to_nanos
func micros_to_nanos(micros C.double) C.uint64_t {
	return C.uint64_t(core.MicrosToNanos(float64(micros)))
}

//export nanos_to_secs
func nanos_to_secs(nanos C.uint64_t) C.double {
	return C.double(core.NanosToSecs(uint64(nanos)))
}

//export nanos_to_millis
func nanos_to_millis(nanos C.uint64_t) C.uint64_t {
	return C.uint64_t(core.NanosToMillis(uint64(nanos)))
}

//export nanos_to_micros
func nanos_to_micros(nanos C.uint64_t) C.uint64_t {
	return C.uint64_t(core.NanosToMicros(uint64(nanos)))
}

//export cvec_new
func cvec_new() C.CVec {
	return toCVec(core.NewCVec())
}

// cvec_drop releases a CVec of bytes.
//
//export cvec_drop
func cvec_drop(cvec C.CVec) {
	core.DropCVecBytes(fromCVec(cvec))
}

// unix_nanos_to_iso8601_cstr returns an owned string; release it with cstr_drop.
//
//export unix_nanos_to_iso8601_cstr
func unix_nanos_to_iso8601_cstr(timestampNs C.uint64_t) *C.char {
	return (*C.char)(core.UnixNanosToISO8601CString(uint64(timestampNs)))
}

//export precision_from_cstr
func precision_from_cstr(ptr *C.char) C.uint8_t {
	if ptr == nil {
		core.Violate("precision_from_cstr", core.ErrNullPointer, "")
	}
	return C.uint8_t(core.PrecisionFromCString(unsafe.Pointer(ptr)))
}

//export cstr_drop
func cstr_drop(ptr *C.char) {
	if ptr == nil {
		core.Violate("cstr_drop", core.ErrNullPointer, "")
	}
	core.DropCString(unsafe.Pointer(ptr))
}

//export uuid4_new
func uuid4_new() C.UUID4_t {
	return toCUUID(core.NewUUID4())
}

//export uuid4_from_cstr
func uuid4_from_cstr(ptr *C.char) C.UUID4_t {
	if ptr == nil {
		core.Violate("uuid4_from_cstr", core.ErrNullPointer, "")
	}
	return toCUUID(core.UUID4FromCString(unsafe.Pointer(ptr)))
}

// uuid4_to_cstr returns an owned string; release it with cstr_drop.
//
//export uuid4_to_cstr
func uuid4_to_cstr(uuid *C.UUID4_t) *C.char {
	u := fromCUUID("uuid4_to_cstr", uuid)
	return (*C.char)(u.CString())
}

//export uuid4_eq
func uuid4_eq(lhs, rhs *C.UUID4_t) C.uint8_t {
	a := fromCUUID("uuid4_eq", lhs)
	b := fromCUUID("uuid4_eq", rhs)
	return cBool(a.Equal(b))
}

//export uuid4_hash
func uuid4_hash(uuid *C.UUID4_t) C.uint64_t {
	return C.uint64_t(fromCUUID("uuid4_hash", uuid).Hash())
}
