//go:build cgo

package ffi

/*
#include "nautilus_core.h"
*/
import "C"

import (
	"unsafe"

	"github.com/rocketbitz/nautilus-ffi-go/core"
)

func toCVec(v core.CVec) C.CVec {
	return C.CVec{ptr: v.Ptr, len: C.uintptr_t(v.Len), cap: C.uintptr_t(v.Cap)}
}

func fromCVec(v C.CVec) core.CVec {
	return core.CVec{Ptr: v.ptr, Len: uintptr(v.len), Cap: uintptr(v.cap)}
}

func toCUUID(u core.UUID4) C.UUID4_t {
	var out C.UUID4_t
	*(*[37]byte)(unsafe.Pointer(&out.value)) = u.Bytes()
	return out
}

func fromCUUID(op string, u *C.UUID4_t) core.UUID4 {
	if u == nil {
		core.Violate(op, core.ErrNullPointer, "")
	}
	return core.UUID4FromRaw(*(*[37]byte)(unsafe.Pointer(&u.value)))
}

func cString(s string) *C.char {
	return (*C.char)(core.NewCString(s))
}

func goString(op string, ptr *C.char) string {
	if ptr == nil {
		core.Violate(op, core.ErrNullPointer, "")
	}
	return core.CStringToString(unsafe.Pointer(ptr))
}

func optionalGoString(ptr *C.char) (string, bool) {
	return core.OptionalCStringToString(unsafe.Pointer(ptr))
}

func cBool(b bool) C.uint8_t {
	if b {
		return 1
	}
	return 0
}
