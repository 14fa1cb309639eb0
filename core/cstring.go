package core

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/rocketbitz/nautilus-ffi-go/internal/capi"
)

// NewCString copies s into native memory as a NUL-terminated string and
// hands ownership to the caller, who must release it exactly once with
// DropCString.
func NewCString(s string) unsafe.Pointer {
	ptr := capi.CString(s)
	size := uintptr(len(s)) + 1
	recordAllocated(KindCString, size)
	if ce := Logger().Check(zap.DebugLevel, "cstring allocated"); ce != nil {
		ce.Write(zap.Uintptr("ptr", uintptr(ptr)), zap.Uintptr("bytes", size))
	}
	return ptr
}

// CStringToString copies a borrowed C string into Go memory. A nil pointer
// is a contract violation.
func CStringToString(ptr unsafe.Pointer) string {
	requirePointer("cstr_to_string", ptr != nil)
	return capi.GoString(ptr)
}

// OptionalCStringToString copies a borrowed C string, reporting false when
// ptr is nil.
func OptionalCStringToString(ptr unsafe.Pointer) (string, bool) {
	if ptr == nil {
		return "", false
	}
	return capi.GoString(ptr), true
}

// DropCString releases a string returned by NewCString or any of the
// *CString renderers. A nil pointer is a contract violation; releasing the
// same pointer twice is undefined.
func DropCString(ptr unsafe.Pointer) {
	requirePointer("cstr_drop", ptr != nil)
	size := capi.Strlen(ptr) + 1
	capi.FreeBytes(ptr)
	recordReleased(KindCString, size)
	if ce := Logger().Check(zap.DebugLevel, "cstring released"); ce != nil {
		ce.Write(zap.Uintptr("ptr", uintptr(ptr)), zap.Uintptr("bytes", size))
	}
}
