//go:build cgo

package capi

import "unsafe"

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

// AllocBytes allocates C-managed memory of the specified size. The memory is
// not zeroed. A zero size returns nil without allocating.
func AllocBytes(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	return ptr
}

// FreeBytes frees memory allocated via AllocBytes or CString.
func FreeBytes(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	C.free(ptr)
}

// Memcpy copies length bytes from src to dst using C's memcpy.
func Memcpy(dst, src unsafe.Pointer, length uintptr) {
	if length == 0 || dst == nil || src == nil {
		return
	}
	C.memcpy(dst, src, C.size_t(length))
}

// CString copies s into a freshly malloc'd, NUL-terminated buffer. Bytes
// after an embedded NUL are unreachable from C but still copied.
func CString(s string) unsafe.Pointer {
	return unsafe.Pointer(C.CString(s))
}

// Strlen returns the length of the NUL-terminated string at ptr.
func Strlen(ptr unsafe.Pointer) uintptr {
	if ptr == nil {
		return 0
	}
	return uintptr(C.strlen((*C.char)(ptr)))
}

// GoString copies the NUL-terminated string at ptr into Go memory.
func GoString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	return C.GoString((*C.char)(ptr))
}
