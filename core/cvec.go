package core

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rocketbitz/nautilus-ffi-go/internal/capi"
)

// CVec describes a block of native memory handed to the host: Ptr addresses
// the first element, Len counts live elements and Cap records how many
// elements were allocated. The element type is agreed out of band.
//
// Cap must be the original allocation size; DropCVec reconstructs the
// allocation from (Ptr, Cap) alone. Altering any field is undefined.
type CVec struct {
	Ptr unsafe.Pointer
	Len uintptr
	Cap uintptr
}

// allocBytes is replaced in tests to simulate allocator failure.
var allocBytes = capi.AllocBytes

// NewCVec returns the empty descriptor. It owns no memory and dropping it is
// a no-op.
func NewCVec() CVec {
	return CVec{}
}

// IsEmpty reports whether v describes no allocation.
func (v CVec) IsEmpty() bool {
	return v.Ptr == nil && v.Len == 0 && v.Cap == 0
}

func (v CVec) String() string {
	return fmt.Sprintf("CVec{ptr: %p, len: %d, cap: %d}", v.Ptr, v.Len, v.Cap)
}

// CVecFromSlice copies s into native memory sized for cap(s) elements and
// transfers ownership to the caller, who must release it exactly once with
// DropCVec using the same element type. T must not contain Go pointers.
func CVecFromSlice[T any](s []T) CVec {
	if cap(s) == 0 {
		return NewCVec()
	}
	var zero T
	elem := unsafe.Sizeof(zero)
	if elem == 0 {
		// zero-sized elements carry no data
		return NewCVec()
	}
	size := uintptr(cap(s)) * elem
	ptr := allocBytes(size)
	if ptr == nil {
		Violate("cvec_new", ErrOutOfMemory, fmt.Sprintf("%d bytes", size))
	}
	if len(s) > 0 {
		capi.Memcpy(ptr, unsafe.Pointer(unsafe.SliceData(s)), uintptr(len(s))*elem)
	}
	v := CVec{Ptr: ptr, Len: uintptr(len(s)), Cap: uintptr(cap(s))}
	recordAllocated(KindCVec, size)
	if ce := Logger().Check(zap.DebugLevel, "cvec allocated"); ce != nil {
		ce.Write(zap.Stringer("cvec", v), zap.Uintptr("bytes", size))
	}
	return v
}

// CVecFromBytes is CVecFromSlice for byte buffers.
func CVecFromBytes(b []byte) CVec {
	return CVecFromSlice(b)
}

// CVecSlice returns a borrowed view of the live elements of v. The view is
// valid until v is dropped.
func CVecSlice[T any](v CVec) []T {
	if v.Len == 0 {
		return nil
	}
	if v.Ptr == nil || v.Len > v.Cap {
		Violate("cvec_slice", ErrInvalidCVec, v.String())
	}
	return unsafe.Slice((*T)(v.Ptr), v.Len)
}

// DropCVec frees the allocation described by v, sized Cap elements of T.
// The empty descriptor is a no-op. A descriptor with a nil Ptr but non-zero
// capacity, or with Len > Cap, is a contract violation. Dropping twice is
// undefined.
func DropCVec[T any](v CVec) {
	if v.Ptr == nil {
		if v.Cap != 0 {
			Violate("cvec_drop", ErrInvalidCVec, v.String())
		}
		return
	}
	if v.Len > v.Cap {
		Violate("cvec_drop", ErrInvalidCVec, v.String())
	}
	var zero T
	size := v.Cap * unsafe.Sizeof(zero)
	capi.FreeBytes(v.Ptr)
	recordReleased(KindCVec, size)
	if ce := Logger().Check(zap.DebugLevel, "cvec released"); ce != nil {
		ce.Write(zap.Stringer("cvec", v), zap.Uintptr("bytes", size))
	}
}

// DropCVecBytes is DropCVec for byte buffers.
func DropCVecBytes(v CVec) {
	DropCVec[byte](v)
}
