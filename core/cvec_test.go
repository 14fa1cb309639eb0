package core

import (
	"testing"
	"unsafe"
)

func TestNewCVecDropIsNoOp(t *testing.T) {
	v := NewCVec()
	if !v.IsEmpty() {
		t.Fatalf("expected empty descriptor, got %s", v)
	}
	DropCVecBytes(v)
	DropCVec[uint64](v)
}

func TestCVecFromBytesRecordsCapacity(t *testing.T) {
	src := make([]byte, 5, 16)
	copy(src, "hello")

	v := CVecFromBytes(src)
	if v.Ptr == nil {
		t.Fatalf("expected allocation")
	}
	t.Cleanup(func() { DropCVecBytes(v) })

	if v.Len != 5 || v.Cap != 16 {
		t.Fatalf("unexpected descriptor %s", v)
	}
	if unsafe.Pointer(&src[0]) == v.Ptr {
		t.Fatalf("descriptor must not alias Go memory")
	}
	if got := string(CVecSlice[byte](v)); got != "hello" {
		t.Fatalf("unexpected contents %q", got)
	}
}

type quote struct {
	Bid, Ask int64
	Size     uint32
}

func TestCVecFromSliceStructElements(t *testing.T) {
	quotes := []quote{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	v := CVecFromSlice(quotes)
	defer DropCVec[quote](v)

	view := CVecSlice[quote](v)
	if len(view) != len(quotes) {
		t.Fatalf("unexpected view length %d", len(view))
	}
	for i := range quotes {
		if view[i] != quotes[i] {
			t.Fatalf("element %d mismatch: got %+v want %+v", i, view[i], quotes[i])
		}
	}

	quotes[0].Bid = 100
	if view[0].Bid != 1 {
		t.Fatalf("native copy must not observe Go-side mutation")
	}
}

func TestCVecFromEmptySlice(t *testing.T) {
	if v := CVecFromSlice[int32](nil); !v.IsEmpty() {
		t.Fatalf("nil slice should yield the empty descriptor, got %s", v)
	}

	v := CVecFromSlice(make([]int32, 0, 4))
	if v.Ptr == nil || v.Len != 0 || v.Cap != 4 {
		t.Fatalf("zero length with capacity should still allocate, got %s", v)
	}
	if view := CVecSlice[int32](v); view != nil {
		t.Fatalf("expected nil view for zero length")
	}
	DropCVec[int32](v)
}

func TestDropCVecInvalidDescriptor(t *testing.T) {
	expectViolation(t, ErrInvalidCVec, func() {
		DropCVecBytes(CVec{Cap: 8})
	})

	v := CVecFromBytes([]byte("abc"))
	defer DropCVecBytes(v)
	expectViolation(t, ErrInvalidCVec, func() {
		DropCVecBytes(CVec{Ptr: v.Ptr, Len: v.Cap + 1, Cap: v.Cap})
	})
	expectViolation(t, ErrInvalidCVec, func() {
		_ = CVecSlice[byte](CVec{Len: 2})
	})
}
