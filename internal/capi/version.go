//go:build cgo

package capi

import "fmt"

/*
#define NAUTILUS_FFI_ABI_MAJOR 1
#define NAUTILUS_FFI_ABI_MINOR 0

static inline unsigned int nautilus_ffi_abi_major(void) {
    return NAUTILUS_FFI_ABI_MAJOR;
}

static inline unsigned int nautilus_ffi_abi_minor(void) {
    return NAUTILUS_FFI_ABI_MINOR;
}
*/
import "C"

// Version represents the boundary ABI version as major.minor.
type Version struct {
	Major uint
	Minor uint
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1 if v < other, 0 if equal, and 1 if v > other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// Packed encodes the version as (major << 16) | minor for transfer as a
// single integer across the C ABI.
func (v Version) Packed() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor&0xffff)
}

// UnpackVersion reverses Packed.
func UnpackVersion(packed uint32) Version {
	return Version{Major: uint(packed >> 16), Minor: uint(packed & 0xffff)}
}

// BuildVersion reports the ABI version compiled into the boundary.
func BuildVersion() Version {
	return Version{
		Major: uint(C.nautilus_ffi_abi_major()),
		Minor: uint(C.nautilus_ffi_abi_minor()),
	}
}

// EnsureCompatible validates that a host expecting required can use this
// build: same major version and at least the required minor.
func EnsureCompatible(required Version) error {
	build := BuildVersion()
	if build.Major != required.Major {
		return fmt.Errorf("nautilus ffi major version mismatch: build %s, required %s", build, required)
	}
	if build.Minor < required.Minor {
		return fmt.Errorf("nautilus ffi build %s predates required minor version %s", build, required)
	}
	return nil
}
