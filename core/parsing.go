package core

import (
	"math"
	"strconv"
	"strings"
	"unsafe"
)

// PrecisionFromString returns the number of decimal places in a numeral:
// the digits after '.', or the exponent of scientific notation such as
// "1e-8". A numeral without either has precision 0.
func PrecisionFromString(s string) uint8 {
	lower := strings.ToLower(s)
	if idx := strings.LastIndex(lower, "e-"); idx >= 0 {
		exp, err := strconv.ParseUint(lower[idx+2:], 10, 8)
		if err != nil {
			Violate("precision_from_str", ErrInvalidPrecision, s)
		}
		return uint8(exp)
	}
	idx := strings.LastIndexByte(lower, '.')
	if idx < 0 {
		return 0
	}
	digits := len(lower) - idx - 1
	if digits > math.MaxUint8 {
		Violate("precision_from_str", ErrInvalidPrecision, "more than 255 decimal places")
	}
	return uint8(digits)
}

// PrecisionFromCString is PrecisionFromString over a borrowed C string.
// A nil pointer is a contract violation.
func PrecisionFromCString(ptr unsafe.Pointer) uint8 {
	requirePointer("precision_from_cstr", ptr != nil)
	return PrecisionFromString(CStringToString(ptr))
}
