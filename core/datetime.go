// Package core implements the ownership-transfer primitives shared by the
// C ABI in package ffi: time unit conversions, owned C strings, opaque
// native buffers (CVec) and version 4 identifiers (UUID4).
//
// Precondition failures are fatal: they panic with a *ContractViolation
// instead of returning an error.
package core

import (
	"math"
	"strconv"
	"time"
	"unsafe"
)

const (
	MillisecondsInSecond     = 1_000
	NanosecondsInSecond      = 1_000_000_000
	NanosecondsInMillisecond = 1_000_000
	NanosecondsInMicrosecond = 1_000
)

const iso8601Nanos = "2006-01-02T15:04:05.000000000Z07:00"

// Fractional results are rounded to the nearest integer with ties away from
// zero. Negative or overflowing durations are undefined.

// SecsToNanos converts seconds to nanoseconds.
func SecsToNanos(secs float64) uint64 {
	return uint64(math.Round(secs * NanosecondsInSecond))
}

// SecsToMillis converts seconds to milliseconds.
func SecsToMillis(secs float64) uint64 {
	return uint64(math.Round(secs * MillisecondsInSecond))
}

// MillisToNanos converts milliseconds to nanoseconds.
func MillisToNanos(millis float64) uint64 {
	return uint64(math.Round(millis * NanosecondsInMillisecond))
}

// MicrosToNanos converts microseconds to nanoseconds.
func MicrosToNanos(micros float64) uint64 {
	return uint64(math.Round(micros * NanosecondsInMicrosecond))
}

// NanosToSecs converts nanoseconds to seconds.
func NanosToSecs(nanos uint64) float64 {
	return float64(nanos) / NanosecondsInSecond
}

// NanosToMillis converts nanoseconds to whole milliseconds, truncating.
func NanosToMillis(nanos uint64) uint64 {
	return nanos / NanosecondsInMillisecond
}

// NanosToMicros converts nanoseconds to whole microseconds, truncating.
func NanosToMicros(nanos uint64) uint64 {
	return nanos / NanosecondsInMicrosecond
}

// UnixNanosToISO8601 renders a UNIX nanosecond timestamp as RFC 3339 with a
// nine digit fraction in UTC, e.g. 1970-01-01T00:00:00.000000000Z.
// Timestamps past math.MaxInt64 are a contract violation.
func UnixNanosToISO8601(timestampNs uint64) string {
	if timestampNs > math.MaxInt64 {
		Violate("unix_nanos_to_iso8601", ErrTimestampRange, strconv.FormatUint(timestampNs, 10))
	}
	return time.Unix(0, int64(timestampNs)).UTC().Format(iso8601Nanos)
}

// UnixNanosToISO8601CString renders the timestamp as an owned C string. The
// caller must release it exactly once with DropCString.
func UnixNanosToISO8601CString(timestampNs uint64) unsafe.Pointer {
	return NewCString(UnixNanosToISO8601(timestampNs))
}
