package core

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const (
	// UUID4TextLen is the length of the canonical 8-4-4-4-12 text form.
	UUID4TextLen = 36
	uuid4Size    = UUID4TextLen + 1
)

// UUID4 is a random version 4 identifier (RFC 4122) stored as its canonical
// text followed by a NUL terminator, matching the C layout
// `struct UUID4_t { uint8_t value[37]; }`.
//
// The zero value is not a valid identifier; use NewUUID4 or ParseUUID4.
type UUID4 struct {
	value [uuid4Size]byte
}

// NewUUID4 generates a new random identifier from the process-wide
// cryptographic random source.
func NewUUID4() UUID4 {
	return uuid4FromText(uuid.New().String())
}

// ParseUUID4 validates that s is a canonical version 4 identifier: exactly
// 36 characters of hyphenated hex with version 4 and RFC 4122 variant bits.
// The text is kept verbatim, so equality stays a comparison of text.
func ParseUUID4(s string) (UUID4, error) {
	if len(s) != UUID4TextLen {
		return UUID4{}, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidUUID, s, len(s), UUID4TextLen)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UUID4{}, fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	if parsed.Version() != 4 {
		return UUID4{}, fmt.Errorf("%w: %q is version %d", ErrInvalidUUID, s, parsed.Version())
	}
	if parsed.Variant() != uuid.RFC4122 {
		return UUID4{}, fmt.Errorf("%w: %q has variant %s", ErrInvalidUUID, s, parsed.Variant())
	}
	return uuid4FromText(s), nil
}

// UUID4FromString is ParseUUID4 for callers that guarantee s came from a
// previous String call. Malformed input is a contract violation.
func UUID4FromString(s string) UUID4 {
	u, err := ParseUUID4(s)
	if err != nil {
		Violate("uuid4_from_str", ErrInvalidUUID, err.Error())
	}
	return u
}

// UUID4FromCString parses a borrowed C string. A nil pointer or malformed
// text is a contract violation.
func UUID4FromCString(ptr unsafe.Pointer) UUID4 {
	requirePointer("uuid4_from_cstr", ptr != nil)
	return UUID4FromString(CStringToString(ptr))
}

func uuid4FromText(s string) UUID4 {
	var u UUID4
	copy(u.value[:UUID4TextLen], s)
	return u
}

// String returns the canonical text form.
func (u UUID4) String() string {
	return string(u.value[:UUID4TextLen])
}

// CString renders the identifier as an owned C string. The caller must
// release it exactly once with DropCString.
func (u UUID4) CString() unsafe.Pointer {
	return NewCString(u.String())
}

// Bytes returns the raw C layout: 36 text bytes and a NUL terminator.
func (u UUID4) Bytes() [uuid4Size]byte {
	return u.value
}

// UUID4FromBytes rebuilds an identifier from its raw C layout. The text is
// validated as in UUID4FromString.
func UUID4FromBytes(raw [uuid4Size]byte) UUID4 {
	return UUID4FromString(string(raw[:UUID4TextLen]))
}

// UUID4FromRaw wraps a raw C layout without validation. The caller
// guarantees raw came from Bytes or from an identifier produced by this
// package on the other side of the boundary.
func UUID4FromRaw(raw [uuid4Size]byte) UUID4 {
	return UUID4{value: raw}
}

// Equal compares the canonical text byte for byte.
func (u UUID4) Equal(other UUID4) bool {
	return bytes.Equal(u.value[:UUID4TextLen], other.value[:UUID4TextLen])
}

// Hash returns a deterministic 64-bit hash of the canonical text. Equal
// identifiers always hash equal, within and across processes.
func (u UUID4) Hash() uint64 {
	return xxhash.Sum64(u.value[:UUID4TextLen])
}

// IsZero reports whether u is the zero value.
func (u UUID4) IsZero() bool {
	return u == UUID4{}
}

// MarshalText implements encoding.TextMarshaler.
func (u UUID4) MarshalText() ([]byte, error) {
	if u.IsZero() {
		return nil, fmt.Errorf("%w: zero value", ErrInvalidUUID)
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UUID4) UnmarshalText(text []byte) error {
	parsed, err := ParseUUID4(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
