package core

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNullPointer indicates a nil pointer was passed where a valid one is required.
	ErrNullPointer = errors.New("nautilus: null pointer")
	// ErrInvalidUUID indicates text that is not a canonical version 4 UUID.
	ErrInvalidUUID = errors.New("nautilus: invalid UUID4")
	// ErrInvalidCVec indicates a CVec descriptor whose fields are inconsistent.
	ErrInvalidCVec = errors.New("nautilus: invalid CVec descriptor")
	// ErrTimestampRange indicates a UNIX nanosecond timestamp that cannot be rendered.
	ErrTimestampRange = errors.New("nautilus: timestamp out of range")
	// ErrInvalidPrecision indicates a numeral whose precision cannot be inferred.
	ErrInvalidPrecision = errors.New("nautilus: invalid precision")
	// ErrOutOfMemory indicates the C allocator returned no memory.
	ErrOutOfMemory = errors.New("nautilus: out of memory")
)

// ContractViolation is the panic value raised when a caller breaks a
// precondition of the boundary. It is never returned as an error: a panic
// that escapes an exported C function terminates the host process.
type ContractViolation struct {
	Op     string
	Detail string
	Err    error
}

func (v *ContractViolation) Error() string {
	if v.Detail == "" {
		return fmt.Sprintf("%s: %v", v.Op, v.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", v.Op, v.Err, v.Detail)
}

// Unwrap allows errors.Is / errors.As to match the sentinel cause.
func (v *ContractViolation) Unwrap() error {
	return v.Err
}

// Violate logs and records a contract violation for op and panics with a
// *ContractViolation wrapping err.
func Violate(op string, err error, detail string) {
	v := &ContractViolation{Op: op, Detail: detail, Err: err}
	Logger().Error("contract violation",
		zap.String("op", op),
		zap.String("detail", detail),
		zap.Error(err),
	)
	if hook := metricHook(); hook != nil {
		hook.ContractViolation(op)
	}
	panic(v)
}

func requirePointer(op string, ok bool) {
	if !ok {
		Violate(op, ErrNullPointer, "")
	}
}
