package ffi

import "errors"

// ErrUnknownHandle indicates an opaque handle that was never issued or has
// already been dropped.
var ErrUnknownHandle = errors.New("nautilus: unknown handle")
