package core

import (
	"errors"
	"testing"
)

// expectViolation runs fn and fails unless it panics with a
// *ContractViolation wrapping want.
func expectViolation(t *testing.T, want error, fn func()) *ContractViolation {
	t.Helper()
	var got *ContractViolation
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			v, ok := r.(*ContractViolation)
			if !ok {
				t.Fatalf("unexpected panic value %T: %v", r, r)
			}
			got = v
		}()
		fn()
	}()
	if got == nil {
		t.Fatalf("expected contract violation %v, got none", want)
	}
	if !errors.Is(got, want) {
		t.Fatalf("expected violation wrapping %v, got %v", want, got)
	}
	return got
}
