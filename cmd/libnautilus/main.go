// Command libnautilus builds the C shared library:
//
//	go build -buildmode=c-shared -o libnautilus.so ./cmd/libnautilus
//
// Hosts compile against ffi/nautilus_core.h, which declares the CVec and
// UUID4_t layouts and every exported function, and link with -lnautilus.
package main

import (
	_ "github.com/rocketbitz/nautilus-ffi-go/ffi"
)

func main() {}
