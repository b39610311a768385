//go:build !tinygo

package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Write32 stores v at addr exactly once, in program order.
//
// The gc toolchain has no volatile qualifier; atomic accesses are never
// elided or reordered with respect to each other, which is the guarantee
// a device register needs.
func (Bus) Write32(addr uintptr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

// Read32 loads the word at addr. Every call reaches the device.
func (Bus) Read32(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}
