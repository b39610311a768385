//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Write32 stores v at addr exactly once, in program order.
func (Bus) Write32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

// Read32 loads the word at addr. Every call reaches the device.
func (Bus) Read32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}
