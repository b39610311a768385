// Package mmio performs single-word volatile accesses to physical addresses.
//
// Nothing else in this module turns an integer into a pointer. Callers are
// responsible for passing addresses that are mapped and valid for the board.
package mmio

// Bus accesses physical memory directly. It has no state.
type Bus struct{}
