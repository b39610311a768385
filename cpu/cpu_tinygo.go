//go:build tinygo

package cpu

import "device"

// Nop executes a single nop. The compiler cannot drop inline assembly, so a
// loop of Nops survives optimisation.
func (Core) Nop() {
	device.Asm("nop")
}

// WaitForEvent puts the core to sleep until the next event.
func (Core) WaitForEvent() {
	device.Asm("wfe")
}
