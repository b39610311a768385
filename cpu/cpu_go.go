//go:build !tinygo

package cpu

import "runtime"

// The host build exists so that Core's method set, which cmd/firmware hands
// to demo.New, is type-checked by the standard toolchain (see cpu_test.go)
// without TinyGo installed.

// Nop does nothing. Hosted builds never run the delay loop on real hardware.
func (Core) Nop() {}

// WaitForEvent yields the processor.
func (Core) WaitForEvent() {
	runtime.Gosched()
}
