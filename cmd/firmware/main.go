//go:build tinygo

// Command firmware is the bare-metal image for QEMU's virt board.
//
// TinyGo ships no target for the virt machine. Building needs a custom target
// JSON that places the image at the virt RAM base (0x4000_0000) and supplies
// an AArch64 reset stub; no such target is part of this repository and the
// image has not been built or booted. With one, the image would run as
//
//	tinygo build -target=./virt-aarch64.json -o firmware.elf ./cmd/firmware
//	qemu-system-aarch64 -M virt -cpu cortex-a53 -nographic -kernel firmware.elf
//
// The simulated board (cmd/hellometal run) runs the same program end to end.
//
// The TinyGo runtime is the boot code: it sets up the stack, zeroes .bss and
// copies .data before calling main. main never returns.
package main

import (
	"hellometal/board"
	"hellometal/cpu"
	"hellometal/demo"
	"hellometal/mmio"
	"hellometal/uart"
)

func main() {
	u := uart.New(mmio.Bus{}, board.QEMUVirt.UARTBase)
	demo.New(u, cpu.Core{}, demo.WithDelay(board.QEMUVirt.DelayIterations)).Run()
}
