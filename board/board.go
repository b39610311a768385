// Package board describes the boards the firmware can run on.
package board

import "hellometal/uart"

// Profile holds the constants the firmware needs for one board.
type Profile struct {
	Name            string  `yaml:"name"`
	UARTBase        uintptr `yaml:"uart_base"`
	UARTClockHz     uint32  `yaml:"uart_clock_hz"`
	Baud            uint32  `yaml:"baud"`
	DelayIterations int     `yaml:"delay_iterations"`
}

// QEMUVirt is QEMU's virt machine with its PL011 at 0x0900_0000 clocked at
// 24 MHz.
var QEMUVirt = Profile{
	Name:            "qemu-virt",
	UARTBase:        0x0900_0000,
	UARTClockHz:     24_000_000,
	Baud:            115_200,
	DelayIterations: 5_000_000,
}

// UARTConfig returns the line settings for the profile.
func (p Profile) UARTConfig() uart.Config {
	return uart.Config{ClockHz: p.UARTClockHz, Baud: p.Baud}
}
