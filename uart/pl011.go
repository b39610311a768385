// Package uart is a polling transmit driver for the ARM PL011 UART.
//
// The driver never returns an error. PutByte waits for room in the transmit
// FIFO for as long as it takes; a device that never drains hangs the caller.
package uart

// Register offsets from the peripheral base.
const (
	DR   = 0x00 // data
	FR   = 0x18 // flags
	IBRD = 0x24 // integer baud divisor
	FBRD = 0x28 // fractional baud divisor
	LCRH = 0x2C // line control
	CR   = 0x30 // control
	IMSC = 0x38 // interrupt mask set/clear
	ICR  = 0x44 // interrupt clear
)

// FR bits.
const (
	FlagTXFF = 1 << 5 // transmit FIFO full
)

// LCRH bits.
const (
	LineFEN   = 1 << 4 // enable FIFOs
	LineWLEN8 = 3 << 5 // 8 bit words
)

// CR bits.
const (
	ControlUARTEN = 1 << 0
	ControlTXE    = 1 << 8
	ControlRXE    = 1 << 9
)

// ClearAll is written to ICR to drop every pending interrupt.
const ClearAll = 0x7FF

// Registers is a 32-bit register space addressed physically.
type Registers interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
}

// UART is a PL011 at a fixed base address.
type UART struct {
	regs Registers
	base uintptr
}

// New returns a driver for the PL011 whose register block starts at base.
func New(regs Registers, base uintptr) *UART {
	return &UART{regs: regs, base: base}
}

func (u *UART) read(off uintptr) uint32 {
	return u.regs.Read32(u.base + off)
}

func (u *UART) write(off uintptr, v uint32) {
	u.regs.Write32(u.base+off, v)
}

// PutByte transmits b once the transmit FIFO has room.
func (u *UART) PutByte(b byte) {
	for u.read(FR)&FlagTXFF != 0 {
	}
	u.write(DR, uint32(b))
}

// PutString transmits s, sending a carriage return ahead of every newline.
func (u *UART) PutString(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			u.PutByte('\r')
		}
		u.PutByte(s[i])
	}
}

// Config selects the line rate. The zero value leaves the UART as reset left
// it, which is what QEMU's virt board expects.
type Config struct {
	ClockHz uint32
	Baud    uint32
}

// IsZero reports whether c asks for no configuration.
func (c Config) IsZero() bool {
	return c.ClockHz == 0 || c.Baud == 0
}

// Divisors returns IBRD and FBRD for c. The divisor is clock/(16*baud) with
// the fraction rounded to the nearest 1/64.
func (c Config) Divisors() (ibrd, fbrd uint32) {
	if c.IsZero() {
		return 0, 0
	}
	d := (8*uint64(c.ClockHz)/uint64(c.Baud) + 1) / 2
	return uint32(d >> 6), uint32(d & 0x3f)
}

// Configure disables the UART, programs 8N1 with FIFOs at the configured rate,
// masks all interrupts and enables transmit and receive.
func (u *UART) Configure(c Config) {
	if c.IsZero() {
		return
	}
	ibrd, fbrd := c.Divisors()

	u.write(CR, 0)
	u.write(ICR, ClearAll)
	u.write(IBRD, ibrd)
	u.write(FBRD, fbrd)
	u.write(LCRH, LineFEN|LineWLEN8)
	u.write(IMSC, 0)
	u.write(CR, ControlUARTEN|ControlTXE|ControlRXE)
}
