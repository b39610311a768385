package sim

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"hellometal/logger"
	"hellometal/uart"
)

// FR bits the model reports besides TXFF.
const (
	flagTXFE = 1 << 7 // transmit FIFO empty
	flagRXFE = 1 << 4 // receive FIFO empty
)

// errInjected is returned by UART.Write for a transmit selected by FaultAfter.
var errInjected = errors.New("injected transmit fault")

// Violation records a DR write the driver should not have made.
type Violation struct {
	Index  int // position in the transmit log
	Byte   byte
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("byte %d (%#02x): %s", v.Index, v.Byte, v.Reason)
}

// UART is a register-level model of the PL011 transmit path.
//
// The transmit FIFO is modelled only through the TXFF flag: Busy(n) makes the
// next n FR reads report full, and BusyEach(n) re-arms that after every
// transmitted byte. A DR write while the model still has busy polls pending
// is a violation, as is a write while a configured UART is disabled.
type UART struct {
	out io.Writer
	tx  []byte

	busy     int
	busyEach int
	polls    int

	faultAfter int
	writes     int

	configured bool
	cr         uint32
	lcrh       uint32
	ibrd       uint32
	fbrd       uint32
	imsc       uint32
	icrWrites  int

	violations []Violation
}

// NewUART returns a model that copies every transmitted byte to out. out
// may be nil.
func NewUART(out io.Writer) *UART {
	return &UART{out: out}
}

// Busy makes the next n FR reads report a full transmit FIFO.
func (u *UART) Busy(n int) { u.busy = n }

// BusyEach makes the FIFO report full for n polls after every transmit.
func (u *UART) BusyEach(n int) {
	u.busyEach = n
	u.busy = n
}

// FaultAfter makes the nth DR write from now fail with a bus fault. Zero
// disables injection.
func (u *UART) FaultAfter(n int) {
	u.faultAfter = n
	u.writes = 0
}

// Polls returns the number of FR reads so far.
func (u *UART) Polls() int { return u.polls }

// Transmitted returns a copy of every byte written to DR.
func (u *UART) Transmitted() []byte { return slices.Clone(u.tx) }

// Violations returns the protocol violations seen so far.
func (u *UART) Violations() []Violation { return slices.Clone(u.violations) }

// Enabled reports whether CR has UARTEN and TXE set.
func (u *UART) Enabled() bool {
	return u.cr&(uart.ControlUARTEN|uart.ControlTXE) == uart.ControlUARTEN|uart.ControlTXE
}

// Configured reports whether the driver has written CR at all.
func (u *UART) Configured() bool { return u.configured }

// Divisors returns the programmed IBRD and FBRD.
func (u *UART) Divisors() (ibrd, fbrd uint32) { return u.ibrd, u.fbrd }

// LineControl returns the programmed LCRH.
func (u *UART) LineControl() uint32 { return u.lcrh }

// InterruptMask returns the programmed IMSC.
func (u *UART) InterruptMask() uint32 { return u.imsc }

// InterruptClears returns how many times ICR was written.
func (u *UART) InterruptClears() int { return u.icrWrites }

// BaudRate decodes the divisors against the reference clock. It returns
// zero if no divisor has been programmed.
func (u *UART) BaudRate(clockHz uint32) float64 {
	d := u.ibrd*64 + u.fbrd
	if d == 0 {
		return 0
	}
	return float64(clockHz) * 4 / float64(d)
}

// Read returns the register at offset off.
func (u *UART) Read(off uintptr) uint32 {
	switch off {
	case uart.FR:
		u.polls++
		if u.busy > 0 {
			u.busy--
			return uart.FlagTXFF | flagRXFE
		}
		return flagTXFE | flagRXFE
	case uart.CR:
		return u.cr
	case uart.LCRH:
		return u.lcrh
	case uart.IBRD:
		return u.ibrd
	case uart.FBRD:
		return u.fbrd
	case uart.IMSC:
		return u.imsc
	default:
		return 0
	}
}

// Write stores v in the register at offset off.
func (u *UART) Write(off uintptr, v uint32) error {
	switch off {
	case uart.DR:
		return u.transmit(uint8(v))
	case uart.CR:
		u.cr = v
		u.configured = true
		if u.Enabled() {
			logger.Logf("pl011", "enabled: ibrd=%d fbrd=%d lcrh=%#x", u.ibrd, u.fbrd, u.lcrh)
		}
	case uart.LCRH:
		u.lcrh = v
	case uart.IBRD:
		u.ibrd = v & 0xffff
	case uart.FBRD:
		u.fbrd = v & 0x3f
	case uart.IMSC:
		u.imsc = v
	case uart.ICR:
		u.icrWrites++
	}
	return nil
}

func (u *UART) transmit(b byte) error {
	u.writes++
	if u.faultAfter > 0 && u.writes == u.faultAfter {
		u.faultAfter = 0
		return errInjected
	}

	if u.busy > 0 {
		u.violate(b, "write while transmit FIFO full")
	}
	if u.configured && !u.Enabled() {
		u.violate(b, "write while UART disabled")
	}

	u.tx = append(u.tx, b)
	if u.out != nil {
		u.out.Write([]byte{b})
	}
	u.busy = u.busyEach
	return nil
}

func (u *UART) violate(b byte, reason string) {
	v := Violation{Index: len(u.tx), Byte: b, Reason: reason}
	u.violations = append(u.violations, v)
	logger.Log("pl011", v.String())
}
