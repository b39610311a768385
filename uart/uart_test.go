package uart_test

import (
	"bytes"
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"testing"
	"testing/quick"

	qt "github.com/frankban/quicktest"
	"golang.org/x/exp/slices"

	"hellometal/sim"
	"hellometal/uart"
)

// regLog wraps a register space and records every access in order.
type regLog struct {
	uart.Registers
	ops []string
}

func (r *regLog) Read32(addr uintptr) uint32 {
	r.ops = append(r.ops, "r "+strconv.FormatUint(uint64(addr), 16))
	return r.Registers.Read32(addr)
}

func (r *regLog) Write32(addr uintptr, v uint32) {
	r.ops = append(r.ops, "w "+strconv.FormatUint(uint64(addr), 16)+"="+strconv.FormatUint(uint64(v), 16))
	r.Registers.Write32(addr, v)
}

func newUART() (*uart.UART, *sim.UART) {
	dev := sim.NewUART(nil)
	bus := sim.NewBus(nil, dev, sim.UARTBase)
	return uart.New(bus, sim.UARTBase), dev
}

func TestPutBytePollsUntilReady(t *testing.T) {
	c := qt.New(t)
	dev := sim.NewUART(nil)
	log := &regLog{Registers: sim.NewBus(nil, dev, sim.UARTBase)}
	u := uart.New(log, sim.UARTBase)

	dev.Busy(3)
	u.PutByte(0x41)

	c.Assert(dev.Polls(), qt.Equals, 4)
	c.Assert(dev.Transmitted(), qt.DeepEquals, []byte{0x41})
	c.Assert(dev.Violations(), qt.HasLen, 0)
	c.Assert(log.ops, qt.DeepEquals, []string{
		"r 9000018",
		"r 9000018",
		"r 9000018",
		"r 9000018",
		"w 9000000=41",
	})
}

func TestPutByteNeverWritesWhileFull(t *testing.T) {
	c := qt.New(t)
	u, dev := newUART()

	for busy := 0; busy < 5; busy++ {
		dev.BusyEach(busy)
		for b := 0; b < 256; b++ {
			u.PutByte(byte(b))
		}
	}
	c.Assert(dev.Violations(), qt.HasLen, 0)
	c.Assert(dev.Transmitted(), qt.HasLen, 5*256)
	// one ready poll per byte plus the busy ones
	c.Assert(dev.Polls(), qt.Equals, 5*256+256*(0+1+2+3+4))
}

func TestPutStringNewlines(t *testing.T) {
	c := qt.New(t)
	for _, tc := range []struct {
		in, out string
	}{
		{"", ""},
		{"abc", "abc"},
		{"\n", "\r\n"},
		{"a\nb\n", "a\r\nb\r\n"},
		{"\n\n", "\r\n\r\n"},
		{"already\r\n", "already\r\r\n"},
	} {
		u, dev := newUART()
		u.PutString(tc.in)
		c.Check(string(dev.Transmitted()), qt.Equals, tc.out, qt.Commentf("input %q", tc.in))
	}
}

// lineStrings generates short strings drawn mostly from line-ending bytes.
func lineStrings(args []reflect.Value, r *rand.Rand) {
	const alphabet = "\n\n\n\r\r\rab "
	b := make([]byte, r.Intn(32))
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	args[0] = reflect.ValueOf(string(b))
}

// Every emitted newline is preceded by a carriage return, and the only
// carriage returns added are those.
func TestPutStringTranslationProperty(t *testing.T) {
	f := func(s string) bool {
		u, dev := newUART()
		u.PutString(s)
		out := dev.Transmitted()

		for i, b := range out {
			if b == '\n' && (i == 0 || out[i-1] != '\r') {
				return false
			}
		}
		in := []byte(s)
		return bytes.Count(out, []byte("\r")) == bytes.Count(in, []byte("\r"))+bytes.Count(in, []byte("\n")) &&
			bytes.Equal(out, bytes.ReplaceAll(in, []byte("\n"), []byte("\r\n")))
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 2000, Values: lineStrings}); err != nil {
		t.Error(err)
	}
	// and the default generator for arbitrary text
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestWriterForms(t *testing.T) {
	c := qt.New(t)
	u, dev := newUART()

	n, err := u.Write([]byte("a\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 2)

	n, err = u.WriteString("b\n")
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 2)

	c.Assert(u.WriteByte('\n'), qt.IsNil)
	c.Assert(string(dev.Transmitted()), qt.Equals, "a\r\nb\r\n\n")
}

func TestPutUintZero(t *testing.T) {
	c := qt.New(t)
	u, dev := newUART()
	u.PutUint(0)
	c.Assert(dev.Transmitted(), qt.DeepEquals, []byte{'0'})
}

func TestPutUintBoundaries(t *testing.T) {
	c := qt.New(t)
	for _, n := range []uint64{1, 9, 10, 99, 100, 1000000007, math.MaxUint32, math.MaxUint64 - 1, math.MaxUint64} {
		u, dev := newUART()
		u.PutUint(n)
		c.Check(string(dev.Transmitted()), qt.Equals, strconv.FormatUint(n, 10))
	}
}

func TestPutUintRoundTrip(t *testing.T) {
	f := func(n uint64) bool {
		u, dev := newUART()
		u.PutUint(n)
		out := dev.Transmitted()
		if len(out) > 1 && out[0] == '0' {
			return false
		}
		if slices.IndexFunc(out, func(b byte) bool { return b < '0' || b > '9' }) >= 0 {
			return false
		}
		got, err := strconv.ParseUint(string(out), 10, 64)
		return err == nil && got == n
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 5000}); err != nil {
		t.Error(err)
	}
}

func TestConfigure(t *testing.T) {
	c := qt.New(t)
	dev := sim.NewUART(nil)
	log := &regLog{Registers: sim.NewBus(nil, dev, sim.UARTBase)}
	u := uart.New(log, sim.UARTBase)

	u.Configure(uart.Config{ClockHz: 24_000_000, Baud: 115_200})

	c.Assert(log.ops, qt.DeepEquals, []string{
		"w 9000030=0",
		"w 9000044=7ff",
		"w 9000024=d",
		"w 9000028=1",
		"w 900002c=70",
		"w 9000038=0",
		"w 9000030=301",
	})
	c.Assert(dev.Enabled(), qt.IsTrue)
	c.Assert(dev.InterruptMask(), qt.Equals, uint32(0))
	c.Assert(dev.InterruptClears(), qt.Equals, 1)
	c.Assert(dev.LineControl(), qt.Equals, uint32(uart.LineFEN|uart.LineWLEN8))
	c.Assert(dev.BaudRate(24_000_000) > 115_000 && dev.BaudRate(24_000_000) < 115_500, qt.IsTrue)

	u.PutString("ok\n")
	c.Assert(dev.Violations(), qt.HasLen, 0)
}

func TestConfigureZeroLeavesUART(t *testing.T) {
	c := qt.New(t)
	u, dev := newUART()
	u.Configure(uart.Config{})
	c.Assert(dev.Configured(), qt.IsFalse)
}

func TestDivisors(t *testing.T) {
	c := qt.New(t)
	for _, tc := range []struct {
		cfg        uart.Config
		ibrd, fbrd uint32
	}{
		{uart.Config{ClockHz: 24_000_000, Baud: 115_200}, 13, 1},
		{uart.Config{ClockHz: 24_000_000, Baud: 9_600}, 156, 16},
		{uart.Config{ClockHz: 48_000_000, Baud: 115_200}, 26, 3},
		{uart.Config{ClockHz: 16_000_000, Baud: 1_000_000}, 1, 0},
		{uart.Config{}, 0, 0},
	} {
		ibrd, fbrd := tc.cfg.Divisors()
		c.Check(ibrd, qt.Equals, tc.ibrd, qt.Commentf("%+v", tc.cfg))
		c.Check(fbrd, qt.Equals, tc.fbrd, qt.Commentf("%+v", tc.cfg))
	}
}
