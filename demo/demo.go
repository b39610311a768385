// Package demo is the program the board runs after reset: a banner, then a
// counter printed forever at a fixed cadence.
//
// The program is a three-state machine. Startup prints the banner and moves to
// Running. Every Step in Running prints one counter line, increments the
// counter and delays. Any panic raised while starting or running is caught
// and moves the program to Panicked, which is terminal: the core sleeps and
// nothing further is transmitted.
package demo

import (
	"context"

	"hellometal/uart"
)

const (
	Banner        = "Hello, world from Rust (bare metal)!\n"
	CounterPrefix = "counter = "
	PanicMessage  = "panic!\n"
)

// DelayIterations is the number of nops between counter lines. It is not
// derived from any clock; the pause it gives depends on the core's speed.
const DelayIterations = 5_000_000

// State of the program.
type State int

const (
	Startup State = iota
	Running
	Panicked
)

func (s State) String() string {
	switch s {
	case Startup:
		return "startup"
	case Running:
		return "running"
	case Panicked:
		return "panicked"
	}
	return "unknown"
}

// Core is the processor the program runs on.
type Core interface {
	Nop()
	WaitForEvent()
}

// Program is the demo bound to a UART and a core.
type Program struct {
	uart    *uart.UART
	core    Core
	config  uart.Config
	delay   int
	counter uint64
	state   State
	cause   interface{}
}

// Option changes a Program at construction.
type Option func(*Program)

// WithDelay sets the number of nops between counter lines.
func WithDelay(n int) Option {
	return func(p *Program) { p.delay = n }
}

// WithCounter sets the first counter value printed.
func WithCounter(start uint64) Option {
	return func(p *Program) { p.counter = start }
}

// WithConfig has Startup program the UART's line settings before the banner.
func WithConfig(c uart.Config) Option {
	return func(p *Program) { p.config = c }
}

func New(u *uart.UART, c Core, opts ...Option) *Program {
	p := &Program{
		uart:  u,
		core:  c,
		delay: DelayIterations,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// State returns the current state.
func (p *Program) State() State { return p.state }

// Counter returns the value the next counter line will print.
func (p *Program) Counter() uint64 { return p.counter }

// Cause returns the value that sent the program to Panicked, if any.
func (p *Program) Cause() interface{} { return p.cause }

// Step performs one transition of the state machine.
func (p *Program) Step() {
	switch p.state {
	case Startup:
		p.guard(p.announce)
	case Running:
		p.guard(p.iterate)
	case Panicked:
		p.core.WaitForEvent()
	}
}

// Run steps the program forever.
func (p *Program) Run() {
	for {
		p.Step()
	}
}

// RunContext steps the program until ctx is done and returns the state it
// stopped in. A non-zero lines also stops it once that many counter lines
// have been printed or the program has panicked.
func (p *Program) RunContext(ctx context.Context, lines uint64) State {
	var printed uint64
	for ctx.Err() == nil {
		running := p.state == Running
		p.Step()
		if running && p.state == Running {
			printed++
		}
		if lines > 0 && (printed >= lines || p.state == Panicked) {
			break
		}
	}
	return p.state
}

func (p *Program) announce() {
	p.uart.Configure(p.config)
	p.uart.PutString(Banner)
	p.state = Running
}

func (p *Program) iterate() {
	p.uart.PutString(CounterPrefix)
	p.uart.PutUint(p.counter)
	p.uart.PutString("\n")
	p.counter++
	p.Delay()
}

// Delay spins for the configured number of nops.
func (p *Program) Delay() {
	for i := 0; i < p.delay; i++ {
		p.core.Nop()
	}
}

func (p *Program) guard(f func()) {
	defer func() {
		if r := recover(); r != nil {
			p.cause = r
			p.Panic()
		}
	}()
	f()
}

// Panic reports the failure on the serial line and enters the terminal
// state. It is safe to call with a UART that itself faults; the message is
// then lost but the program still stops.
func (p *Program) Panic() {
	p.state = Panicked
	defer func() { recover() }()
	p.uart.PutString(PanicMessage)
}
