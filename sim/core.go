package sim

import (
	"context"
	"sync/atomic"
)

// Core stands in for the processor's hint instructions. Nop only counts;
// WaitForEvent sleeps until Signal is called or the context is done, the way
// wfe sleeps until an event arrives or the board is reset.
type Core struct {
	ctx    context.Context
	events chan struct{}
	nops   atomic.Uint64
	waits  atomic.Uint64
}

func NewCore(ctx context.Context) *Core {
	return &Core{ctx: ctx, events: make(chan struct{}, 1)}
}

func (c *Core) Nop() { c.nops.Add(1) }

func (c *Core) WaitForEvent() {
	c.waits.Add(1)
	select {
	case <-c.ctx.Done():
	case <-c.events:
	}
}

// Signal wakes one pending or future WaitForEvent.
func (c *Core) Signal() {
	select {
	case c.events <- struct{}{}:
	default:
	}
}

// Nops returns the number of Nop calls.
func (c *Core) Nops() uint64 { return c.nops.Load() }

// Waits returns the number of WaitForEvent calls.
func (c *Core) Waits() uint64 { return c.waits.Load() }
