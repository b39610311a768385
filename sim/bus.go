package sim

import "hellometal/logger"

// Simple address map for a QEMU virt-like board.
// UART:  UARTBase .. UARTBase+UARTSize-1 (PL011)
// RAM:   wherever the RAM was created

const (
	UARTBase = 0x09000000
	UARTSize = 0x1000
	RAMBase  = 0x40000000
)

// Bus routes 32-bit accesses to the PL011 model or to RAM. Accesses that hit
// neither panic with a *Fault.
type Bus struct {
	ram      *RAM
	uart     *UART
	uartBase uintptr
}

// NewBus maps uart at uartBase. ram may be nil for a board with no memory
// worth modelling.
func NewBus(ram *RAM, uart *UART, uartBase uintptr) *Bus {
	return &Bus{ram: ram, uart: uart, uartBase: uartBase}
}

func (b *Bus) inUART(addr uintptr) bool {
	return b.uart != nil && addr >= b.uartBase && addr < b.uartBase+UARTSize
}

func (b *Bus) fault(addr uintptr, write bool, reason string) {
	f := &Fault{Addr: addr, Write: write, Reason: reason}
	logger.Log("bus", f.Error())
	panic(f)
}

func (b *Bus) Read32(addr uintptr) uint32 {
	if addr&3 != 0 {
		b.fault(addr, false, "unaligned")
	}

	// UART MMIO
	if b.inUART(addr) {
		return b.uart.Read(addr - b.uartBase)
	}

	// RAM, composed from bytes
	if b.ram == nil || !b.ram.Contains(addr, 4) {
		b.fault(addr, false, "unmapped")
	}
	var v uint32
	for i := uintptr(0); i < 4; i++ {
		x, _ := b.ram.Read8(addr + i)
		v |= uint32(x) << (8 * i)
	}
	return v
}

func (b *Bus) Write32(addr uintptr, v uint32) {
	if addr&3 != 0 {
		b.fault(addr, true, "unaligned")
	}

	if b.inUART(addr) {
		if err := b.uart.Write(addr-b.uartBase, v); err != nil {
			b.fault(addr, true, err.Error())
		}
		return
	}

	if b.ram == nil || !b.ram.Contains(addr, 4) {
		b.fault(addr, true, "unmapped")
	}
	for i := uintptr(0); i < 4; i++ {
		b.ram.Write8(addr+i, uint8(v>>(8*i)))
	}
}
