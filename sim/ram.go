package sim

import (
	"fmt"
	"os"
)

// RAM is zero-initialised memory starting at a physical base address.
type RAM struct {
	base uintptr
	data []byte
}

func NewRAM(base uintptr, size uint64) *RAM {
	return &RAM{base: base, data: make([]byte, size)}
}

// Contains reports whether the n bytes at addr all lie in RAM.
func (r *RAM) Contains(addr uintptr, n uint64) bool {
	if addr < r.base {
		return false
	}
	off := uint64(addr - r.base)
	return off <= uint64(len(r.data)) && n <= uint64(len(r.data))-off
}

// span returns an error unless the n bytes at addr all lie in RAM.
func (r *RAM) span(addr uintptr, n uint64) error {
	if !r.Contains(addr, n) {
		return fmt.Errorf("%d bytes at %#x outside RAM [%#x, %#x)", n, addr, r.base, r.base+uintptr(len(r.data)))
	}
	return nil
}

func (r *RAM) Read8(addr uintptr) (uint8, bool) {
	if !r.Contains(addr, 1) {
		return 0, false
	}
	return r.data[addr-r.base], true
}

func (r *RAM) Write8(addr uintptr, v uint8) bool {
	if !r.Contains(addr, 1) {
		return false
	}
	r.data[addr-r.base] = v
	return true
}

// WriteBytes copies b into RAM at addr.
func (r *RAM) WriteBytes(addr uintptr, b []byte) error {
	if err := r.span(addr, uint64(len(b))); err != nil {
		return err
	}
	copy(r.data[addr-r.base:], b)
	return nil
}

// LoadFlat copies a raw binary image into RAM at addr.
func (r *RAM) LoadFlat(path string, addr uintptr) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.WriteBytes(addr, b)
}
