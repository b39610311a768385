package sim

import "fmt"

// Fault is the panic value raised by the simulated bus for an access the
// board cannot complete. It stands in for a synchronous data abort.
type Fault struct {
	Addr   uintptr
	Write  bool
	Reason string
}

func (f *Fault) Error() string {
	op := "read"
	if f.Write {
		op = "write"
	}
	return fmt.Sprintf("bus fault: %s %#x: %s", op, f.Addr, f.Reason)
}
