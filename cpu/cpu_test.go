//go:build !tinygo

package cpu

import (
	"testing"

	"hellometal/demo"
)

// cmd/firmware passes a Core to demo.New.
var _ demo.Core = Core{}

func TestHints(t *testing.T) {
	var c Core
	c.Nop()
	c.WaitForEvent()
}
