//go:build !tinygo

package board

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML profile from path. Keys missing from the file keep the
// values of QEMUVirt.
func Load(path string) (Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("board: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML profile, defaulting to QEMUVirt, and validates it.
func Parse(b []byte) (Profile, error) {
	p := QEMUVirt
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("board: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("board %s: %w", p.Name, err)
	}
	return p, nil
}

// Marshal encodes p as YAML.
func (p Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

var (
	ErrBase  = errors.New("uart base must be non-zero and word aligned")
	ErrBaud  = errors.New("baud rate out of range for clock")
	ErrDelay = errors.New("delay iterations must not be negative")
)

// Validate checks that p describes a usable PL011.
func (p Profile) Validate() error {
	if p.UARTBase == 0 || p.UARTBase&3 != 0 {
		return fmt.Errorf("%w: %#x", ErrBase, p.UARTBase)
	}
	if p.DelayIterations < 0 {
		return ErrDelay
	}
	c := p.UARTConfig()
	if c.IsZero() {
		return nil
	}
	if ibrd, _ := c.Divisors(); ibrd == 0 || ibrd > 0xffff {
		return fmt.Errorf("%w: %d baud at %d Hz", ErrBaud, p.Baud, p.UARTClockHz)
	}
	return nil
}
