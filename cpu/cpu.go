// Package cpu issues processor hint instructions on the target.
package cpu

// Core is the running processor.
type Core struct{}
