// Package logger is the process-wide diagnostic log of the hosted tools.
//
// Records are kept in a fixed ring; the oldest is overwritten once the ring
// is full. A record identical to the newest one bumps that record's count
// instead of taking a new slot. The firmware does not log: its only output
// is the serial stream.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// capacity of the process log.
const capacity = 256

type record struct {
	tag, msg string
	count    int
}

func (r record) format(w io.Writer) {
	if r.count > 1 {
		fmt.Fprintf(w, "%s: %s [x%d]\n", r.tag, r.msg, r.count)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", r.tag, r.msg)
}

type ring struct {
	mu   sync.Mutex
	recs []record
	next int // slot for the next record
	n    int // records held
	echo io.Writer
}

func newRing(size int) *ring {
	return &ring{recs: make([]record, size)}
}

// at returns the i'th oldest record held.
func (g *ring) at(i int) *record {
	return &g.recs[(g.next-g.n+i+len(g.recs))%len(g.recs)]
}

func (g *ring) add(tag, msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// one line per record
	tag = strings.ReplaceAll(tag, "\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")

	var r *record
	if g.n > 0 {
		r = g.at(g.n - 1)
	}
	if r == nil || r.tag != tag || r.msg != msg {
		r = &g.recs[g.next]
		*r = record{tag: tag, msg: msg}
		g.next = (g.next + 1) % len(g.recs)
		if g.n < len(g.recs) {
			g.n++
		}
	}
	r.count++

	if g.echo != nil {
		r.format(g.echo)
	}
}

func (g *ring) tail(w io.Writer, k int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if k > g.n {
		k = g.n
	}
	for i := g.n - k; i < g.n; i++ {
		g.at(i).format(w)
	}
}

func (g *ring) setEcho(w io.Writer) {
	g.mu.Lock()
	g.echo = w
	g.mu.Unlock()
}

var std = newRing(capacity)

// Log records msg under tag.
func Log(tag, msg string) { std.add(tag, msg) }

// Logf records a formatted message under tag.
func Logf(tag, format string, args ...interface{}) { std.add(tag, fmt.Sprintf(format, args...)) }

// Tail writes the newest k records to w, oldest first.
func Tail(w io.Writer, k int) { std.tail(w, k) }

// SetEcho copies every record to w as it is made. A nil w stops echoing.
func SetEcho(w io.Writer) { std.setEcho(w) }
