// Package match implements the recursive PEG evaluator: given a compiled
// grammar, a subject and a start position it returns the consumed length
// (or NoMatch) and fills the capture table.
//
// Evaluation is purely synchronous and allocation-free on the hot path.
// A Grammar is immutable and may be shared; the only mutable state is the
// Captures value, which must be owned by a single in-flight evaluation.
// Independent evaluations on separate goroutines each use their own
// Captures.
package match

import (
	"github.com/coregx/copeg/grammar"
)

// Span is one capture slot: a start offset and length into the subject.
// Start == -1 means the slot was not filled during the evaluation.
type Span struct {
	Start int
	Len   int
}

// Captures is the fixed-capacity capture table. Slot indices are assigned
// at compile time in left-to-right depth-first order; the table is reset
// per top-level match attempt.
type Captures struct {
	spans [grammar.MaxCaptures]Span
	count int
}

// NewCaptures returns a capture table sized for g's declared slots, with
// every slot unset.
func NewCaptures(g *grammar.Grammar) *Captures {
	c := &Captures{count: g.Captures()}
	c.Reset()
	return c
}

// Reset marks every slot unset.
func (c *Captures) Reset() {
	for i := range c.spans {
		c.spans[i] = Span{Start: -1}
	}
}

// Count returns the number of slots the grammar declares.
func (c *Captures) Count() int { return c.count }

// Span returns the i-th slot. ok is false for an out-of-range index or an
// unset slot.
func (c *Captures) Span(i int) (sp Span, ok bool) {
	if i < 0 || i >= c.count || c.spans[i].Start < 0 {
		return Span{Start: -1}, false
	}
	return c.spans[i], true
}

// Text returns the subject bytes of the i-th slot, or nil if unset.
// The returned slice aliases subject.
func (c *Captures) Text(subject []byte, i int) []byte {
	sp, ok := c.Span(i)
	if !ok {
		return nil
	}
	return subject[sp.Start : sp.Start+sp.Len]
}

// set records a span. The evaluator calls this with compile-time slot
// indices, which are always in range.
func (c *Captures) set(i, start, length int) {
	c.spans[i] = Span{Start: start, Len: length}
}
