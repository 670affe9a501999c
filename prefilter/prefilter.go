// Package prefilter provides fast candidate filtering for unanchored PEG
// search using extracted literal prefixes.
//
// A prefilter quickly rejects subject positions that cannot begin a
// match, so the evaluator only runs at candidate positions. The strategy
// is selected from the extracted prefix set:
//   - single one-byte prefix → bytes.IndexByte scan
//   - single prefix → bytes.Index scan
//   - multiple prefixes → Aho-Corasick automaton
//
// A prefilter hit is a candidate, not a match; the caller verifies with
// the evaluator unless IsComplete reports otherwise.
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/copeg/literal"
)

// Prefilter finds candidate match positions.
type Prefilter interface {
	// Find returns the first candidate position at or after start, or
	// -1 when no candidate exists.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is guaranteed to be a full
	// match, letting the caller skip verification.
	IsComplete() bool

	// LiteralLen returns the match length when IsComplete is true, and
	// 0 otherwise.
	LiteralLen() int
}

// FromSeq builds the best prefilter for an extracted prefix set.
// Returns nil when the set is inexact or empty; callers fall back to a
// plain position-by-position scan.
func FromSeq(seq *literal.Seq) Prefilter {
	if seq == nil || !seq.Exact() || seq.IsEmpty() {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit) == 1 {
			return &memchrPrefilter{c: lit[0], complete: seq.Complete()}
		}
		return &memmemPrefilter{lit: lit, complete: seq.Complete()}
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoPrefilter{auto: auto}
}

// memchrPrefilter scans for a single byte.
type memchrPrefilter struct {
	c        byte
	complete bool
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := bytes.IndexByte(haystack[start:], p.c)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// memmemPrefilter scans for a single substring.
type memmemPrefilter struct {
	lit      []byte
	complete bool
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], p.lit)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.lit)
	}
	return 0
}

// ahoPrefilter scans for any of several prefixes with one automaton
// pass per call.
type ahoPrefilter struct {
	auto *ahocorasick.Automaton
}

func (p *ahoPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete is always false for the multi-literal case: the automaton
// reports the leftmost occurrence of any prefix, which still needs PEG
// verification (ordered choice may prefer a different alternative).
func (p *ahoPrefilter) IsComplete() bool { return false }

func (p *ahoPrefilter) LiteralLen() int { return 0 }
