package copeg

import (
	"github.com/coregx/copeg/match"
)

// findAt returns the span of the leftmost match at or after position at,
// or (-1, -1). caps, when non-nil, holds the winning attempt's captures
// afterwards.
func (p *Peg) findAt(b []byte, at int, caps *match.Captures) (int, int) {
	return p.findFrom(b, at, at, caps)
}

// findFrom is findAt with a separate anchor origin, so that '^' in the
// pattern keeps meaning the start of the whole scan while successive
// attempts move forward (Matches resumes with origin 0 after each hit).
//
// The prefilter, when one was extracted at compile time, jumps the scan
// to the next position that can begin a match instead of re-running the
// evaluator at every byte.
func (p *Peg) findFrom(b []byte, at, origin int, caps *match.Captures) (int, int) {
	pos := at
	for pos <= len(b) {
		if p.pf != nil {
			cand := p.pf.Find(b, pos)
			if cand < 0 {
				return -1, -1
			}
			if p.pf.IsComplete() {
				// Exact-literal pattern: the candidate is the match.
				if caps != nil {
					caps.Reset()
				}
				return cand, cand + p.pf.LiteralLen()
			}
			pos = cand
		}
		if length := p.ev.RunFrom(b, pos, origin, caps); length != match.NoMatch {
			return pos, pos + length
		}
		pos++
	}
	return -1, -1
}

// Find returns the text of the leftmost match in b, or nil.
//
// Example:
//
//	p := copeg.MustCompile(`\d+`)
//	p.Find([]byte("age: 42")) // "42"
func (p *Peg) Find(b []byte) []byte {
	start, end := p.findAt(b, 0, nil)
	if start < 0 {
		return nil
	}
	return b[start:end]
}

// FindString returns the text of the leftmost match in s, or "".
func (p *Peg) FindString(s string) string {
	return string(p.Find([]byte(s)))
}

// FindIndex returns the span [start, end] of the leftmost match in b,
// or nil.
//
// Example:
//
//	p := copeg.MustCompile(`\d+`)
//	p.FindIndex([]byte("age: 42")) // [5, 7]
func (p *Peg) FindIndex(b []byte) []int {
	start, end := p.findAt(b, 0, nil)
	if start < 0 {
		return nil
	}
	return []int{start, end}
}

// FindStringIndex is FindIndex for a string subject.
func (p *Peg) FindStringIndex(s string) []int {
	return p.FindIndex([]byte(s))
}

// FindMatch returns the leftmost match with its captures, or nil.
func (p *Peg) FindMatch(b []byte) *Match {
	caps := match.NewCaptures(p.g)
	start, end := p.findAt(b, 0, caps)
	if start < 0 {
		return nil
	}
	return &Match{subject: b, start: start, end: end, caps: caps}
}

// FindSubmatch returns the leftmost match and its capture groups:
// element 0 is the entire match, element i is capture $i. Returns nil
// when there is no match.
//
// Example:
//
//	p := copeg.MustCompile(`{[0-9]+} '-' {[0-9]+}`)
//	m := p.FindSubmatch([]byte("2024-05"))
//	// m[0] = "2024-05", m[1] = "2024", m[2] = "05"
func (p *Peg) FindSubmatch(b []byte) [][]byte {
	m := p.FindMatch(b)
	if m == nil {
		return nil
	}
	return m.Groups()
}

// FindStringSubmatch is FindSubmatch for a string subject.
func (p *Peg) FindStringSubmatch(s string) []string {
	m := p.FindMatch([]byte(s))
	if m == nil {
		return nil
	}
	return m.GroupStrings()
}
