package copeg

import (
	"iter"
)

// SplitSeq returns an iterator over the substrings of s between
// consecutive matches of the pattern, acting as the separator.
//
// A separator match at a boundary yields an empty piece, so
// `','` splits "a,,b" into "a", "", "b" and ",a," into "", "a", "".
// When the separator never matches, the whole input is one piece.
func (p *Peg) SplitSeq(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		last := 0
		for m := range p.Matches([]byte(s)) {
			if !yield(s[last:m.Start()]) {
				return
			}
			last = m.End()
		}
		yield(s[last:])
	}
}

// Split slices s into the substrings between matches of the pattern.
//
// The count n follows the stdlib convention:
//
//	n > 0: at most n pieces; the last piece is the unsplit remainder
//	n == 0: nil
//	n < 0: all pieces
//
// Example:
//
//	p := copeg.MustCompile(`','`)
//	p.Split("a,,b", -1) // ["a", "", "b"]
func (p *Peg) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}

	var out []string
	last := 0
	for m := range p.Matches([]byte(s)) {
		if n > 0 && len(out) >= n-1 {
			break
		}
		out = append(out, s[last:m.Start()])
		last = m.End()
	}
	return append(out, s[last:])
}
