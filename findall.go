package copeg

import (
	"iter"

	"github.com/coregx/copeg/match"
)

// Matches returns an iterator over successive non-overlapping matches in
// b, left to right. A zero-length match advances the scan by one byte so
// iteration always terminates.
//
// Example:
//
//	p := copeg.MustCompile(`\w+`)
//	for m := range p.Matches([]byte("one two")) {
//	    fmt.Println(m.String())
//	}
func (p *Peg) Matches(b []byte) iter.Seq[*Match] {
	return func(yield func(*Match) bool) {
		pos := 0
		for i := 0; pos <= len(b); i++ {
			caps := match.NewCaptures(p.g)
			start, end := p.findFrom(b, pos, 0, caps)
			if start < 0 {
				return
			}
			m := &Match{subject: b, start: start, end: end, index: i, caps: caps}
			if !yield(m) {
				return
			}
			if end > pos {
				pos = end
			} else {
				pos = start + 1
			}
		}
	}
}

// FindAll returns the text of all successive matches in b. At most n
// matches when n > 0; all matches when n <= 0. Returns nil when there
// are none.
//
// Example:
//
//	p := copeg.MustCompile(`\w+`)
//	p.FindAll([]byte("one two three"), -1) // ["one" "two" "three"]
func (p *Peg) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	var out [][]byte
	for m := range p.Matches(b) {
		out = append(out, m.Bytes())
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllString is FindAll for a string subject.
func (p *Peg) FindAllString(s string, n int) []string {
	all := p.FindAll([]byte(s), n)
	if all == nil {
		return nil
	}
	out := make([]string, len(all))
	for i, b := range all {
		out[i] = string(b)
	}
	return out
}

// FindAllIndex returns the spans of all successive matches in b as
// [start, end] pairs. At most n matches when n > 0.
func (p *Peg) FindAllIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	for m := range p.Matches(b) {
		out = append(out, []int{m.Start(), m.End()})
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllStringIndex is FindAllIndex for a string subject.
func (p *Peg) FindAllStringIndex(s string, n int) [][]int {
	return p.FindAllIndex([]byte(s), n)
}

// FindAllSubmatch returns all successive matches with their capture
// groups (see FindSubmatch). At most n matches when n > 0.
func (p *Peg) FindAllSubmatch(b []byte, n int) [][][]byte {
	if n == 0 {
		return nil
	}
	var out [][][]byte
	for m := range p.Matches(b) {
		out = append(out, m.Groups())
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllStringSubmatch is FindAllSubmatch for a string subject.
func (p *Peg) FindAllStringSubmatch(s string, n int) [][]string {
	if n == 0 {
		return nil
	}
	var out [][]string
	for m := range p.Matches([]byte(s)) {
		out = append(out, m.GroupStrings())
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// Count returns the number of non-overlapping matches in b. At most n
// when n > 0; all when n <= 0.
//
// Example:
//
//	p := copeg.MustCompile(`\d+`)
//	p.Count([]byte("1 2 3"), -1) // 3
func (p *Peg) Count(b []byte, n int) int {
	count := 0
	for range p.Matches(b) {
		count++
		if n > 0 && count >= n {
			break
		}
	}
	return count
}

// CountString is Count for a string subject.
func (p *Peg) CountString(s string, n int) int {
	return p.Count([]byte(s), n)
}
