package copeg

import (
	"github.com/coregx/copeg/match"
)

// Match is one successful match: its span in the subject plus the
// capture table filled while matching.
//
// Group 0 is the entire match; groups 1..NumGroups()-1 are the pattern's
// capture slots in declaration order (the DSL's $1, $2, …).
type Match struct {
	subject []byte
	start   int
	end     int
	index   int
	caps    *match.Captures
}

// Start returns the byte offset where the match begins.
func (m *Match) Start() int { return m.start }

// End returns the byte offset just past the match.
func (m *Match) End() int { return m.end }

// Index returns the ordinal of this match within a FindAll/Replace scan,
// starting at 0. Single-match operations always report 0.
func (m *Match) Index() int { return m.index }

// Bytes returns the matched bytes. The slice aliases the subject.
func (m *Match) Bytes() []byte { return m.subject[m.start:m.end] }

// String returns the matched text.
func (m *Match) String() string { return string(m.Bytes()) }

// NumGroups returns the group count: the entire match plus one per
// capture slot.
func (m *Match) NumGroups() int { return m.caps.Count() + 1 }

// Group returns the bytes of group i: the entire match for 0, capture
// slot i-1 otherwise. Unfilled groups return nil.
func (m *Match) Group(i int) []byte {
	if i == 0 {
		return m.Bytes()
	}
	return m.caps.Text(m.subject, i-1)
}

// GroupString returns group i as a string, "" when unfilled.
func (m *Match) GroupString(i int) string {
	return string(m.Group(i))
}

// Span returns the offsets of group i. ok is false for an out-of-range
// index or an unfilled group.
func (m *Match) Span(i int) (start, end int, ok bool) {
	if i == 0 {
		return m.start, m.end, true
	}
	sp, ok := m.caps.Span(i - 1)
	if !ok {
		return -1, -1, false
	}
	return sp.Start, sp.Start + sp.Len, true
}

// Groups returns all groups; index 0 is the entire match. Unfilled
// groups are nil.
func (m *Match) Groups() [][]byte {
	out := make([][]byte, m.NumGroups())
	for i := range out {
		out[i] = m.Group(i)
	}
	return out
}

// GroupStrings is Groups with string elements; unfilled groups are "".
func (m *Match) GroupStrings() []string {
	out := make([]string, m.NumGroups())
	for i := range out {
		out[i] = string(m.Group(i))
	}
	return out
}
