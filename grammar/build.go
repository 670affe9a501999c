package grammar

// Programmatic construction API.
//
// These constructors mirror every node kind of the textual DSL and apply
// the same normalizations the parser relies on (flattening nested
// sequences/choices, specializing repetition over single bytes and byte
// sets), so building a pattern by hand yields a tree structurally
// equivalent to compiling the corresponding DSL text.

// Empty returns the empty pattern; it always succeeds consuming nothing.
func Empty() *Node { return &Node{op: OpEmpty} }

// Any returns '.': any single byte.
func Any() *Node { return &Node{op: OpAny} }

// AnyRune returns '_': any single UTF-8 codepoint.
func AnyRune() *Node { return &Node{op: OpAnyRune} }

// Newline matches "\r\n", "\r" or "\n".
func Newline() *Node { return &Node{op: OpNewline} }

// Letter matches one Unicode letter.
func Letter() *Node { return &Node{op: OpLetter} }

// Lower matches one Unicode lowercase letter.
func Lower() *Node { return &Node{op: OpLower} }

// Upper matches one Unicode uppercase letter.
func Upper() *Node { return &Node{op: OpUpper} }

// Title matches one Unicode titlecase letter.
func Title() *Node { return &Node{op: OpTitle} }

// Whitespace matches one Unicode space character.
func Whitespace() *Node { return &Node{op: OpWhitespace} }

// StartAnchor returns '^': matches only at the top-level start offset.
func StartAnchor() *Node { return &Node{op: OpStartAnchor} }

// Literal returns a case-sensitive text literal. A one-byte literal
// becomes an OpChar node; the empty literal becomes OpEmpty.
func Literal(s string) *Node {
	switch len(s) {
	case 0:
		return Empty()
	case 1:
		return Ch(s[0])
	}
	return &Node{op: OpLiteral, text: []byte(s)}
}

// LiteralFold returns a case-insensitive text literal (i'...').
func LiteralFold(s string) *Node {
	return &Node{op: OpLiteralFold, text: []byte(s)}
}

// LiteralStyle returns a style-insensitive text literal (y'...'):
// comparison folds case and skips '_' on both sides.
func LiteralStyle(s string) *Node {
	return &Node{op: OpLiteralStyle, text: []byte(s)}
}

// Ch returns a single-byte literal.
func Ch(c byte) *Node { return &Node{op: OpChar, ch: c} }

// Class returns a character-class node matching one byte of set.
func Class(set CharSet) *Node { return &Node{op: OpCharClass, set: set} }

// SetOf builds a CharSet from the bytes of chars.
func SetOf(chars string) CharSet {
	var s CharSet
	for i := 0; i < len(chars); i++ {
		s.Add(chars[i])
	}
	return s
}

// SetRange builds a CharSet containing the inclusive byte range [lo, hi].
func SetRange(lo, hi byte) CharSet {
	var s CharSet
	s.AddRange(lo, hi)
	return s
}

// Sequence matches all parts in order. Nested sequences are flattened;
// a single part is returned as-is; no parts yields Empty.
func Sequence(parts ...*Node) *Node {
	flat := make([]*Node, 0, len(parts))
	for _, p := range parts {
		if p.op == OpSequence {
			flat = append(flat, p.kids...)
		} else {
			flat = append(flat, p)
		}
	}
	switch len(flat) {
	case 0:
		return Empty()
	case 1:
		return flat[0]
	}
	return &Node{op: OpSequence, kids: flat}
}

// Choice is PEG ordered choice over the alternatives. Nested choices are
// flattened; a single alternative is returned as-is.
func Choice(alts ...*Node) *Node {
	flat := make([]*Node, 0, len(alts))
	for _, a := range alts {
		if a.op == OpChoice {
			flat = append(flat, a.kids...)
		} else {
			flat = append(flat, a)
		}
	}
	switch len(flat) {
	case 0:
		return Empty()
	case 1:
		return flat[0]
	}
	return &Node{op: OpChoice, kids: flat}
}

// Star is greedy zero-or-more repetition ('*'). Repetition over a single
// byte or a byte set is specialized to the optimized kinds; repetition of
// an already-repeating or optional pattern collapses to a single Repeat.
func Star(n *Node) *Node {
	switch n.op {
	case OpChar:
		return &Node{op: OpRepeatChar, ch: n.ch}
	case OpCharClass:
		return &Node{op: OpRepeatClass, set: n.set}
	case OpRepeat, OpRepeatChar, OpRepeatClass:
		return n
	case OpOption:
		return Star(n.kids[0])
	}
	return &Node{op: OpRepeat, kids: []*Node{n}}
}

// Plus is greedy one-or-more repetition ('+'), built as n followed by n*.
// The repeated part is shared, not copied, so a capture inside it keeps a
// single slot; each iteration overwrites that slot and the last one wins.
func Plus(n *Node) *Node {
	return Sequence(n, Star(n))
}

// Optional matches n zero or one time ('?').
func Optional(n *Node) *Node {
	if n.op == OpOption {
		return n
	}
	return &Node{op: OpOption, kids: []*Node{n}}
}

// And is the zero-width and-predicate ('&').
func And(n *Node) *Node { return &Node{op: OpAndPred, kids: []*Node{n}} }

// Not is the zero-width not-predicate ('!').
func Not(n *Node) *Node { return &Node{op: OpNotPred, kids: []*Node{n}} }

// Capture records n's matched span into the next capture slot.
// Slots are numbered at compile time by Builder.Build.
func Capture(n *Node) *Node {
	return &Node{op: OpCapture, kids: []*Node{n}, index: -1}
}

// BackRef matches the text recorded in capture slot n (1-based, as in the
// DSL's $1). Build rejects references to slots not declared earlier.
func BackRef(n int) *Node { return &Node{op: OpBackRef, index: n - 1} }

// BackRefFold is BackRef compared case-insensitively.
func BackRefFold(n int) *Node { return &Node{op: OpBackRefFold, index: n - 1} }

// BackRefStyle is BackRef compared style-insensitively.
func BackRefStyle(n int) *Node { return &Node{op: OpBackRefStyle, index: n - 1} }

// Search retries n at increasing offsets ('@') until it matches or the
// subject is exhausted.
func Search(n *Node) *Node { return &Node{op: OpSearch, kids: []*Node{n}} }

// CapturedSearch is Search that additionally captures the skipped prefix
// ('{@}').
func CapturedSearch(n *Node) *Node {
	return &Node{op: OpCapturedSearch, kids: []*Node{n}, index: -1}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	c := *n
	if len(n.kids) > 0 {
		c.kids = make([]*Node, len(n.kids))
		for i, k := range n.kids {
			c.kids[i] = k.Clone()
		}
	}
	return &c
}
