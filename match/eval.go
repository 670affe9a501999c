package match

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/copeg/grammar"
)

// NoMatch is the designated failure result. It is distinct from a valid
// zero-length success: absence of a match is not an error.
const NoMatch = -1

// Evaluator runs a compiled grammar against subjects.
//
// The Evaluator itself is stateless and safe for concurrent use; callers
// running evaluations in parallel pass a separate Captures to each Run.
type Evaluator struct {
	g     *grammar.Grammar
	hooks Hooks
}

// NewEvaluator returns an evaluator for g.
func NewEvaluator(g *grammar.Grammar) *Evaluator {
	return &Evaluator{g: g}
}

// Grammar returns the compiled grammar the evaluator runs.
func (e *Evaluator) Grammar() *grammar.Grammar { return e.g }

// Run attempts a match at exactly the given start position and returns
// the consumed length, or NoMatch.
//
// caps is reset first and filled with the spans of successful captures;
// pass nil when captures are not needed. A start anchor in the pattern
// refers to this start position.
func (e *Evaluator) Run(subject []byte, start int, caps *Captures) int {
	return e.RunFrom(subject, start, start, caps)
}

// RunFrom is Run with the anchor origin decoupled from the attempt
// position: a '^' in the pattern succeeds only at origin. Unanchored
// facade scans use it so the anchor keeps referring to where the scan
// began while the attempt position advances.
func (e *Evaluator) RunFrom(subject []byte, start, origin int, caps *Captures) int {
	if start < 0 || start > len(subject) {
		return NoMatch
	}
	if caps == nil {
		caps = NewCaptures(e.g)
	} else {
		caps.Reset()
	}
	m := &machine{
		subject: subject,
		g:       e.g,
		start:   origin,
		caps:    caps,
		hooks:   e.hooks,
	}
	return m.eval(entryNode(e.g), start)
}

// entryNode resolves the node evaluation begins with: the first rule's
// body for a rule-list grammar, otherwise the root itself.
func entryNode(g *grammar.Grammar) *grammar.Node {
	root := g.Root()
	if root.Op() == grammar.OpRuleList {
		return g.RuleBody(root.Kid(0).Rule())
	}
	return root
}

// machine is the per-evaluation state: subject, top-level start offset
// (for the '^' anchor) and the capture table.
type machine struct {
	subject []byte
	g       *grammar.Grammar
	start   int
	caps    *Captures
	hooks   Hooks
}

// eval dispatches one node, invoking registered enter/leave hooks around
// the visit.
func (m *machine) eval(n *grammar.Node, pos int) int {
	if m.hooks == nil {
		return m.evalNode(n, pos)
	}
	h, ok := m.hooks[n.Op()]
	if !ok {
		return m.evalNode(n, pos)
	}
	if h.Enter != nil {
		h.Enter(m.subject, n, pos)
	}
	length := m.evalNode(n, pos)
	if h.Leave != nil {
		h.Leave(m.subject, n, pos, length)
	}
	return length
}

// evalNode is the core tag dispatch. Success is the consumed length
// (zero is valid), failure is NoMatch; a failing node never moves the
// position, so callers need no explicit rewind.
//
//nolint:gocyclo,cyclop // complexity is inherent to tree dispatch
func (m *machine) evalNode(n *grammar.Node, pos int) int {
	sub := m.subject

	switch n.Op() {
	case grammar.OpEmpty:
		return 0

	case grammar.OpAny:
		if pos < len(sub) {
			return 1
		}
		return NoMatch

	case grammar.OpAnyRune:
		if pos < len(sub) {
			_, width := utf8.DecodeRune(sub[pos:])
			return width
		}
		return NoMatch

	case grammar.OpNewline:
		if pos < len(sub) {
			if sub[pos] == '\r' {
				if pos+1 < len(sub) && sub[pos+1] == '\n' {
					return 2
				}
				return 1
			}
			if sub[pos] == '\n' {
				return 1
			}
		}
		return NoMatch

	case grammar.OpLetter:
		return m.runeClass(pos, unicode.IsLetter)

	case grammar.OpLower:
		return m.runeClass(pos, unicode.IsLower)

	case grammar.OpUpper:
		return m.runeClass(pos, unicode.IsUpper)

	case grammar.OpTitle:
		return m.runeClass(pos, unicode.IsTitle)

	case grammar.OpWhitespace:
		return m.runeClass(pos, unicode.IsSpace)

	case grammar.OpLiteral:
		text := n.TextBytes()
		if bytes.HasPrefix(sub[pos:], text) {
			return len(text)
		}
		return NoMatch

	case grammar.OpLiteralFold:
		return matchFold(sub[pos:], n.TextBytes())

	case grammar.OpLiteralStyle:
		return matchStyle(sub[pos:], n.TextBytes())

	case grammar.OpChar:
		if pos < len(sub) && sub[pos] == n.Char() {
			return 1
		}
		return NoMatch

	case grammar.OpCharClass:
		if pos < len(sub) {
			set := n.Set()
			if set.Contains(sub[pos]) {
				return 1
			}
		}
		return NoMatch

	case grammar.OpNonTerminal:
		return m.eval(m.g.RuleBody(n.Rule()), pos)

	case grammar.OpSequence:
		total := 0
		for _, k := range n.Kids() {
			length := m.eval(k, pos+total)
			if length == NoMatch {
				// Abort the whole sequence; nothing consumed.
				return NoMatch
			}
			total += length
		}
		return total

	case grammar.OpChoice:
		// Ordered choice: the first success wins and later
		// alternatives are never attempted.
		for _, k := range n.Kids() {
			if length := m.eval(k, pos); length != NoMatch {
				return length
			}
		}
		return NoMatch

	case grammar.OpRepeat:
		kid := n.Kid(0)
		total := 0
		for {
			length := m.eval(kid, pos+total)
			if length == NoMatch {
				break
			}
			if length == 0 {
				// One zero-length success is allowed, then the
				// loop stops; this guarantees termination.
				break
			}
			total += length
		}
		return total

	case grammar.OpRepeatChar:
		c := n.Char()
		i := pos
		for i < len(sub) && sub[i] == c {
			i++
		}
		return i - pos

	case grammar.OpRepeatClass:
		set := n.Set()
		i := pos
		for i < len(sub) && set.Contains(sub[i]) {
			i++
		}
		return i - pos

	case grammar.OpOption:
		if length := m.eval(n.Kid(0), pos); length != NoMatch {
			return length
		}
		return 0

	case grammar.OpAndPred:
		// Zero-width: position is never consumed, whatever the
		// sub-pattern did.
		if m.eval(n.Kid(0), pos) != NoMatch {
			return 0
		}
		return NoMatch

	case grammar.OpNotPred:
		if m.eval(n.Kid(0), pos) == NoMatch {
			return 0
		}
		return NoMatch

	case grammar.OpCapture:
		length := m.eval(n.Kid(0), pos)
		if length != NoMatch {
			m.caps.set(n.Index(), pos, length)
		}
		return length

	case grammar.OpBackRef:
		text := m.caps.Text(sub, n.Index())
		if text == nil {
			return NoMatch
		}
		if bytes.HasPrefix(sub[pos:], text) {
			return len(text)
		}
		return NoMatch

	case grammar.OpBackRefFold:
		text := m.caps.Text(sub, n.Index())
		if text == nil {
			return NoMatch
		}
		return matchFold(sub[pos:], text)

	case grammar.OpBackRefStyle:
		text := m.caps.Text(sub, n.Index())
		if text == nil {
			return NoMatch
		}
		return matchStyle(sub[pos:], text)

	case grammar.OpSearch:
		kid := n.Kid(0)
		for off := 0; pos+off <= len(sub); off++ {
			if length := m.eval(kid, pos+off); length != NoMatch {
				return off + length
			}
		}
		return NoMatch

	case grammar.OpCapturedSearch:
		kid := n.Kid(0)
		for off := 0; pos+off <= len(sub); off++ {
			if length := m.eval(kid, pos+off); length != NoMatch {
				m.caps.set(n.Index(), pos, off)
				return off + length
			}
		}
		return NoMatch

	case grammar.OpRule:
		return m.eval(m.g.RuleBody(n.Rule()), pos)

	case grammar.OpRuleList:
		return m.eval(m.g.RuleBody(n.Kid(0).Rule()), pos)

	case grammar.OpStartAnchor:
		if pos == m.start {
			return 0
		}
		return NoMatch
	}

	return NoMatch
}

// runeClass matches one codepoint satisfying pred.
func (m *machine) runeClass(pos int, pred func(rune) bool) int {
	if pos >= len(m.subject) {
		return NoMatch
	}
	r, width := utf8.DecodeRune(m.subject[pos:])
	if pred(r) {
		return width
	}
	return NoMatch
}

// matchFold compares the head of sub against text case-insensitively,
// codepoint by codepoint. Returns the number of subject bytes consumed,
// or NoMatch.
func matchFold(sub, text []byte) int {
	i, j := 0, 0
	for j < len(text) {
		if i >= len(sub) {
			return NoMatch
		}
		sr, sw := utf8.DecodeRune(sub[i:])
		tr, tw := utf8.DecodeRune(text[j:])
		if unicode.ToLower(sr) != unicode.ToLower(tr) {
			return NoMatch
		}
		i += sw
		j += tw
	}
	return i
}

// matchStyle compares the head of sub against text style-insensitively:
// case is folded and '_' is skipped on both sides. Skipping applies at
// every position including the ends, so the consumed prefix is the
// longest one that folds to text: "key_word_" consumes all 9 bytes
// against "keyword". Callers needing a hard boundary after the literal
// follow it with an explicit next element.
func matchStyle(sub, text []byte) int {
	i, j := 0, 0
	for {
		for j < len(text) && text[j] == '_' {
			j++
		}
		for i < len(sub) && sub[i] == '_' {
			i++
		}
		if j >= len(text) {
			return i
		}
		if i >= len(sub) {
			return NoMatch
		}
		sr, sw := utf8.DecodeRune(sub[i:])
		tr, tw := utf8.DecodeRune(text[j:])
		if unicode.ToLower(sr) != unicode.ToLower(tr) {
			return NoMatch
		}
		i += sw
		j += tw
	}
}
