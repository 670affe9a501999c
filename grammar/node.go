// Package grammar provides the compiled representation of PEG patterns.
//
// A pattern is compiled (from the textual DSL via Parse, or from the
// programmatic constructors) into an immutable Grammar: a tree of tagged
// Nodes plus an arena of named rules. The tree is acyclic except through
// named-rule references, which hold an integer RuleID handle into the
// arena instead of an owning pointer, so recursive grammars carry no
// ownership cycles.
//
// A Grammar is read-only after compilation and safe to share across
// goroutines.
package grammar

import (
	"fmt"
)

// RuleID is the handle of a named rule inside a Grammar's rule arena.
type RuleID int32

// InvalidRule is the zero value for an unset rule handle.
const InvalidRule RuleID = -1

// MaxCaptures is the capacity of the capture table. Compilation fails if a
// pattern declares more capture slots than this.
const MaxCaptures = 20

// Op identifies the kind of a grammar node and determines which payload
// fields are valid.
type Op uint8

const (
	// OpEmpty matches the empty string; always succeeds consuming nothing.
	OpEmpty Op = iota

	// OpAny matches any single byte ('.').
	OpAny

	// OpAnyRune matches any single UTF-8 codepoint ('_').
	OpAnyRune

	// OpNewline matches "\r\n", "\r" or "\n" (the \n escape).
	OpNewline

	// OpLetter matches a single Unicode letter (\letter).
	OpLetter

	// OpLower matches a single Unicode lowercase letter (\lower).
	OpLower

	// OpUpper matches a single Unicode uppercase letter (\upper).
	OpUpper

	// OpTitle matches a single Unicode titlecase letter (\title).
	OpTitle

	// OpWhitespace matches a single Unicode space character (\white).
	OpWhitespace

	// OpLiteral matches literal text case-sensitively ('...').
	OpLiteral

	// OpLiteralFold matches literal text case-insensitively (i'...').
	OpLiteralFold

	// OpLiteralStyle matches literal text style-insensitively (y'...'):
	// case is folded and '_' is skipped on both sides.
	OpLiteralStyle

	// OpChar matches one literal byte.
	OpChar

	// OpCharClass matches one byte against a 256-bit set ([...]).
	OpCharClass

	// OpNonTerminal references a named rule by RuleID.
	OpNonTerminal

	// OpSequence matches all children in order; any failure rewinds the
	// whole sequence.
	OpSequence

	// OpChoice is PEG ordered choice: the first child that matches wins
	// and later alternatives are never attempted.
	OpChoice

	// OpRepeat is greedy zero-or-more repetition of its child.
	OpRepeat

	// OpRepeatChar is OpRepeat specialized to a single byte.
	OpRepeatChar

	// OpRepeatClass is OpRepeat specialized to a byte set.
	OpRepeatClass

	// OpOption matches its child zero or one time ('?').
	OpOption

	// OpAndPred is the zero-width and-predicate ('&'): succeeds iff the
	// child matches, never consumes.
	OpAndPred

	// OpNotPred is the zero-width not-predicate ('!'): succeeds iff the
	// child fails, never consumes.
	OpNotPred

	// OpCapture records the child's span into a fixed slot ({...}).
	OpCapture

	// OpBackRef matches the text of an earlier capture slot ($N).
	OpBackRef

	// OpBackRefFold is OpBackRef compared case-insensitively (i$N).
	OpBackRefFold

	// OpBackRefStyle is OpBackRef compared style-insensitively (y$N).
	OpBackRefStyle

	// OpSearch retries the child at increasing offsets ('@'); the match
	// spans from the original position through the end of the child match.
	OpSearch

	// OpCapturedSearch is OpSearch that also captures the skipped prefix
	// ('{@}').
	OpCapturedSearch

	// OpRule is one "Name <- body" definition inside a rule list.
	OpRule

	// OpRuleList is a whole grammar; its first rule is the entry point.
	OpRuleList

	// OpStartAnchor matches only at the original top-level start offset
	// ('^').
	OpStartAnchor

	opMax
)

// String returns a human-readable name for the Op.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(op))
}

var opNames = [...]string{
	OpEmpty:          "Empty",
	OpAny:            "Any",
	OpAnyRune:        "AnyRune",
	OpNewline:        "Newline",
	OpLetter:         "Letter",
	OpLower:          "Lower",
	OpUpper:          "Upper",
	OpTitle:          "Title",
	OpWhitespace:     "Whitespace",
	OpLiteral:        "Literal",
	OpLiteralFold:    "LiteralFold",
	OpLiteralStyle:   "LiteralStyle",
	OpChar:           "Char",
	OpCharClass:      "CharClass",
	OpNonTerminal:    "NonTerminal",
	OpSequence:       "Sequence",
	OpChoice:         "Choice",
	OpRepeat:         "Repeat",
	OpRepeatChar:     "RepeatChar",
	OpRepeatClass:    "RepeatClass",
	OpOption:         "Option",
	OpAndPred:        "AndPred",
	OpNotPred:        "NotPred",
	OpCapture:        "Capture",
	OpBackRef:        "BackRef",
	OpBackRefFold:    "BackRefFold",
	OpBackRefStyle:   "BackRefStyle",
	OpSearch:         "Search",
	OpCapturedSearch: "CapturedSearch",
	OpRule:           "Rule",
	OpRuleList:       "RuleList",
	OpStartAnchor:    "StartAnchor",
}

// NumOps returns the number of node kinds. Event handler tables are sized
// with this.
func NumOps() int { return int(opMax) }

// Node is one node of a compiled pattern tree.
//
// The Op determines which payload fields are valid; callers must check the
// tag before reading kind-specific fields (the accessors below do).
type Node struct {
	op   Op
	kids []*Node

	// Literal / LiteralFold / LiteralStyle payload.
	text []byte

	// Char / RepeatChar payload.
	ch byte

	// CharClass / RepeatClass payload.
	set CharSet

	// NonTerminal payload: handle into the Grammar's rule arena.
	rule RuleID

	// Capture and CapturedSearch slot, or BackRef target slot (0-based).
	// Assigned at compile time in left-to-right depth-first order.
	index int

	// Source position of the construct, 1-based, stamped by the textual
	// parser so build diagnostics cite it. Zero for programmatic trees.
	line, col int
}

// Op returns the node's kind.
func (n *Node) Op() Op { return n.op }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.kids) }

// Kid returns the i-th child. Panics if out of range.
func (n *Node) Kid(i int) *Node { return n.kids[i] }

// Kids returns the ordered child list. The returned slice is shared and
// must not be modified.
func (n *Node) Kids() []*Node { return n.kids }

// Text returns the literal payload for the three literal kinds.
// Returns "" for other kinds.
func (n *Node) Text() string {
	switch n.op {
	case OpLiteral, OpLiteralFold, OpLiteralStyle:
		return string(n.text)
	}
	return ""
}

// TextBytes returns the literal payload without copying.
// The returned slice is shared and must not be modified.
func (n *Node) TextBytes() []byte {
	switch n.op {
	case OpLiteral, OpLiteralFold, OpLiteralStyle:
		return n.text
	}
	return nil
}

// Char returns the byte payload for OpChar and OpRepeatChar.
// Returns 0 for other kinds.
func (n *Node) Char() byte {
	if n.op == OpChar || n.op == OpRepeatChar {
		return n.ch
	}
	return 0
}

// Set returns the byte set for OpCharClass and OpRepeatClass.
// Returns the empty set for other kinds.
func (n *Node) Set() CharSet {
	if n.op == OpCharClass || n.op == OpRepeatClass {
		return n.set
	}
	return CharSet{}
}

// Rule returns the rule handle for OpNonTerminal and OpRule nodes.
// Returns InvalidRule for other kinds.
func (n *Node) Rule() RuleID {
	if n.op == OpNonTerminal || n.op == OpRule {
		return n.rule
	}
	return InvalidRule
}

// Index returns the capture slot for OpCapture/OpCapturedSearch, or the
// referenced slot for the three back-reference kinds. 0-based.
// Returns -1 for other kinds.
func (n *Node) Index() int {
	switch n.op {
	case OpCapture, OpCapturedSearch, OpBackRef, OpBackRefFold, OpBackRefStyle:
		return n.index
	}
	return -1
}

// String returns a one-line description of the node for debugging.
// Use Grammar.Dump for the whole tree or Grammar.String for DSL text.
func (n *Node) String() string {
	switch n.op {
	case OpLiteral, OpLiteralFold, OpLiteralStyle:
		return fmt.Sprintf("%s(%q)", n.op, n.text)
	case OpChar, OpRepeatChar:
		return fmt.Sprintf("%s(%q)", n.op, n.ch)
	case OpCharClass, OpRepeatClass:
		return fmt.Sprintf("%s(%s)", n.op, n.set.String())
	case OpNonTerminal, OpRule:
		return fmt.Sprintf("%s(#%d)", n.op, n.rule)
	case OpCapture, OpCapturedSearch:
		return fmt.Sprintf("%s($%d)", n.op, n.index+1)
	case OpBackRef, OpBackRefFold, OpBackRefStyle:
		return fmt.Sprintf("%s($%d)", n.op, n.index+1)
	default:
		if len(n.kids) > 0 {
			return fmt.Sprintf("%s/%d", n.op, len(n.kids))
		}
		return n.op.String()
	}
}

// count returns the number of nodes in the subtree, used by the inlining
// heuristic. Rule references count as one node.
func (n *Node) count() int {
	total := 1
	for _, k := range n.kids {
		total += k.count()
	}
	return total
}
