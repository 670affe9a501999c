package grammar

import (
	"fmt"

	"github.com/coregx/copeg/internal/conv"
	"github.com/coregx/copeg/internal/sparse"
)

// Left-recursion rejection.
//
// The evaluator is a plain recursive descender: a rule that can invoke
// itself before consuming a byte recurses forever. Build refuses such
// grammars instead of letting evaluation blow the stack. The check
// walks only the "null-prefix" positions of each body, i.e. the places
// a call can be reached with nothing consumed yet, which requires
// knowing per rule whether its body can succeed on empty input.

// checkLeftRecursion returns an error if any defined rule can re-enter
// itself without consuming input.
func (b *Builder) checkLeftRecursion() error {
	nullable := b.ruleNullability()
	seen := sparse.New(conv.IntToUint32(len(b.rules)))

	for id := range b.rules {
		body := b.rules[id].body
		if body == nil {
			continue
		}
		seen.Clear()
		if b.leftCalls(body, RuleID(id), nullable, seen) {
			return &BuildError{
				Msg:  fmt.Sprintf("rule %q is left-recursive", b.rules[id].name),
				Err:  ErrLeftRecursion,
				Line: b.rules[id].line, Col: b.rules[id].col,
			}
		}
	}
	return nil
}

// leftCalls reports whether evaluating n can invoke target before any
// byte is consumed. seen cuts off repeated descent through other rules.
func (b *Builder) leftCalls(n *Node, target RuleID, nullable []bool, seen *sparse.Set) bool {
	switch n.op {
	case OpNonTerminal:
		if n.rule == target {
			return true
		}
		if int(n.rule) < 0 || int(n.rule) >= len(b.rules) {
			// Invalid handles are reported by Build's validation pass.
			return false
		}
		if seen.Contains(uint32(n.rule)) {
			return false
		}
		seen.Insert(uint32(n.rule))
		body := b.rules[n.rule].body
		return body != nil && b.leftCalls(body, target, nullable, seen)

	case OpSequence:
		for _, k := range n.kids {
			if b.leftCalls(k, target, nullable, seen) {
				return true
			}
			if !b.nullableNode(k, nullable) {
				return false
			}
		}
		return false

	case OpChoice:
		for _, k := range n.kids {
			if b.leftCalls(k, target, nullable, seen) {
				return true
			}
		}
		return false

	case OpRepeat, OpOption, OpCapture, OpCapturedSearch,
		OpAndPred, OpNotPred, OpSearch:
		return b.leftCalls(n.kids[0], target, nullable, seen)
	}
	return false
}

// ruleNullability computes, per rule, whether the body can succeed
// consuming nothing. Fixpoint iteration over the rule set; undefined
// bodies stay false.
func (b *Builder) ruleNullability() []bool {
	nullable := make([]bool, len(b.rules))
	for changed := true; changed; {
		changed = false
		for id := range b.rules {
			if nullable[id] || b.rules[id].body == nil {
				continue
			}
			if b.nullableNode(b.rules[id].body, nullable) {
				nullable[id] = true
				changed = true
			}
		}
	}
	return nullable
}

// nullableNode reports whether n can succeed consuming nothing, given
// the current rule nullability table.
func (b *Builder) nullableNode(n *Node, nullable []bool) bool {
	switch n.op {
	case OpEmpty, OpOption, OpRepeat, OpRepeatChar, OpRepeatClass,
		OpAndPred, OpNotPred, OpStartAnchor,
		OpBackRef, OpBackRefFold, OpBackRefStyle:
		// A back-reference to an empty capture consumes nothing.
		return true
	case OpLiteral, OpLiteralFold, OpLiteralStyle:
		return len(n.text) == 0
	case OpSequence:
		for _, k := range n.kids {
			if !b.nullableNode(k, nullable) {
				return false
			}
		}
		return true
	case OpChoice:
		for _, k := range n.kids {
			if b.nullableNode(k, nullable) {
				return true
			}
		}
		return false
	case OpCapture, OpSearch, OpCapturedSearch:
		return b.nullableNode(n.kids[0], nullable)
	case OpNonTerminal:
		return int(n.rule) >= 0 && int(n.rule) < len(nullable) && nullable[n.rule]
	}
	return false
}
