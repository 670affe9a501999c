package grammar

import (
	"fmt"

	"github.com/coregx/copeg/internal/conv"
)

// Config tunes non-semantic compilation behavior.
type Config struct {
	// InlineLimit is the maximum node count of a rule body that may be
	// inlined at its reference sites. Inlining is a pure optimization;
	// bodies containing captures or back-references are never inlined
	// because duplicating them would renumber slots. 0 disables inlining.
	InlineLimit int
}

// DefaultConfig returns the default compilation configuration.
func DefaultConfig() Config {
	return Config{InlineLimit: 3}
}

// rule is one named nonterminal in the arena.
type rule struct {
	name string
	body *Node

	// declaration position in the source text, 0 for programmatic rules
	line, col int

	declared bool
	used     bool
}

// Grammar is a compiled pattern: the root node plus the rule arena that
// OpNonTerminal nodes reference by RuleID.
//
// A Grammar is immutable after compilation and safe to share across
// goroutines. Per-evaluation mutable state (the capture table) lives with
// the caller, not here.
type Grammar struct {
	root     *Node
	rules    []rule
	captures int
}

// Root returns the entry node of the grammar.
func (g *Grammar) Root() *Node { return g.root }

// NumRules returns the number of rules in the arena.
func (g *Grammar) NumRules() int { return len(g.rules) }

// Captures returns the number of capture slots the pattern declares.
func (g *Grammar) Captures() int { return g.captures }

// RuleName returns the name of the rule with the given handle.
func (g *Grammar) RuleName(id RuleID) string {
	if int(id) < 0 || int(id) >= len(g.rules) {
		return ""
	}
	return g.rules[id].name
}

// RuleBody returns the body node of the rule with the given handle, or
// nil for an invalid handle.
func (g *Grammar) RuleBody(id RuleID) *Node {
	if int(id) < 0 || int(id) >= len(g.rules) {
		return nil
	}
	return g.rules[id].body
}

// Builder assembles a Grammar from programmatically constructed nodes and
// named rules. The textual parser uses the same Builder underneath, so
// both paths share normalization, capture numbering and validation.
type Builder struct {
	rules  []rule
	names  map[string]RuleID
	config Config
}

// NewBuilder returns an empty Builder with the default configuration.
func NewBuilder() *Builder {
	return &Builder{
		names:  make(map[string]RuleID),
		config: DefaultConfig(),
	}
}

// SetConfig replaces the builder's configuration.
func (b *Builder) SetConfig(c Config) { b.config = c }

// Declare registers a rule name and returns its handle. Declaring the
// same name twice returns the same handle, so forward and recursive
// references resolve before the body exists.
func (b *Builder) Declare(name string) RuleID {
	if id, ok := b.names[name]; ok {
		return id
	}
	id := RuleID(conv.IntToInt32(len(b.rules)))
	b.rules = append(b.rules, rule{name: name})
	b.names[name] = id
	return id
}

// Lookup returns the handle for a declared name.
func (b *Builder) Lookup(name string) (RuleID, bool) {
	id, ok := b.names[name]
	return id, ok
}

// Define binds a body to a previously declared rule. Redefinition is an
// error.
func (b *Builder) Define(id RuleID, body *Node) error {
	if int(id) < 0 || int(id) >= len(b.rules) {
		return &BuildError{Msg: fmt.Sprintf("invalid rule handle %d", id), Err: ErrUndefinedRule}
	}
	r := &b.rules[id]
	if r.declared {
		return &BuildError{Msg: fmt.Sprintf("rule %q redefined", r.name), Err: ErrSyntax}
	}
	r.body = body
	r.declared = true
	return nil
}

// Ref returns a reference node to a declared rule.
func (b *Builder) Ref(id RuleID) *Node {
	return &Node{op: OpNonTerminal, rule: id}
}

// setPos records the declaration position of a rule, used by the textual
// parser for error messages and render output.
func (b *Builder) setPos(id RuleID, line, col int) {
	b.rules[id].line = line
	b.rules[id].col = col
}

// Build finalizes the grammar rooted at root: inlines trivial rules,
// checks that every referenced rule is defined, assigns capture slot
// indices in left-to-right depth-first declaration order, and validates
// back-references against lexically earlier slots.
//
// The Builder must not be reused after Build.
func (b *Builder) Build(root *Node) (*Grammar, error) {
	if root == nil {
		return nil, &BuildError{Msg: "nil root node", Err: ErrSyntax}
	}

	if err := b.checkLeftRecursion(); err != nil {
		return nil, err
	}

	if b.config.InlineLimit > 0 {
		root = b.inline(root)
	}

	g := &Grammar{root: root, rules: b.rules}

	fin := finalizer{g: g, visited: make(map[*Node]bool)}
	if err := fin.walk(root); err != nil {
		return nil, err
	}
	// Rule bodies not reachable through the root (bare-expression
	// grammars referencing rules) are numbered after it, in declaration
	// order.
	for i := range g.rules {
		r := &g.rules[i]
		if r.body != nil {
			if err := fin.walk(r.body); err != nil {
				return nil, err
			}
		}
	}

	for i := range g.rules {
		r := &g.rules[i]
		if r.used && !r.declared {
			// For undefined rules the recorded position is the first
			// reference site.
			return nil, &BuildError{
				Msg:  fmt.Sprintf("rule %q is referenced but never defined", r.name),
				Err:  ErrUndefinedRule,
				Line: r.line, Col: r.col,
			}
		}
	}

	g.captures = fin.captures
	return g, nil
}

// finalizer assigns capture indices and validates back-references in a
// single depth-first pass. visited guards against walking a rule body
// twice (it can be reachable both from the root and from the arena).
type finalizer struct {
	g        *Grammar
	captures int
	visited  map[*Node]bool
}

func (f *finalizer) walk(n *Node) error {
	if f.visited[n] {
		return nil
	}
	f.visited[n] = true

	switch n.op {
	case OpCapture, OpCapturedSearch:
		if f.captures >= MaxCaptures {
			return &BuildError{
				Msg:  fmt.Sprintf("more than %d capture slots", MaxCaptures),
				Err:  ErrTooManyCaptures,
				Line: n.line, Col: n.col,
			}
		}
		n.index = f.captures
		f.captures++

	case OpBackRef, OpBackRefFold, OpBackRefStyle:
		if n.index < 0 || n.index >= f.captures {
			return &BuildError{
				Msg:  fmt.Sprintf("$%d does not refer to an earlier capture", n.index+1),
				Err:  ErrBadBackRef,
				Line: n.line, Col: n.col,
			}
		}

	case OpNonTerminal:
		if int(n.rule) < 0 || int(n.rule) >= len(f.g.rules) {
			return &BuildError{
				Msg:  fmt.Sprintf("invalid rule handle %d", n.rule),
				Err:  ErrUndefinedRule,
				Line: n.line, Col: n.col,
			}
		}
		f.g.rules[n.rule].used = true
		// The body is walked from the arena, not through references,
		// so each capture gets exactly one slot.
		return nil
	}

	for _, k := range n.kids {
		if err := f.walk(k); err != nil {
			return err
		}
	}
	return nil
}

// inline replaces references to small non-recursive rule bodies with a
// copy of the body. Bodies containing captures, back-references or
// self-references are left alone so matching semantics cannot change.
func (b *Builder) inline(root *Node) *Node {
	inlinable := make([]bool, len(b.rules))
	for i := range b.rules {
		r := &b.rules[i]
		inlinable[i] = r.declared &&
			r.body.count() <= b.config.InlineLimit &&
			!refersTo(r.body, RuleID(i)) &&
			!hasCaptureState(r.body)
	}

	var rewrite func(n *Node) *Node
	rewrite = func(n *Node) *Node {
		if n.op == OpNonTerminal && inlinable[n.rule] {
			return b.rules[n.rule].body.Clone()
		}
		for i, k := range n.kids {
			n.kids[i] = rewrite(k)
		}
		return n
	}

	for i := range b.rules {
		if b.rules[i].body != nil {
			b.rules[i].body = rewrite(b.rules[i].body)
		}
	}
	return rewrite(root)
}

// refersTo reports whether the subtree references the given rule.
func refersTo(n *Node, id RuleID) bool {
	if n.op == OpNonTerminal && n.rule == id {
		return true
	}
	for _, k := range n.kids {
		if refersTo(k, id) {
			return true
		}
	}
	return false
}

// hasCaptureState reports whether the subtree declares or reads capture
// slots. Such subtrees must not be duplicated.
func hasCaptureState(n *Node) bool {
	switch n.op {
	case OpCapture, OpCapturedSearch, OpBackRef, OpBackRefFold, OpBackRefStyle:
		return true
	}
	for _, k := range n.kids {
		if hasCaptureState(k) {
			return true
		}
	}
	return false
}

// New compiles a rule-less programmatic pattern. It is shorthand for
// NewBuilder().Build(root).
func New(root *Node) (*Grammar, error) {
	return NewBuilder().Build(root)
}

// MustNew is like New but panics on error. Useful for patterns known to
// be valid at program start.
func MustNew(root *Node) *Grammar {
	g, err := New(root)
	if err != nil {
		panic("grammar: New: " + err.Error())
	}
	return g
}
