// Package literal extracts the literal prefixes a compiled PEG pattern
// must start with. The extracted sequence feeds the prefilter package,
// which skips subject positions that cannot begin a match.
package literal

import (
	"github.com/coregx/copeg/grammar"
)

// ExtractorConfig bounds extraction so pathological patterns cannot blow
// up memory or produce useless prefilters.
type ExtractorConfig struct {
	// MaxLiterals caps the number of extracted prefixes; alternations
	// wider than this yield no prefilter.
	MaxLiterals int

	// MaxLiteralLen truncates each prefix. A truncated prefix is still a
	// required prefix, so exactness is preserved.
	MaxLiteralLen int

	// MaxClassSize caps character-class expansion; classes with more
	// members ([a-z] and friends) are not enumerated.
	MaxClassSize int

	// MaxRuleDepth bounds descent through nonterminal references, which
	// also cuts off recursive grammars.
	MaxRuleDepth int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
		MaxRuleDepth:  4,
	}
}

// Seq is an extracted prefix set.
//
// When Exact is true, every possible match of the pattern starts with one
// of the members, so a scan for the members is a sound prefilter. When
// Complete is also true the whole pattern is a single case-sensitive
// literal and a prefilter hit needs no verification.
type Seq struct {
	lits     [][]byte
	exact    bool
	complete bool
}

// Len returns the number of prefixes.
func (s *Seq) Len() int { return len(s.lits) }

// Get returns the i-th prefix. The slice is shared and must not be
// modified.
func (s *Seq) Get(i int) []byte { return s.lits[i] }

// IsEmpty reports whether no prefixes were extracted.
func (s *Seq) IsEmpty() bool { return len(s.lits) == 0 }

// Exact reports whether the set covers every possible match start.
func (s *Seq) Exact() bool { return s.exact }

// Complete reports whether the whole pattern is one case-sensitive
// literal, making verification unnecessary.
func (s *Seq) Complete() bool { return s.complete }

// MinLen returns the length of the shortest prefix, or 0 when empty.
func (s *Seq) MinLen() int {
	if len(s.lits) == 0 {
		return 0
	}
	min := len(s.lits[0])
	for _, l := range s.lits[1:] {
		if len(l) < min {
			min = len(l)
		}
	}
	return min
}

// Extractor walks compiled grammar trees collecting required prefixes.
type Extractor struct {
	config ExtractorConfig
}

// New returns an Extractor with the given limits.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// Extract returns the prefix set for g. The result is never nil; check
// Exact before building a prefilter from it.
func (e *Extractor) Extract(g *grammar.Grammar) *Seq {
	root := entryNode(g)
	lits, exact := e.prefixes(g, root, 0)
	if !exact || len(lits) == 0 {
		return &Seq{}
	}
	complete := false
	if len(lits) == 1 && isWholeLiteral(root) {
		// A truncated prefix still filters, but no longer proves the
		// whole match.
		complete = len(lits[0]) == wholeLiteralLen(root)
	}
	return &Seq{
		lits:     dedup(lits),
		exact:    true,
		complete: complete,
	}
}

// entryNode mirrors the evaluator's notion of where matching starts.
func entryNode(g *grammar.Grammar) *grammar.Node {
	root := g.Root()
	if root.Op() == grammar.OpRuleList {
		return g.RuleBody(root.Kid(0).Rule())
	}
	return root
}

// isWholeLiteral reports whether n matches exactly one fixed byte string.
func isWholeLiteral(n *grammar.Node) bool {
	return n.Op() == grammar.OpLiteral || n.Op() == grammar.OpChar
}

// wholeLiteralLen returns the byte length of a whole-literal node.
func wholeLiteralLen(n *grammar.Node) int {
	if n.Op() == grammar.OpChar {
		return 1
	}
	return len(n.TextBytes())
}

// prefixes returns the required leading literals of n and whether the set
// is exact (covers every match start). An inexact result means "no
// prefilter", never a wrong one.
func (e *Extractor) prefixes(g *grammar.Grammar, n *grammar.Node, depth int) ([][]byte, bool) {
	switch n.Op() {
	case grammar.OpLiteral:
		return [][]byte{e.clip(n.TextBytes())}, true

	case grammar.OpChar:
		return [][]byte{{n.Char()}}, true

	case grammar.OpCharClass:
		set := n.Set()
		if set.Count() > e.config.MaxClassSize {
			return nil, false
		}
		var lits [][]byte
		for _, c := range set.Bytes() {
			lits = append(lits, []byte{c})
		}
		return lits, true

	case grammar.OpSequence:
		// The first consuming child supplies the first bytes;
		// zero-width nodes in front of it are skipped.
		for _, k := range n.Kids() {
			if isZeroWidth(k) {
				continue
			}
			if canMatchEmpty(k) {
				// A later child may supply the first bytes
				// instead; give up rather than guess.
				return nil, false
			}
			return e.prefixes(g, k, depth)
		}
		return nil, false

	case grammar.OpChoice:
		var all [][]byte
		for _, k := range n.Kids() {
			lits, exact := e.prefixes(g, k, depth)
			if !exact {
				return nil, false
			}
			all = append(all, lits...)
			if len(all) > e.config.MaxLiterals {
				return nil, false
			}
		}
		return all, true

	case grammar.OpCapture:
		return e.prefixes(g, n.Kid(0), depth)

	case grammar.OpNonTerminal:
		if depth >= e.config.MaxRuleDepth {
			return nil, false
		}
		return e.prefixes(g, g.RuleBody(n.Rule()), depth+1)
	}

	// Fold-mode literals, repeats, predicates, searches, back-references
	// and the rest: no exact prefix set.
	return nil, false
}

// clip truncates a literal to MaxLiteralLen.
func (e *Extractor) clip(b []byte) []byte {
	if len(b) > e.config.MaxLiteralLen {
		return b[:e.config.MaxLiteralLen]
	}
	return b
}

// isZeroWidth reports whether n never consumes input.
func isZeroWidth(n *grammar.Node) bool {
	switch n.Op() {
	case grammar.OpEmpty, grammar.OpAndPred, grammar.OpNotPred, grammar.OpStartAnchor:
		return true
	}
	return false
}

// canMatchEmpty reports whether n can succeed consuming nothing. A
// conservative true is always safe here.
func canMatchEmpty(n *grammar.Node) bool {
	switch n.Op() {
	case grammar.OpEmpty, grammar.OpOption, grammar.OpRepeat, grammar.OpRepeatChar,
		grammar.OpRepeatClass, grammar.OpAndPred, grammar.OpNotPred, grammar.OpStartAnchor,
		grammar.OpBackRef, grammar.OpBackRefFold, grammar.OpBackRefStyle:
		return true
	case grammar.OpLiteral, grammar.OpLiteralFold, grammar.OpLiteralStyle:
		return len(n.TextBytes()) == 0
	case grammar.OpSequence:
		for _, k := range n.Kids() {
			if !canMatchEmpty(k) {
				return false
			}
		}
		return true
	case grammar.OpChoice:
		for _, k := range n.Kids() {
			if canMatchEmpty(k) {
				return true
			}
		}
		return false
	case grammar.OpCapture, grammar.OpSearch, grammar.OpCapturedSearch:
		return canMatchEmpty(n.Kid(0))
	case grammar.OpNonTerminal, grammar.OpRule, grammar.OpRuleList:
		// Descending through rules risks recursion; assume the worst.
		return true
	}
	return false
}

// dedup removes duplicate literals, preserving first-seen order.
func dedup(lits [][]byte) [][]byte {
	seen := make(map[string]bool, len(lits))
	out := lits[:0]
	for _, l := range lits {
		if !seen[string(l)] {
			seen[string(l)] = true
			out = append(out, l)
		}
	}
	return out
}
