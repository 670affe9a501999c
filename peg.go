// Package copeg is a pattern-matching engine for Parsing Expression
// Grammars (PEGs).
//
// A pattern is compiled once, from the textual DSL or from the
// programmatic constructors in the grammar sub-package, into an
// immutable matcher, then evaluated against subjects to produce match
// spans, captures and search/replace results. Ordered choice makes
// matching deterministic: in "a / b", if a matches, b is never tried.
//
// Basic usage:
//
//	p, err := copeg.Compile(`{[0-9]+} '-' {[0-9]+}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := p.FindSubmatch([]byte("date: 2024-05"))
//	// m[0] = "2024-05", m[1] = "2024", m[2] = "05"
//
// Grammars with named rules use "Name <- body" definitions; the first
// rule is the entry point and rules may reference each other recursively:
//
//	p := copeg.MustCompile(`
//	    expr   <- term ('+' term)*
//	    term   <- factor ('*' factor)*
//	    factor <- [0-9]+ / '(' expr ')'
//	`)
//	p.MatchString("1+2*(3+4)") // true
//
// Unanchored operations (Find, Match, Replace…) are accelerated by a
// literal prefilter extracted from the pattern; patterns starting with
// several alternative literals use an Aho-Corasick automaton to locate
// candidates.
//
// A compiled Peg is immutable and safe for concurrent use; every search
// call owns its capture table.
package copeg

import (
	"github.com/coregx/copeg/grammar"
	"github.com/coregx/copeg/literal"
	"github.com/coregx/copeg/match"
	"github.com/coregx/copeg/prefilter"
)

// Peg is a compiled pattern.
//
// Example:
//
//	p := copeg.MustCompile(`'ab'* 'c'`)
//	p.MatchLen([]byte("ababc"), 0) // 5
type Peg struct {
	g       *grammar.Grammar
	ev      *match.Evaluator
	seq     *literal.Seq
	pf      prefilter.Prefilter
	pattern string
}

// prefixSeq returns the literal prefixes extracted at compile time,
// shared with Replacer's combined automaton.
func (p *Peg) prefixSeq() *literal.Seq { return p.seq }

// Compile compiles DSL pattern text.
//
// Parse errors are *grammar.ParseError values carrying the offending
// line and column.
//
// Example:
//
//	p, err := copeg.Compile(`{[a-z]+} ' ' $1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Peg, error) {
	g, err := grammar.Parse(pattern, "")
	if err != nil {
		return nil, err
	}
	return fromGrammar(g, pattern), nil
}

// CompileNamed is Compile with a source name used in error messages,
// e.g. the file the pattern was loaded from.
func CompileNamed(pattern, name string) (*Peg, error) {
	g, err := grammar.Parse(pattern, name)
	if err != nil {
		return nil, err
	}
	return fromGrammar(g, pattern), nil
}

// MustCompile is Compile that panics on error, for patterns known to be
// valid at program start.
//
// Example:
//
//	var word = copeg.MustCompile(`\w+`)
func MustCompile(pattern string) *Peg {
	p, err := Compile(pattern)
	if err != nil {
		panic("copeg: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// FromGrammar wraps a programmatically built grammar. The textual and
// programmatic paths produce equivalent matchers for equivalent patterns.
//
// Example:
//
//	g := grammar.MustNew(grammar.Sequence(
//	    grammar.Capture(grammar.Plus(grammar.Class(grammar.SetRange('0', '9')))),
//	    grammar.Ch('-'),
//	))
//	p := copeg.FromGrammar(g)
func FromGrammar(g *grammar.Grammar) *Peg {
	return fromGrammar(g, g.String())
}

func fromGrammar(g *grammar.Grammar, pattern string) *Peg {
	seq := literal.New(literal.DefaultConfig()).Extract(g)
	return &Peg{
		g:       g,
		ev:      match.NewEvaluator(g),
		seq:     seq,
		pf:      prefilter.FromSeq(seq),
		pattern: pattern,
	}
}

// String returns the source text the pattern was compiled from.
func (p *Peg) String() string { return p.pattern }

// Grammar returns the compiled grammar, e.g. for rendering with
// Grammar().String() or Grammar().Dump().
func (p *Peg) Grammar() *grammar.Grammar { return p.g }

// NumCaptures returns the number of capture slots the pattern declares.
func (p *Peg) NumCaptures() int { return p.g.Captures() }

// Evaluator returns the underlying evaluator, the entry point for
// event-driven execution: attach per-kind callbacks with
// match.Evaluator.WithHooks and run it directly.
func (p *Peg) Evaluator() *match.Evaluator { return p.ev }

// MatchLen attempts a match at exactly position at and returns the
// consumed length, or -1. Zero is a valid match length.
//
// Example:
//
//	p := copeg.MustCompile(`'ab'* 'c'`)
//	p.MatchLen([]byte("ababc"), 0) // 5
//	p.MatchLen([]byte("xabc"), 0)  // -1
func (p *Peg) MatchLen(b []byte, at int) int {
	return p.ev.Run(b, at, nil)
}

// MatchLenString is MatchLen for a string subject.
func (p *Peg) MatchLenString(s string, at int) int {
	return p.MatchLen([]byte(s), at)
}

// HasPrefix reports whether the pattern matches at the start of b.
func (p *Peg) HasPrefix(b []byte) bool {
	return p.ev.Run(b, 0, nil) != match.NoMatch
}

// HasPrefixString is HasPrefix for a string subject.
func (p *Peg) HasPrefixString(s string) bool {
	return p.HasPrefix([]byte(s))
}

// HasSuffix reports whether some match of the pattern ends exactly at
// the end of b.
func (p *Peg) HasSuffix(b []byte) bool {
	for pos := len(b); pos >= 0; pos-- {
		if length := p.ev.Run(b, pos, nil); length != match.NoMatch && pos+length == len(b) {
			return true
		}
	}
	return false
}

// HasSuffixString is HasSuffix for a string subject.
func (p *Peg) HasSuffixString(s string) bool {
	return p.HasSuffix([]byte(s))
}

// Match reports whether b contains any match of the pattern.
//
// Example:
//
//	p := copeg.MustCompile(`\d+`)
//	p.Match([]byte("hello 123")) // true
func (p *Peg) Match(b []byte) bool {
	start, _ := p.findAt(b, 0, nil)
	return start >= 0
}

// MatchString reports whether s contains any match of the pattern.
func (p *Peg) MatchString(s string) bool {
	return p.Match([]byte(s))
}

// Contains is an alias for Match, mirroring the strings package verb.
func (p *Peg) Contains(b []byte) bool { return p.Match(b) }

// ContainsString is Contains for a string subject.
func (p *Peg) ContainsString(s string) bool { return p.MatchString(s) }
