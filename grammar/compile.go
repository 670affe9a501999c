package grammar

import (
	"errors"
	"fmt"
)

// Parse compiles DSL pattern text into a Grammar.
//
// name is used in error messages ("name(line, col) Error: ..."); pass ""
// for an anonymous pattern.
//
// The text is either a single pattern expression or a list of
// "Name <- body" rules, in which case the first rule is the entry point.
// Forward and recursive rule references are resolved in a second pass, so
// declaration order does not matter beyond choosing the entry rule.
func Parse(src, name string) (*Grammar, error) {
	return ParseWithConfig(src, name, DefaultConfig())
}

// ParseWithConfig is Parse with explicit compilation tuning.
func ParseWithConfig(src, name string, config Config) (*Grammar, error) {
	p := &parser{
		src:  src,
		name: name,
		line: 1,
		col:  1,
		b:    NewBuilder(),
	}
	p.b.SetConfig(config)

	root, err := p.parseGrammar()
	if err != nil {
		return nil, err
	}
	g, err := p.b.Build(root)
	if err != nil {
		// Surface builder diagnostics with the source location attached:
		// the offending construct's position when the builder recorded
		// one, the end of the pattern otherwise.
		line, col, msg := p.line, p.col, err.Error()
		var be *BuildError
		if errors.As(err, &be) {
			msg = be.Msg
			if be.Line > 0 {
				line, col = be.Line, be.Col
			}
		}
		return nil, &ParseError{File: name, Line: line, Col: col, Msg: msg, Err: err}
	}
	return g, nil
}

// parser is a hand-written recursive-descent parser over the DSL.
//
// Precedence, loosest to tightest: '/' choice, sequence, the '*' '+' '?'
// suffixes, the '&' '!' '@' prefixes, atoms.
type parser struct {
	src  string
	name string
	pos  int
	line int
	col  int
	b    *Builder
}

// errf builds a ParseError at the current position.
func (p *parser) errf(format string, args ...any) *ParseError {
	return &ParseError{
		File: p.name,
		Line: p.line,
		Col:  p.col,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

// peek returns the current byte, or 0 at end of input.
func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

// peekAt returns the byte i positions ahead, or 0 past end of input.
func (p *parser) peekAt(i int) byte {
	if p.pos+i >= len(p.src) {
		return 0
	}
	return p.src[p.pos+i]
}

// next consumes and returns the current byte, tracking line and column.
func (p *parser) next() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

// skipSpace consumes whitespace and '#' comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.next()
		case '#':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '_'
}

// peekIdent returns the identifier at the current position without
// consuming it, or "".
func (p *parser) peekIdent() string {
	if !isIdentStart(p.peek()) {
		return ""
	}
	end := p.pos + 1
	for end < len(p.src) && isIdentByte(p.src[end]) {
		end++
	}
	return p.src[p.pos:end]
}

// atRuleStart reports whether the current position begins "Ident <-".
func (p *parser) atRuleStart() bool {
	id := p.peekIdent()
	if id == "" {
		return false
	}
	i := p.pos + len(id)
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	return i+1 < len(p.src) && p.src[i] == '<' && p.src[i+1] == '-'
}

// consumeIdent consumes the identifier returned by peekIdent.
func (p *parser) consumeIdent() string {
	id := p.peekIdent()
	for range id {
		p.next()
	}
	return id
}

// parseGrammar parses either a rule list or one bare pattern.
func (p *parser) parseGrammar() (*Node, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errf("empty pattern")
	}

	if !p.atRuleStart() {
		n, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.eof() {
			return nil, p.errf("unexpected %q after pattern", p.peek())
		}
		return n, nil
	}

	var markers []*Node
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.atRuleStart() {
			return nil, p.errf("rule definition expected")
		}
		m, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return &Node{op: OpRuleList, kids: markers}, nil
}

// parseRule parses "Name <- body" and returns the rule marker node.
func (p *parser) parseRule() (*Node, error) {
	line, col := p.line, p.col
	name := p.consumeIdent()
	p.skipSpace()
	// atRuleStart guaranteed "<-"
	p.next()
	p.next()

	id := p.b.Declare(name)
	if p.b.rules[id].declared {
		return nil, &ParseError{File: p.name, Line: line, Col: col,
			Msg: fmt.Sprintf("rule %q redefined", name)}
	}
	p.b.setPos(id, line, col)

	p.skipSpace()
	body, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if err := p.b.Define(id, body); err != nil {
		return nil, &ParseError{File: p.name, Line: line, Col: col, Msg: err.Error(), Err: err}
	}
	return &Node{op: OpRule, rule: id}, nil
}

// parsePattern parses an ordered choice: seq ('/' seq)*.
func (p *parser) parsePattern() (*Node, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	alts := []*Node{first}
	for {
		p.skipSpace()
		if p.peek() != '/' {
			break
		}
		p.next()
		p.skipSpace()
		alt, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return Choice(alts...), nil
}

// parseSequence parses one or more prefix expressions. It stops before a
// following "Ident <-" so consecutive rules need no separator.
func (p *parser) parseSequence() (*Node, error) {
	var parts []*Node
	for {
		p.skipSpace()
		if !p.atAtomStart() || p.atRuleStart() {
			break
		}
		part, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, p.errf("pattern expected")
	}
	return Sequence(parts...), nil
}

// atAtomStart reports whether the current byte can begin a prefix
// expression.
func (p *parser) atAtomStart() bool {
	switch c := p.peek(); c {
	case '&', '!', '@', '{', '(', '\'', '"', '[', '.', '_', '^', '$', '\\':
		return true
	case 'i', 'y':
		return true // literal/backref modifier or identifier
	default:
		return isIdentStart(c)
	}
}

// parsePrefix parses the zero-width predicates, search, and captured
// search, all of which bind looser than the repetition suffixes.
func (p *parser) parsePrefix() (*Node, error) {
	switch p.peek() {
	case '&':
		p.next()
		p.skipSpace()
		n, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return And(n), nil
	case '!':
		p.next()
		p.skipSpace()
		n, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return Not(n), nil
	case '@':
		p.next()
		p.skipSpace()
		n, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return Search(n), nil
	case '{':
		if p.peekAt(1) == '@' && p.peekAt(2) == '}' {
			line, col := p.line, p.col
			p.next()
			p.next()
			p.next()
			p.skipSpace()
			n, err := p.parsePrefix()
			if err != nil {
				return nil, err
			}
			cs := CapturedSearch(n)
			cs.line, cs.col = line, col
			return cs, nil
		}
	}
	return p.parsePostfix()
}

// parsePostfix parses an atom followed by '*', '+' or '?' suffixes.
func (p *parser) parsePostfix() (*Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.next()
			n = Star(n)
		case '+':
			p.next()
			n = Plus(n)
		case '?':
			p.next()
			n = Optional(n)
		default:
			return n, nil
		}
	}
}

// parseAtom parses a primary expression.
func (p *parser) parseAtom() (*Node, error) {
	switch c := p.peek(); c {
	case '(':
		p.next()
		p.skipSpace()
		n, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errf("')' expected")
		}
		p.next()
		return n, nil

	case '{':
		line, col := p.line, p.col
		p.next()
		p.skipSpace()
		n, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != '}' {
			return nil, p.errf("'}' expected")
		}
		p.next()
		cn := Capture(n)
		cn.line, cn.col = line, col
		return cn, nil

	case '\'', '"':
		text, err := p.parseQuoted(c)
		if err != nil {
			return nil, err
		}
		return Literal(string(text)), nil

	case '[':
		set, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return Class(set), nil

	case '.':
		p.next()
		return Any(), nil

	case '_':
		p.next()
		return AnyRune(), nil

	case '^':
		p.next()
		return StartAnchor(), nil

	case '$':
		return p.parseBackRef(OpBackRef)

	case '\\':
		return p.parseEscapeAtom()

	case 'i', 'y':
		// i'...' / y'...' literal modes, i$N / y$N back-reference
		// modes; otherwise an ordinary identifier.
		switch p.peekAt(1) {
		case '\'', '"':
			p.next()
			text, err := p.parseQuoted(p.peek())
			if err != nil {
				return nil, err
			}
			if c == 'i' {
				return LiteralFold(string(text)), nil
			}
			return LiteralStyle(string(text)), nil
		case '$':
			p.next()
			if c == 'i' {
				return p.parseBackRef(OpBackRefFold)
			}
			return p.parseBackRef(OpBackRefStyle)
		}
		return p.parseRef()

	default:
		if isIdentStart(c) {
			return p.parseRef()
		}
		if p.eof() {
			return nil, p.errf("unexpected end of pattern")
		}
		return nil, p.errf("unexpected %q", c)
	}
}

// parseRef parses a nonterminal reference, pre-registering the name so
// forward and recursive references resolve.
func (p *parser) parseRef() (*Node, error) {
	line, col := p.line, p.col
	name := p.consumeIdent()
	id := p.b.Declare(name)
	if p.b.rules[id].line == 0 {
		// First sighting of the name; a definition overwrites this with
		// the declaration position.
		p.b.setPos(id, line, col)
	}
	n := p.b.Ref(id)
	n.line, n.col = line, col
	return n, nil
}

// parseBackRef parses "$N" with N in 1..MaxCaptures. op selects the fold
// mode.
func (p *parser) parseBackRef(op Op) (*Node, error) {
	line, col := p.line, p.col
	p.next() // '$'
	if p.peek() < '0' || p.peek() > '9' {
		return nil, p.errf("capture index expected after '$'")
	}
	num := 0
	for p.peek() >= '0' && p.peek() <= '9' {
		num = num*10 + int(p.next()-'0')
	}
	if num < 1 || num > MaxCaptures {
		return nil, p.errf("back-reference $%d out of range 1..%d", num, MaxCaptures)
	}
	return &Node{op: op, index: num - 1, line: line, col: col}, nil
}

// parseQuoted scans a quoted literal, decoding escapes.
func (p *parser) parseQuoted(quote byte) ([]byte, error) {
	p.next() // opening quote
	var text []byte
	for {
		if p.eof() || p.peek() == '\n' {
			return nil, p.errf("unterminated literal")
		}
		c := p.next()
		if c == quote {
			return text, nil
		}
		if c != '\\' {
			text = append(text, c)
			continue
		}
		b, err := p.decodeEscape()
		if err != nil {
			return nil, err
		}
		text = append(text, b)
	}
}

// decodeEscape decodes one byte escape after a consumed backslash.
func (p *parser) decodeEscape() (byte, error) {
	if p.eof() {
		return 0, p.errf("unterminated escape")
	}
	c := p.next()
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'e':
		return 0x1b, nil
	case '0':
		return 0, nil
	case 'x':
		hi := hexVal(p.peek())
		if hi < 0 {
			return 0, p.errf("hex digit expected after \\x")
		}
		p.next()
		lo := hexVal(p.peek())
		if lo < 0 {
			return byte(hi), nil
		}
		p.next()
		return byte(hi<<4 | lo), nil
	default:
		if c >= '1' && c <= '9' {
			num := int(c - '0')
			for p.peek() >= '0' && p.peek() <= '9' {
				num = num*10 + int(p.next()-'0')
				if num > 255 {
					return 0, p.errf("decimal escape out of range")
				}
			}
			return byte(num), nil
		}
		// Unknown escapes stand for themselves: \\ \' \" \] \- etc.
		return c, nil
	}
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// parseClass scans "[...]" or "[^...]" into a CharSet.
func (p *parser) parseClass() (CharSet, error) {
	var set CharSet
	p.next() // '['
	negate := false
	if p.peek() == '^' {
		p.next()
		negate = true
	}
	if p.peek() == ']' {
		return set, p.errf("empty character class")
	}
	for {
		if p.eof() || p.peek() == '\n' {
			return set, p.errf("unterminated character class")
		}
		if p.peek() == ']' {
			p.next()
			break
		}
		lo, err := p.classByte()
		if err != nil {
			return set, err
		}
		if p.peek() == '-' && p.peekAt(1) != ']' {
			p.next()
			hi, err := p.classByte()
			if err != nil {
				return set, err
			}
			if hi < lo {
				return set, p.errf("invalid range in character class")
			}
			set.AddRange(lo, hi)
		} else {
			set.Add(lo)
		}
	}
	if negate {
		set.Negate()
	}
	return set, nil
}

// classByte scans one class member byte, decoding escapes.
func (p *parser) classByte() (byte, error) {
	if p.eof() {
		return 0, p.errf("unterminated character class")
	}
	c := p.next()
	if c != '\\' {
		return c, nil
	}
	return p.decodeEscape()
}

// parseEscapeAtom parses a backslash escape used as a standalone atom:
// the newline matcher, ASCII class shorthands, named Unicode classes and
// numeric byte escapes.
func (p *parser) parseEscapeAtom() (*Node, error) {
	p.next() // '\\'
	word := p.peekIdent()
	switch word {
	case "letter":
		p.consumeIdent()
		return Letter(), nil
	case "lower":
		p.consumeIdent()
		return Lower(), nil
	case "upper":
		p.consumeIdent()
		return Upper(), nil
	case "title":
		p.consumeIdent()
		return Title(), nil
	case "white":
		p.consumeIdent()
		return Whitespace(), nil
	case "ident":
		p.consumeIdent()
		head := SetOf("_")
		head.AddRange('a', 'z')
		head.AddRange('A', 'Z')
		return Sequence(Class(head), Star(Class(wordSet()))), nil
	}

	if p.eof() {
		return nil, p.errf("unterminated escape")
	}
	switch c := p.peek(); c {
	case 'n':
		p.next()
		return Newline(), nil
	case 'd', 'D':
		p.next()
		return classAtom(SetRange('0', '9'), c == 'D'), nil
	case 's', 'S':
		p.next()
		return classAtom(SetOf(" \t\n\r\v\f"), c == 'S'), nil
	case 'w', 'W':
		p.next()
		return classAtom(wordSet(), c == 'W'), nil
	case 'a', 'A':
		p.next()
		return classAtom(alphaSet(), c == 'A'), nil
	default:
		b, err := p.decodeEscape()
		if err != nil {
			return nil, err
		}
		return Ch(b), nil
	}
}

func classAtom(set CharSet, negate bool) *Node {
	if negate {
		set.Negate()
	}
	return Class(set)
}

func wordSet() CharSet {
	s := SetOf("_")
	s.AddRange('a', 'z')
	s.AddRange('A', 'Z')
	s.AddRange('0', '9')
	return s
}

func alphaSet() CharSet {
	var s CharSet
	s.AddRange('a', 'z')
	s.AddRange('A', 'Z')
	return s
}
