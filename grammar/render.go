package grammar

import (
	"fmt"
	"strings"
)

// Rendering precedence levels, lowest binds loosest. Children rendered at
// a level below what their parent requires get parenthesized, which keeps
// String output re-parseable.
const (
	precChoice = iota + 1
	precSequence
	precPostfix
	precAtom
)

// String renders the grammar back to DSL text. The output may normalize
// whitespace and sugar (e.g. p+ renders as p p*) but re-compiling it
// yields a pattern with identical matching behavior.
func (g *Grammar) String() string {
	if g.root.op == OpRuleList {
		var b strings.Builder
		for i, r := range g.root.kids {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(g.rules[r.rule].name)
			b.WriteString(" <- ")
			b.WriteString(g.render(g.rules[r.rule].body, precChoice))
		}
		return b.String()
	}
	return g.render(g.root, precChoice)
}

// render emits n as DSL text, parenthesizing when n binds looser than the
// context requires.
func (g *Grammar) render(n *Node, req int) string {
	text, prec := g.renderPrec(n)
	if prec < req {
		return "(" + text + ")"
	}
	return text
}

func (g *Grammar) renderPrec(n *Node) (string, int) {
	switch n.op {
	case OpEmpty:
		return "''", precAtom
	case OpAny:
		return ".", precAtom
	case OpAnyRune:
		return "_", precAtom
	case OpNewline:
		return `\n`, precAtom
	case OpLetter:
		return `\letter`, precAtom
	case OpLower:
		return `\lower`, precAtom
	case OpUpper:
		return `\upper`, precAtom
	case OpTitle:
		return `\title`, precAtom
	case OpWhitespace:
		return `\white`, precAtom
	case OpLiteral:
		return quoteLiteral(n.text), precAtom
	case OpLiteralFold:
		return "i" + quoteLiteral(n.text), precAtom
	case OpLiteralStyle:
		return "y" + quoteLiteral(n.text), precAtom
	case OpChar:
		return quoteLiteral([]byte{n.ch}), precAtom
	case OpCharClass:
		return n.set.String(), precAtom
	case OpNonTerminal:
		return g.rules[n.rule].name, precAtom
	case OpSequence:
		parts := make([]string, len(n.kids))
		for i, k := range n.kids {
			parts[i] = g.render(k, precSequence)
		}
		return strings.Join(parts, " "), precSequence
	case OpChoice:
		parts := make([]string, len(n.kids))
		for i, k := range n.kids {
			parts[i] = g.render(k, precSequence)
		}
		return strings.Join(parts, " / "), precChoice
	case OpRepeat:
		return g.render(n.kids[0], precAtom) + "*", precPostfix
	case OpRepeatChar:
		return quoteLiteral([]byte{n.ch}) + "*", precPostfix
	case OpRepeatClass:
		return n.set.String() + "*", precPostfix
	case OpOption:
		return g.render(n.kids[0], precAtom) + "?", precPostfix
	case OpAndPred:
		return "&" + g.render(n.kids[0], precPostfix), precPostfix
	case OpNotPred:
		return "!" + g.render(n.kids[0], precPostfix), precPostfix
	case OpSearch:
		return "@" + g.render(n.kids[0], precPostfix), precPostfix
	case OpCapturedSearch:
		return "{@}" + g.render(n.kids[0], precPostfix), precPostfix
	case OpCapture:
		return "{" + g.render(n.kids[0], precChoice) + "}", precAtom
	case OpBackRef:
		return fmt.Sprintf("$%d", n.index+1), precAtom
	case OpBackRefFold:
		return fmt.Sprintf("i$%d", n.index+1), precAtom
	case OpBackRefStyle:
		return fmt.Sprintf("y$%d", n.index+1), precAtom
	case OpStartAnchor:
		return "^", precAtom
	case OpRule:
		return g.rules[n.rule].name + " <- " + g.render(g.rules[n.rule].body, precChoice), precChoice
	case OpRuleList:
		return g.String(), precChoice
	}
	return fmt.Sprintf("<%s>", n.op), precAtom
}

// quoteLiteral renders text as a single-quoted DSL literal.
func quoteLiteral(text []byte) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, c := range text {
		switch c {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\x%02X`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Dump renders the node tree with indentation, one node per line, for
// debugging. Rule bodies are expanded at their definition, not at
// reference sites.
func (g *Grammar) Dump() string {
	var b strings.Builder
	if g.root.op == OpRuleList {
		for _, r := range g.root.kids {
			fmt.Fprintf(&b, "Rule %s\n", g.rules[r.rule].name)
			g.dump(&b, g.rules[r.rule].body, 1)
		}
		return b.String()
	}
	g.dump(&b, g.root, 0)
	return b.String()
}

func (g *Grammar) dump(b *strings.Builder, n *Node, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	if n.op == OpNonTerminal {
		fmt.Fprintf(b, "NonTerminal(%s)\n", g.rules[n.rule].name)
		return
	}
	b.WriteString(n.String())
	b.WriteByte('\n')
	for _, k := range n.kids {
		g.dump(b, k, depth+1)
	}
}
