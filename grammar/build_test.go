package grammar

import (
	"errors"
	"testing"
)

// TestConstructorNormalization tests the tree rewrites the constructors
// share with the parser
func TestConstructorNormalization(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want Op
	}{
		{"empty literal", Literal(""), OpEmpty},
		{"one-byte literal", Literal("x"), OpChar},
		{"long literal", Literal("xy"), OpLiteral},
		{"star of char", Star(Ch('a')), OpRepeatChar},
		{"star of class", Star(Class(SetRange('0', '9'))), OpRepeatClass},
		{"star of star", Star(Star(Literal("ab"))), OpRepeat},
		{"star of option", Star(Optional(Ch('a'))), OpRepeatChar},
		{"option of option", Optional(Optional(Ch('a'))), OpOption},
		{"empty sequence", Sequence(), OpEmpty},
		{"single sequence", Sequence(Ch('a')), OpChar},
		{"single choice", Choice(Ch('a')), OpChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Op(); got != tt.want {
				t.Errorf("op = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSequenceFlattening(t *testing.T) {
	n := Sequence(Sequence(Ch('a'), Ch('b')), Ch('c'))
	if n.Op() != OpSequence || n.Len() != 3 {
		t.Fatalf("got %v with %d kids, want flat Sequence of 3", n.Op(), n.Len())
	}

	c := Choice(Choice(Ch('a'), Ch('b')), Ch('c'))
	if c.Op() != OpChoice || c.Len() != 3 {
		t.Fatalf("got %v with %d kids, want flat Choice of 3", c.Op(), c.Len())
	}
}

// TestAccessorTagChecks tests that payload accessors return zero values
// for foreign kinds instead of stale payloads
func TestAccessorTagChecks(t *testing.T) {
	lit := Literal("ab")
	if lit.Char() != 0 {
		t.Error("Char() on a literal should be 0")
	}
	set := lit.Set()
	if !set.IsEmpty() {
		t.Error("Set() on a literal should be empty")
	}
	if lit.Rule() != InvalidRule {
		t.Error("Rule() on a literal should be InvalidRule")
	}
	if lit.Index() != -1 {
		t.Error("Index() on a literal should be -1")
	}
	if Ch('x').Text() != "" {
		t.Error("Text() on a char should be empty")
	}
	if lit.Text() != "ab" {
		t.Errorf("Text() = %q, want %q", lit.Text(), "ab")
	}
}

func TestClone(t *testing.T) {
	orig := Sequence(Capture(Literal("ab")), Ch('c'))
	cp := orig.Clone()
	if cp == orig || cp.Kid(0) == orig.Kid(0) {
		t.Fatal("Clone shares nodes with the original")
	}
	if cp.Op() != orig.Op() || cp.Len() != orig.Len() {
		t.Fatal("Clone structure differs")
	}
	if cp.Kid(0).Kid(0).Text() != "ab" {
		t.Fatal("Clone payload differs")
	}
}

// TestBuilderRules tests declare/define bookkeeping
func TestBuilderRules(t *testing.T) {
	b := NewBuilder()
	a := b.Declare("A")
	if again := b.Declare("A"); again != a {
		t.Fatalf("Declare twice returned %d then %d", a, again)
	}
	if id, ok := b.Lookup("A"); !ok || id != a {
		t.Fatal("Lookup after Declare failed")
	}
	if _, ok := b.Lookup("missing"); ok {
		t.Fatal("Lookup of unknown name succeeded")
	}

	if err := b.Define(a, Ch('a')); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := b.Define(a, Ch('b')); !errors.Is(err, ErrSyntax) {
		t.Fatalf("redefinition error = %v, want ErrSyntax", err)
	}
	if err := b.Define(RuleID(42), Ch('x')); !errors.Is(err, ErrUndefinedRule) {
		t.Fatalf("bad handle error = %v, want ErrUndefinedRule", err)
	}
}

// TestBuildValidation tests the programmatic path rejects what the
// textual path rejects
func TestBuildValidation(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) succeeded")
	}

	if _, err := New(BackRef(1)); !errors.Is(err, ErrBadBackRef) {
		t.Errorf("dangling BackRef error = %v, want ErrBadBackRef", err)
	}

	b := NewBuilder()
	id := b.Declare("Ghost")
	if _, err := b.Build(b.Ref(id)); !errors.Is(err, ErrUndefinedRule) {
		t.Errorf("undefined rule error = %v, want ErrUndefinedRule", err)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew did not panic on an invalid tree")
		}
	}()
	MustNew(BackRef(3))
}

// TestBuildRecursiveGrammar tests arena handles across mutually
// recursive rules
func TestBuildRecursiveGrammar(t *testing.T) {
	b := NewBuilder()
	b.SetConfig(Config{InlineLimit: 0})
	expr := b.Declare("Expr")
	term := b.Declare("Term")
	if err := b.Define(expr, Sequence(b.Ref(term), Star(Sequence(Ch('+'), b.Ref(term))))); err != nil {
		t.Fatal(err)
	}
	if err := b.Define(term, Class(SetRange('0', '9'))); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build(b.Ref(expr))
	if err != nil {
		t.Fatal(err)
	}
	if g.NumRules() != 2 {
		t.Fatalf("NumRules() = %d, want 2", g.NumRules())
	}
	if g.RuleBody(expr) == nil || g.RuleBody(term) == nil {
		t.Fatal("rule bodies missing from arena")
	}
}
