package copeg

import (
	"errors"
	"testing"

	"github.com/coregx/copeg/grammar"
)

// TestCompile tests basic compilation
func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"literal", `'hello'`, false},
		{"digits", `\d+`, false},
		{"choice", `'foo' / 'bar'`, false},
		{"captures", `{[0-9]+} '-' {[0-9]+}`, false},
		{"rules", "A <- 'a' B\nB <- 'b'", false},
		{"unterminated", `'hello`, true},
		{"unbalanced", `('a'`, true},
		{"dangling backref", `$1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && p == nil {
				t.Fatal("Compile() returned nil")
			}
		})
	}
}

// TestCompileNamed tests that the source name reaches error messages
func TestCompileNamed(t *testing.T) {
	_, err := CompileNamed(`'oops`, "rules.peg")
	var pe *grammar.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error is %T, want *grammar.ParseError", err)
	}
	if pe.File != "rules.peg" {
		t.Errorf("File = %q, want %q", pe.File, "rules.peg")
	}
}

// TestMustCompile tests panic on invalid pattern
func TestMustCompile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile() did not panic on invalid pattern")
		}
	}()
	MustCompile(`('a'`)
}

func TestMatchLen(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		at      int
		want    int
	}{
		{`'ab'* 'c'`, "ababc", 0, 5},
		{`'ab'* 'c'`, "xabc", 0, -1},
		{`'ab'* 'c'`, "xabc", 1, 3},
		{`''`, "anything", 0, 0},
		{`[0-9]+`, "ab123", 2, 3},
		{`[0-9]+`, "ab123", 0, -1},
	}

	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		if got := p.MatchLen([]byte(tt.input), tt.at); got != tt.want {
			t.Errorf("MatchLen(%q, %q, %d) = %d, want %d", tt.pattern, tt.input, tt.at, got, tt.want)
		}
		if got := p.MatchLenString(tt.input, tt.at); got != tt.want {
			t.Errorf("MatchLenString(%q, %q, %d) = %d, want %d", tt.pattern, tt.input, tt.at, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{`'hello'`, "say hello world", true},
		{`'hello'`, "goodbye", false},
		{`\d+`, "age 42", true},
		{`\d+`, "no digits", false},
		{`'foo' / 'bar'`, "raise the bar", true},
		{`'foo' / 'bar'`, "baz", false},
		{`^\d+`, "42nd street", true},
		{`^\d+`, "on 42nd street", false}, // anchored: not at the start
		{`''`, "", true},
		{`'a'`, "", false},
	}

	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		if got := p.Match([]byte(tt.input)); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
		if got := p.MatchString(tt.input); got != tt.want {
			t.Errorf("MatchString(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
		if got := p.ContainsString(tt.input); got != tt.want {
			t.Errorf("ContainsString(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestHasPrefixSuffix(t *testing.T) {
	p := MustCompile(`'ab'+`)

	if !p.HasPrefixString("ababx") {
		t.Error("HasPrefix = false, want true")
	}
	if p.HasPrefixString("xabab") {
		t.Error("HasPrefix = true, want false")
	}
	if !p.HasSuffixString("xabab") {
		t.Error("HasSuffix = false, want true")
	}
	if p.HasSuffixString("ababx") {
		t.Error("HasSuffix = true, want false")
	}
	// Greedy middle match does not reach the end; the suffix scan must
	// still find the shorter match that does
	if !p.HasSuffixString("abxab") {
		t.Error("HasSuffix on abxab = false, want true")
	}
}

func TestString(t *testing.T) {
	const pat = `{[0-9]+} '-' {[0-9]+}`
	p := MustCompile(pat)
	if p.String() != pat {
		t.Errorf("String() = %q, want %q", p.String(), pat)
	}
	if p.NumCaptures() != 2 {
		t.Errorf("NumCaptures() = %d, want 2", p.NumCaptures())
	}
	if p.Grammar() == nil || p.Evaluator() == nil {
		t.Error("Grammar() or Evaluator() returned nil")
	}
}

// TestFromGrammar tests that the programmatic path behaves like the
// textual one
func TestFromGrammar(t *testing.T) {
	g := grammar.MustNew(grammar.Sequence(
		grammar.Star(grammar.Literal("ab")),
		grammar.Ch('c'),
	))
	p := FromGrammar(g)
	q := MustCompile(`'ab'* 'c'`)

	for _, input := range []string{"ababc", "c", "abab", "xc"} {
		if a, b := p.MatchLenString(input, 0), q.MatchLenString(input, 0); a != b {
			t.Errorf("input %q: FromGrammar %d, Compile %d", input, a, b)
		}
	}
	if p.String() != g.String() {
		t.Errorf("String() = %q, want grammar render %q", p.String(), g.String())
	}
}

// TestConcurrentUse tests that one compiled pattern serves many
// goroutines
func TestConcurrentUse(t *testing.T) {
	p := MustCompile(`{[a-z]+} '@' {[a-z]+}`)
	inputs := []string{"user@host", "alice@example", "no match here", "x@y"}

	done := make(chan bool, len(inputs)*4)
	for i := 0; i < 4; i++ {
		for _, in := range inputs {
			go func(in string) {
				m := p.FindMatch([]byte(in))
				done <- (m != nil) == (in != "no match here")
			}(in)
		}
	}
	for i := 0; i < len(inputs)*4; i++ {
		if !<-done {
			t.Error("concurrent match returned a wrong result")
		}
	}
}
