package match

import (
	"reflect"
	"testing"

	"github.com/coregx/copeg/grammar"
)

// TestHooksOrderedChoice tests that hooks observe each attempted
// alternative with its outcome
func TestHooksOrderedChoice(t *testing.T) {
	g := mustGrammar(t, `'a' / 'b'`)
	sub := []byte("b")

	type event struct {
		kind   string
		ch     byte
		length int
	}
	var events []event

	ev := NewEvaluator(g).WithHooks(Hooks{
		grammar.OpChar: {
			Enter: func(_ []byte, n *grammar.Node, _ int) {
				events = append(events, event{"enter", n.Char(), 0})
			},
			Leave: func(_ []byte, n *grammar.Node, _, length int) {
				events = append(events, event{"leave", n.Char(), length})
			},
		},
	})

	if got := ev.Run(sub, 0, nil); got != 1 {
		t.Fatalf("Run = %d, want 1", got)
	}

	want := []event{
		{"enter", 'a', 0},
		{"leave", 'a', NoMatch}, // first alternative fails
		{"enter", 'b', 0},
		{"leave", 'b', 1},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

// TestHooksRuleTrace tests driving a structured parse off rule
// enter/leave events
func TestHooksRuleTrace(t *testing.T) {
	g, err := grammar.ParseWithConfig(
		"Pair <- Key '=' Value\nKey <- [a-z]+\nValue <- [0-9]+",
		"", grammar.Config{InlineLimit: 0})
	if err != nil {
		t.Fatal(err)
	}
	sub := []byte("port=8080")

	var seen []string
	ev := NewEvaluator(g).WithHooks(Hooks{
		grammar.OpNonTerminal: {
			Leave: func(subject []byte, n *grammar.Node, pos, length int) {
				if length != NoMatch {
					seen = append(seen, g.RuleName(n.Rule())+"="+string(subject[pos:pos+length]))
				}
			},
		},
	})

	if got := ev.Run(sub, 0, nil); got != len(sub) {
		t.Fatalf("Run = %d, want %d", got, len(sub))
	}
	want := []string{"Key=port", "Value=8080"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("rule trace = %v, want %v", seen, want)
	}
}

// TestHooksDoNotAffectResult tests that hook registration leaves match
// semantics untouched
func TestHooksDoNotAffectResult(t *testing.T) {
	g := mustGrammar(t, `{[a-z]+} ' ' $1`)
	plain := NewEvaluator(g)
	hooked := plain.WithHooks(Hooks{
		grammar.OpCapture: {Leave: func([]byte, *grammar.Node, int, int) {}},
	})

	for _, sub := range []string{"foo foo", "foo bar", ""} {
		a := plain.Run([]byte(sub), 0, nil)
		b := hooked.Run([]byte(sub), 0, nil)
		if a != b {
			t.Errorf("subject %q: plain %d, hooked %d", sub, a, b)
		}
	}
}

// TestNilHooks tests the nil-table fast path
func TestNilHooks(t *testing.T) {
	g := mustGrammar(t, `'x'`)
	ev := NewEvaluator(g).WithHooks(nil)
	if got := ev.Run([]byte("x"), 0, nil); got != 1 {
		t.Errorf("Run = %d, want 1", got)
	}
}
