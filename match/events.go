package match

import (
	"github.com/coregx/copeg/grammar"
)

// Hook is an optional enter/leave callback pair for one node kind.
//
// Enter runs before the node is evaluated; Leave runs after, with the
// signed result: the consumed length on success, NoMatch on failure.
// Hooks observe evaluation only and cannot alter the result.
type Hook struct {
	Enter func(subject []byte, n *grammar.Node, pos int)
	Leave func(subject []byte, n *grammar.Node, pos, length int)
}

// Hooks maps node kinds to their callbacks. Kinds without an entry cost
// one map lookup per visit and nothing else.
type Hooks map[grammar.Op]Hook

// WithHooks returns a copy of the evaluator that drives the given
// callback table. The core evaluator is wrapped once at the top; match
// semantics are unchanged.
//
// This is the event-driven execution mode: registering hooks for
// OpNonTerminal (or OpCapture, etc.) turns a match into a structured
// parse without modifying the grammar. Example:
//
//	ev := match.NewEvaluator(g).WithHooks(match.Hooks{
//	    grammar.OpNonTerminal: {
//	        Leave: func(subject []byte, n *grammar.Node, pos, length int) {
//	            if length != match.NoMatch {
//	                // rule g.RuleName(n.Rule()) matched subject[pos:pos+length]
//	            }
//	        },
//	    },
//	})
//	ev.Run(subject, 0, nil)
func (e *Evaluator) WithHooks(h Hooks) *Evaluator {
	return &Evaluator{g: e.g, hooks: h}
}
