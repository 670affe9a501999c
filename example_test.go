package copeg_test

import (
	"fmt"

	"github.com/coregx/copeg"
	"github.com/coregx/copeg/grammar"
	"github.com/coregx/copeg/match"
)

func ExampleCompile() {
	p, err := copeg.Compile(`{[0-9]+} '-' {[0-9]+}`)
	if err != nil {
		fmt.Println("compile failed:", err)
		return
	}
	m := p.FindSubmatch([]byte("date: 2024-05"))
	fmt.Println(string(m[0]), string(m[1]), string(m[2]))
	// Output: 2024-05 2024 05
}

func ExamplePeg_MatchLen() {
	p := copeg.MustCompile(`'ab'* 'c'`)
	fmt.Println(p.MatchLenString("ababc", 0))
	fmt.Println(p.MatchLenString("abab", 0))
	// Output:
	// 5
	// -1
}

func ExamplePeg_Matches() {
	p := copeg.MustCompile(`\w+`)
	for m := range p.Matches([]byte("one two three")) {
		fmt.Println(m.String())
	}
	// Output:
	// one
	// two
	// three
}

func ExamplePeg_ReplaceAll() {
	p := copeg.MustCompile(`{[a-z]+} '@' {[a-z]+}`)
	fmt.Println(p.ReplaceAllString("user@host", "$2/$1"))
	// Output: host/user
}

func ExamplePeg_Split() {
	p := copeg.MustCompile(`','`)
	fmt.Printf("%q\n", p.Split("a,,b", -1))
	// Output: ["a" "" "b"]
}

func ExampleParallelReplace() {
	out := copeg.ParallelReplaceString("cat dog",
		copeg.Replacement{Pattern: copeg.MustCompile(`'cat'`), Template: "dog"},
		copeg.Replacement{Pattern: copeg.MustCompile(`'dog'`), Template: "cat"},
	)
	fmt.Println(out)
	// Output: dog cat
}

// Rules reference each other by name; the first rule is the entry point.
func ExampleMustCompile_rules() {
	p := copeg.MustCompile(`
		Expr <- Term ('+' Term)*
		Term <- [0-9]+
	`)
	fmt.Println(p.MatchLenString("1+22+3", 0))
	// Output: 6
}

// Hooks turn a match into a structured parse without changing the
// grammar.
func ExamplePeg_Evaluator() {
	p := copeg.MustCompile("Pair <- Key '=' Value\nKey <- [a-z]+ &'='\nValue <- [0-9]+ !.")
	ev := p.Evaluator().WithHooks(match.Hooks{
		grammar.OpNonTerminal: {
			Leave: func(subject []byte, n *grammar.Node, pos, length int) {
				if length != match.NoMatch {
					fmt.Printf("%s: %s\n", p.Grammar().RuleName(n.Rule()), subject[pos:pos+length])
				}
			},
		},
	})
	ev.Run([]byte("port=8080"), 0, nil)
	// Output:
	// Key: port
	// Value: 8080
}
