package grammar

import (
	"errors"
	"fmt"
)

// Common grammar errors
var (
	// ErrSyntax indicates malformed pattern text
	ErrSyntax = errors.New("invalid pattern syntax")

	// ErrUndefinedRule indicates a nonterminal that is referenced but
	// never defined
	ErrUndefinedRule = errors.New("undefined rule")

	// ErrTooManyCaptures indicates the pattern declares more capture
	// slots than MaxCaptures
	ErrTooManyCaptures = errors.New("too many captures")

	// ErrBadBackRef indicates a back-reference to a slot that is not
	// declared earlier in the pattern
	ErrBadBackRef = errors.New("invalid back-reference")

	// ErrLeftRecursion indicates a rule that can invoke itself before
	// consuming any input; recursive-descent evaluation would diverge
	ErrLeftRecursion = errors.New("left recursion")
)

// ParseError is a structured pattern-text error carrying the source
// location. It renders as "file(line, col) Error: message".
type ParseError struct {
	File string
	Line int
	Col  int
	Msg  string
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "pattern"
	}
	return fmt.Sprintf("%s(%d, %d) Error: %s", file, e.Line, e.Col, e.Msg)
}

// Unwrap returns the underlying sentinel error
func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSyntax
}

// BuildError reports an invalid tree handed to the programmatic Builder
// (bad back-reference index, capture overflow, undefined rule).
type BuildError struct {
	Msg string
	Err error

	// Line and Col locate the offending construct when the tree came
	// from the textual parser. Both are zero for programmatic trees.
	Line, Col int
}

// Error implements the error interface
func (e *BuildError) Error() string {
	return "grammar build error: " + e.Msg
}

// Unwrap returns the underlying sentinel error
func (e *BuildError) Unwrap() error {
	return e.Err
}
