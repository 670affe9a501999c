package copeg

import (
	"fmt"
	"os"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/copeg/match"
)

// Replacement pairs a pattern with its $N template.
type Replacement struct {
	Pattern  *Peg
	Template string
}

// Replacer applies several replacements in a single left-to-right pass.
//
// At each position the patterns are tried in registration order; the
// first that matches is applied and the scan continues after its match.
// Positions nothing matches are copied through and the scan advances one
// byte. This is one pass over the input, not N sequential full-text
// rewrites, so earlier replacements' output is never rescanned.
//
// When every pattern has an exact literal-prefix set, the candidate
// positions are located with one combined Aho-Corasick automaton instead
// of trying every byte.
type Replacer struct {
	repls []Replacement
	auto  *ahocorasick.Automaton
}

// NewReplacer builds a Replacer for the given pairs.
//
// Example:
//
//	r := copeg.NewReplacer(
//	    copeg.Replacement{Pattern: copeg.MustCompile(`'cat'`), Template: "dog"},
//	    copeg.Replacement{Pattern: copeg.MustCompile(`'dog'`), Template: "cat"},
//	)
//	r.ReplaceString("cat dog") // "dog cat", single pass
func NewReplacer(repls ...Replacement) *Replacer {
	return &Replacer{repls: repls, auto: combinedAutomaton(repls)}
}

// combinedAutomaton builds one automaton over all patterns' prefix
// literals. Returns nil, meaning scan every byte, unless every pattern
// has an exact, non-empty prefix set.
func combinedAutomaton(repls []Replacement) *ahocorasick.Automaton {
	builder := ahocorasick.NewBuilder()
	total := 0
	for _, r := range repls {
		seq := r.Pattern.prefixSeq()
		if seq == nil || !seq.Exact() || seq.IsEmpty() {
			return nil
		}
		for i := 0; i < seq.Len(); i++ {
			builder.AddPattern(seq.Get(i))
			total++
		}
	}
	if total == 0 {
		return nil
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return auto
}

// Replace applies the replacement set to src and returns the result.
func (r *Replacer) Replace(src []byte) []byte {
	var out []byte
	pos := 0
	for pos < len(src) {
		if r.auto != nil {
			m := r.auto.Find(src, pos)
			if m == nil {
				break
			}
			out = append(out, src[pos:m.Start]...)
			pos = m.Start
		}
		applied := false
		for _, rp := range r.repls {
			caps := match.NewCaptures(rp.Pattern.g)
			length := rp.Pattern.ev.Run(src, pos, caps)
			if length == match.NoMatch {
				continue
			}
			mm := &Match{subject: src, start: pos, end: pos + length, caps: caps}
			out = expandTemplate(out, []byte(rp.Template), mm)
			if length == 0 {
				// Zero-length match: carry the byte through so the
				// scan always advances.
				out = append(out, src[pos])
				pos++
			} else {
				pos += length
			}
			applied = true
			break
		}
		if !applied {
			out = append(out, src[pos])
			pos++
		}
	}
	return append(out, src[pos:]...)
}

// ReplaceString is Replace for a string subject.
func (r *Replacer) ReplaceString(src string) string {
	return string(r.Replace([]byte(src)))
}

// ParallelReplace applies all pairs to src in one left-to-right pass.
// See Replacer for the semantics; build a Replacer once instead when the
// same set is applied repeatedly.
//
// Example:
//
//	out := copeg.ParallelReplace([]byte("a-b"),
//	    copeg.Replacement{Pattern: copeg.MustCompile(`'a'`), Template: "x"},
//	    copeg.Replacement{Pattern: copeg.MustCompile(`'b'`), Template: "y"},
//	) // "x-y"
func ParallelReplace(src []byte, repls ...Replacement) []byte {
	return NewReplacer(repls...).Replace(src)
}

// ParallelReplaceString is ParallelReplace for a string subject.
func ParallelReplaceString(src string, repls ...Replacement) string {
	return string(ParallelReplace([]byte(src), repls...))
}

// TransformFile applies the replacement set to a whole file, rewriting
// it in place when the content changed. The file is read fully before
// matching; the engine itself never does I/O.
func TransformFile(path string, repls ...Replacement) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("copeg: transform %s: %w", path, err)
	}
	out := ParallelReplace(src, repls...)
	if string(out) == string(src) {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("copeg: transform %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copeg: transform %s: %w", path, err)
	}
	return nil
}
