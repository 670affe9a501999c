package copeg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParallelReplace(t *testing.T) {
	tests := []struct {
		name  string
		repls []Replacement
		input string
		want  string
	}{
		{
			"swap without ping-pong",
			[]Replacement{
				{Pattern: MustCompile(`'cat'`), Template: "dog"},
				{Pattern: MustCompile(`'dog'`), Template: "cat"},
			},
			"cat dog cat",
			"dog cat dog",
		},
		{
			"registration order wins",
			[]Replacement{
				{Pattern: MustCompile(`'aa'`), Template: "X"},
				{Pattern: MustCompile(`'a'`), Template: "Y"},
			},
			"aaa",
			"XY",
		},
		{
			"templates expand captures",
			[]Replacement{
				{Pattern: MustCompile(`{[0-9]+} 'kg'`), Template: "$1 kilograms"},
				{Pattern: MustCompile(`{[0-9]+} 'm'`), Template: "$1 meters"},
			},
			"5kg and 3m",
			"5 kilograms and 3 meters",
		},
		{
			"no matches",
			[]Replacement{
				{Pattern: MustCompile(`'zzz'`), Template: "!"},
			},
			"abc",
			"abc",
		},
		{
			"continues after replacement",
			[]Replacement{
				{Pattern: MustCompile(`'ab'`), Template: "ba"},
			},
			"abab",
			"baba",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParallelReplaceString(tt.input, tt.repls...)
			if got != tt.want {
				t.Errorf("ParallelReplaceString(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// Prebuilt Replacer takes the same path
			r := NewReplacer(tt.repls...)
			if got := r.ReplaceString(tt.input); got != tt.want {
				t.Errorf("Replacer.ReplaceString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestReplacerSinglePass tests that earlier replacements' output is
// never rescanned
func TestReplacerSinglePass(t *testing.T) {
	r := NewReplacer(
		Replacement{Pattern: MustCompile(`'a'`), Template: "bb"},
		Replacement{Pattern: MustCompile(`'b'`), Template: "c"},
	)
	// Sequential rewrites would turn "ab" into "bbb" then "ccc"
	if got := r.ReplaceString("ab"); got != "bbc" {
		t.Errorf("got %q, want %q", got, "bbc")
	}
}

// TestReplacerInexactPrefix tests the byte-scan fallback when a pattern
// has no exact literal prefix
func TestReplacerInexactPrefix(t *testing.T) {
	r := NewReplacer(
		Replacement{Pattern: MustCompile(`[0-9a-z]+`), Template: "<$0>"},
	)
	if got := r.ReplaceString("ab 12"); got != "<ab> <12>" {
		t.Errorf("got %q, want %q", got, "<ab> <12>")
	}
}

// TestReplacerZeroLength tests that a zero-length match carries the
// byte through and keeps advancing
func TestReplacerZeroLength(t *testing.T) {
	r := NewReplacer(
		Replacement{Pattern: MustCompile(`'x'?`), Template: "-"},
	)
	if got := r.ReplaceString("ab"); got != "-a-b" {
		t.Errorf("got %q, want %q", got, "-a-b")
	}
}

func TestTransformFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.txt")
	if err := os.WriteFile(path, []byte("host=old port=80"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := TransformFile(path,
		Replacement{Pattern: MustCompile(`'old'`), Template: "new"},
		Replacement{Pattern: MustCompile(`'80'`), Template: "8080"},
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "host=new port=8080" {
		t.Errorf("file = %q, want %q", got, "host=new port=8080")
	}
}

func TestTransformFileUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(path, []byte("nothing to do"), 0o600); err != nil {
		t.Fatal(err)
	}
	before, _ := os.Stat(path)

	err := TransformFile(path, Replacement{Pattern: MustCompile(`'zzz'`), Template: "!"})
	if err != nil {
		t.Fatal(err)
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("unchanged file was rewritten")
	}
}

func TestTransformFileMissing(t *testing.T) {
	err := TransformFile(filepath.Join(t.TempDir(), "absent"),
		Replacement{Pattern: MustCompile(`'x'`), Template: "y"})
	if err == nil {
		t.Error("TransformFile on a missing file should fail")
	}
}
