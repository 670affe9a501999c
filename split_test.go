package copeg

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		n       int
		want    []string
	}{
		{`','`, "a,b,c", -1, []string{"a", "b", "c"}},
		{`','`, "a,,b", -1, []string{"a", "", "b"}},
		{`','`, ",a,", -1, []string{"", "a", ""}},
		{`','`, "abc", -1, []string{"abc"}},
		{`','`, "", -1, []string{""}},
		{`','`, "a,b,c", 2, []string{"a", "b,c"}},
		{`','`, "a,b,c", 1, []string{"a,b,c"}},
		{`','`, "a,b,c", 0, nil},
		{`\s+ '/' \s+`, "a / b  /  c", -1, []string{"a", "b", "c"}},
		{`[,;]`, "a,b;c", -1, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		p := MustCompile(tt.pattern)
		got := p.Split(tt.input, tt.n)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q, %q, %d) = %q, want %q", tt.pattern, tt.input, tt.n, got, tt.want)
		}
	}
}

func TestSplitSeq(t *testing.T) {
	p := MustCompile(`','`)

	var got []string
	for piece := range p.SplitSeq("a,,b") {
		got = append(got, piece)
	}
	if !reflect.DeepEqual(got, []string{"a", "", "b"}) {
		t.Errorf("SplitSeq = %q", got)
	}

	// Early termination
	count := 0
	for range p.SplitSeq("a,b,c,d") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("iterated %d pieces, want 2", count)
	}
}
