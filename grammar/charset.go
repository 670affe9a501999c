package grammar

import (
	"fmt"
	"strings"
)

// CharSet is a 256-bit byte membership set used by character-class nodes.
//
// The value is small enough to copy; nodes store it inline rather than
// behind a pointer.
type CharSet [4]uint64

// Add inserts a single byte into the set.
func (s *CharSet) Add(c byte) {
	s[c>>6] |= 1 << (c & 63)
}

// AddRange inserts the inclusive range [lo, hi].
func (s *CharSet) AddRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		s.Add(byte(c))
	}
}

// AddSet inserts every member of o.
func (s *CharSet) AddSet(o CharSet) {
	for i := range s {
		s[i] |= o[i]
	}
}

// Negate flips membership of every byte.
func (s *CharSet) Negate() {
	for i := range s {
		s[i] = ^s[i]
	}
}

// Contains reports whether c is in the set.
func (s *CharSet) Contains(c byte) bool {
	return s[c>>6]&(1<<(c&63)) != 0
}

// Count returns the number of bytes in the set.
func (s *CharSet) Count() int {
	n := 0
	for c := 0; c < 256; c++ {
		if s.Contains(byte(c)) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set has no members.
func (s *CharSet) IsEmpty() bool {
	return s[0] == 0 && s[1] == 0 && s[2] == 0 && s[3] == 0
}

// Bytes returns the members in ascending order.
func (s *CharSet) Bytes() []byte {
	out := make([]byte, 0, s.Count())
	for c := 0; c < 256; c++ {
		if s.Contains(byte(c)) {
			out = append(out, byte(c))
		}
	}
	return out
}

// String renders the set in DSL class syntax, e.g. "[a-z0-9_]".
// Sets with more than half the byte space present render negated.
func (s *CharSet) String() string {
	set := *s
	neg := ""
	if set.Count() > 128 {
		set.Negate()
		neg = "^"
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(neg)
	for c := 0; c < 256; {
		if !set.Contains(byte(c)) {
			c++
			continue
		}
		lo := c
		for c < 256 && set.Contains(byte(c)) {
			c++
		}
		hi := c - 1
		writeClassByte(&b, byte(lo))
		switch {
		case hi == lo:
		case hi == lo+1:
			writeClassByte(&b, byte(hi))
		default:
			b.WriteByte('-')
			writeClassByte(&b, byte(hi))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// writeClassByte writes one byte in class syntax, escaping metacharacters
// and non-printable bytes.
func writeClassByte(b *strings.Builder, c byte) {
	switch c {
	case '\\', ']', '-', '^':
		b.WriteByte('\\')
		b.WriteByte(c)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	default:
		if c < 0x20 || c >= 0x7f {
			fmt.Fprintf(b, `\x%02X`, c)
		} else {
			b.WriteByte(c)
		}
	}
}
