package copeg

// ReplaceAllLiteral returns a copy of src with every match replaced by
// repl, substituted directly without template expansion. When nothing
// matches the input comes back unchanged.
//
// Example:
//
//	p := copeg.MustCompile(`'a'`)
//	p.ReplaceAllLiteral([]byte("aaa"), []byte("b")) // "bbb"
func (p *Peg) ReplaceAllLiteral(src, repl []byte) []byte {
	var out []byte
	last := 0
	for m := range p.Matches(src) {
		out = append(out, src[last:m.Start()]...)
		out = append(out, repl...)
		last = m.End()
	}
	if out == nil {
		out = make([]byte, len(src))
		copy(out, src)
		return out
	}
	return append(out, src[last:]...)
}

// ReplaceAllLiteralString is ReplaceAllLiteral for string arguments.
func (p *Peg) ReplaceAllLiteralString(src, repl string) string {
	return string(p.ReplaceAllLiteral([]byte(src), []byte(repl)))
}

// ReplaceAll returns a copy of src with every match replaced by the
// template repl: $0 is the entire match, $1…$9 are the capture slots,
// $$ is a literal dollar.
//
// Example:
//
//	p := copeg.MustCompile(`{[a-z]+} '@' {[a-z]+}`)
//	p.ReplaceAll([]byte("user@host"), []byte("$2/$1")) // "host/user"
func (p *Peg) ReplaceAll(src, repl []byte) []byte {
	var out []byte
	last := 0
	for m := range p.Matches(src) {
		out = append(out, src[last:m.Start()]...)
		out = expandTemplate(out, repl, m)
		last = m.End()
	}
	if out == nil {
		out = make([]byte, len(src))
		copy(out, src)
		return out
	}
	return append(out, src[last:]...)
}

// ReplaceAllString is ReplaceAll for string arguments.
func (p *Peg) ReplaceAllString(src, repl string) string {
	return string(p.ReplaceAll([]byte(src), []byte(repl)))
}

// ReplaceAllFunc returns a copy of src with every match replaced by the
// return value of repl. The callback receives the full Match with its
// ordinal (Match.Index), span and capture groups; its result is
// substituted directly.
//
// Example:
//
//	p := copeg.MustCompile(`\d+`)
//	p.ReplaceAllFunc([]byte("1 2 3"), func(m *copeg.Match) []byte {
//	    n, _ := strconv.Atoi(m.String())
//	    return []byte(strconv.Itoa(n * 2))
//	}) // "2 4 6"
func (p *Peg) ReplaceAllFunc(src []byte, repl func(*Match) []byte) []byte {
	var out []byte
	last := 0
	for m := range p.Matches(src) {
		out = append(out, src[last:m.Start()]...)
		out = append(out, repl(m)...)
		last = m.End()
	}
	if out == nil {
		out = make([]byte, len(src))
		copy(out, src)
		return out
	}
	return append(out, src[last:]...)
}

// ReplaceAllStringFunc is ReplaceAllFunc for a string subject.
func (p *Peg) ReplaceAllStringFunc(src string, repl func(*Match) string) string {
	return string(p.ReplaceAllFunc([]byte(src), func(m *Match) []byte {
		return []byte(repl(m))
	}))
}

// expandTemplate appends template to dst, substituting $0…$N group
// references and $$ escapes. Unknown $ forms are kept literally.
func expandTemplate(dst, template []byte, m *Match) []byte {
	i := 0
	for i < len(template) {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			dst = append(dst, c)
			i++
			continue
		}
		next := template[i+1]
		if next == '$' {
			dst = append(dst, '$')
			i += 2
			continue
		}
		if next >= '0' && next <= '9' {
			num := 0
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				num = num*10 + int(template[j]-'0')
				j++
			}
			if num < m.NumGroups() {
				dst = append(dst, m.Group(num)...)
			}
			i = j
			continue
		}
		dst = append(dst, '$')
		i++
	}
	return dst
}
