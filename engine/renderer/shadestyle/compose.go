package shadestyle

// Plus composes two styles into a new one. Transforms of both styles run in
// sequence, each in its own block so their locals cannot collide. Preambles
// are joined with a newline. Parameters, outputs and attributes are merged
// with other taking precedence. Geometry snippets, storage buffers and the
// default output switch are not carried over. Neither operand is modified.
func (s *ShadeStyle) Plus(other *ShadeStyle) *ShadeStyle {
	if other == nil {
		other = New()
	}
	c := New()
	c.vertexTransform = concat(s.vertexTransform, other.vertexTransform)
	c.fragmentTransform = concat(s.fragmentTransform, other.fragmentTransform)

	vp := deref(s.vertexPreamble) + "\n" + deref(other.vertexPreamble)
	c.vertexPreamble = &vp
	fp := deref(s.fragmentPreamble) + "\n" + deref(other.fragmentPreamble)
	c.fragmentPreamble = &fp

	c.parameters.PutAll(s.parameters)
	c.parameters.PutAll(other.parameters)
	for k, v := range s.parameterValues {
		c.parameterValues[k] = v
	}
	for k, v := range other.parameterValues {
		c.parameterValues[k] = v
	}

	c.outputs.PutAll(s.outputs)
	c.outputs.PutAll(other.outputs)

	c.attributes = append(c.attributes, s.attributes...)
	c.attributes = append(c.attributes, other.attributes...)

	// the merge notifications above are irrelevant, a new style is dirty
	c.dirty = true
	return c
}

// Compose folds styles left to right with Plus. Nil entries are skipped.
func Compose(styles ...*ShadeStyle) *ShadeStyle {
	var out *ShadeStyle
	for _, style := range styles {
		if style == nil {
			continue
		}
		if out == nil {
			out = style.Clone()
			continue
		}
		out = out.Plus(style)
	}
	if out == nil {
		return New()
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func concat(left, right *string) *string {
	switch {
	case left == nil && right == nil:
		return nil
	case left == nil:
		r := *right
		return &r
	case right == nil:
		l := *left
		return &l
	}
	out := isolate(*left) + "\n" + isolate(*right)
	return &out
}

// isolate wraps code in a block unless the whole text already is one.
// "{a} {b}" starts and ends with braces but is two blocks, so it is wrapped.
func isolate(code string) string {
	if enclosed(code) {
		return code
	}
	return "{" + code + "}"
}

func enclosed(code string) bool {
	n := len(code)
	if n < 2 || code[0] != '{' || code[n-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < n; i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == n-1
			}
		}
	}
	return false
}
