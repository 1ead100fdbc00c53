package mancalc

// Eval parses an infix expression on m and returns the top of the stack. A
// parse error is returned as is. Otherwise, if any push failed, the first
// failure is returned along with the stack top.
func Eval(m *Machine, src string) (Num, error) {
	p := NewParser(m, nil)
	if _, err := p.Parse(src); err != nil {
		return Num{}, err
	}
	r, err := m.Top()
	if p.Err() != nil {
		return r, p.Err()
	}
	return r, err
}

// EvalString is a shortcut to evaluate an infix expression on a new machine
// that discards its log.
func EvalString(src string, opts ...Option) (Num, error) {
	opts = append([]Option{WithLogger(Discard)}, opts...)
	return Eval(New(opts...), src)
}
