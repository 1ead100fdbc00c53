package mancalc

import "strconv"

// Handler implements an operator. It must check that the stack holds enough
// operands before it removes any, and it must leave the stack unchanged when
// it returns an error.
type Handler func(m *Machine) error

// registry maps lowercase operator names to their handlers. It is never
// modified after initialization.
var registry = mustRegistry(coreOps, unitOps)

// mustRegistry merges operator tables, panicking if a name is defined twice.
func mustRegistry(tables ...map[string]Handler) map[string]Handler {
	r := make(map[string]Handler)
	for _, t := range tables {
		for name, h := range t {
			if _, ok := r[name]; ok {
				panic("mancalc: operator " + strconv.Quote(name) + " defined twice")
			}
			if h == nil {
				panic("mancalc: operator " + strconv.Quote(name) + " has no handler")
			}
			r[name] = h
		}
	}
	return r
}

var coreOps = map[string]Handler{
	"+":     binary(Num.Add),
	"-":     binary(Num.Sub),
	"*":     binary(Num.Mul),
	"/":     binary(Num.Quo),
	"%":     binary(Num.Mod),
	"^":     binary(Num.Pow),
	"atan2": binary(Num.Atan2),
	"<<":    shift(1),
	">>":    shift(-1),
	"!":     factorial,

	"++":    unary(func(x Num) Num { return x.Add(IntNum(1, x.Prec())) }),
	"--":    unary(func(x Num) Num { return x.Sub(IntNum(1, x.Prec())) }),
	"neg":   unary(Num.Neg),
	"abs":   unary(Num.Abs),
	"sqrt":  unary(Num.Sqrt),
	"trunc": unary(Num.Trunc),
	"floor": unary(Num.Floor),
	"ceil":  unary(Num.Ceil),
	"round": unary(Num.Round),
	"frac":  unary(Num.Frac),
	"exp":   unary(Num.Exp),
	"ln":    unary(Num.Ln),
	"log":   unary(Num.Log10),
	"sin":   unary(Num.Sin),
	"cos":   unary(Num.Cos),
	"tan":   unary(Num.Tan),
	"asin":  unary(Num.Asin),
	"acos":  unary(Num.Acos),
	"atan":  unary(Num.Atan),
	"sinh":  unary(Num.Sinh),
	"cosh":  unary(Num.Cosh),
	"tanh":  unary(Num.Tanh),
	"frexp": frexp,

	"pi": constant(Pi),
	"e":  constant(E),
	"c":  constant(func(prec uint) Num { return IntNum(299792458, prec) }),

	"sum":    reducer(sum),
	"prod":   reducer(prod),
	"avg":    reducer(avg),
	"stddev": reducer(variance),

	"seq0": seq0,
	"seq1": seq1,
	"seq2": seq2,
	"seq3": seq3,

	"pop":   drop,
	"p":     drop,
	"swap":  swap,
	"sw":    swap,
	"clear": clearStack,
	"clr":   clearStack,

	"dec": display(Decimal),
	"hex": display(Hex),
	"oct": display(Octal),
	"bin": display(Binary),
	"com": display(Grouped),
	"eng": display(Scientific),
}

// unary creates an operator that replaces the top of the stack with f of it.
func unary(f func(x Num) Num) Handler {
	return func(m *Machine) error {
		if err := m.need(1); err != nil {
			return err
		}
		m.PushNum(f(m.pop()))
		return nil
	}
}

// binary creates an operator that pops rhs, then lhs, and pushes f(lhs, rhs).
func binary(f func(lhs, rhs Num) Num) Handler {
	return func(m *Machine) error {
		if err := m.need(2); err != nil {
			return err
		}
		rhs := m.pop()
		lhs := m.pop()
		m.PushNum(f(lhs, rhs))
		return nil
	}
}

func constant(f func(prec uint) Num) Handler {
	return func(m *Machine) error {
		m.PushNum(f(m.prec))
		return nil
	}
}

func display(mode DisplayMode) Handler {
	return func(m *Machine) error {
		m.mode = mode
		return nil
	}
}

func drop(m *Machine) error {
	if err := m.need(1); err != nil {
		return err
	}
	m.pop()
	return nil
}

func swap(m *Machine) error {
	if err := m.need(2); err != nil {
		return err
	}
	n := len(m.stack)
	m.stack[n-1], m.stack[n-2] = m.stack[n-2], m.stack[n-1]
	return nil
}

func clearStack(m *Machine) error {
	m.Clear()
	return nil
}

func frexp(m *Machine) error {
	if err := m.need(1); err != nil {
		return err
	}
	mant, exp := m.pop().Frexp()
	m.PushNum(mant)
	m.PushInt(int64(exp))
	return nil
}

// maxShift is the shift count beyond which any nonzero finite operand must
// overflow or underflow. Larger counts are treated as infinite.
var maxShift = IntNum(1<<33, 0)

// shift creates << (dir 1) and >> (dir -1). The left operand is doubled or
// halved once per unit of the right operand, a partial unit counting as a
// whole one. The power of two is built by repeated squaring.
func shift(dir int) Handler {
	return func(m *Machine) error {
		if err := m.need(2); err != nil {
			return err
		}
		lhs, rhs := m.peek(1), m.peek(0)
		switch {
		case lhs.nan || rhs.nan:
			m.pop()
			m.pop()
			m.PushNum(NaN())
			return nil
		case lhs.Sign() == 0 || lhs.IsInf() || rhs.Sign() <= 0:
			// Nothing changes lhs.
			m.pop()
			return nil
		case rhs.IsInf() || rhs.Cmp(maxShift) > 0:
			m.pop()
			m.pop()
			if dir > 0 {
				m.PushNum(Inf(lhs.Sign()))
			} else {
				m.PushNum(IntNum(0, lhs.Prec()))
			}
			return nil
		}
		p := lhs.Prec()
		w := p + guardDigits
		n, _ := rhs.Ceil().int64()
		f, b := IntNum(1, w), IntNum(2, w)
		for ; n > 0; n /= 2 {
			if !m.Enabled() {
				return ErrCanceled
			}
			if n%2 == 1 {
				f = f.Mul(b)
			}
			b = b.Mul(b)
		}
		var z Num
		if dir > 0 {
			z = lhs.Mul(f)
		} else {
			z = lhs.Quo(f)
		}
		m.pop()
		m.pop()
		m.PushNum(z.round(p))
		return nil
	}
}

// factorial multiplies x by x-1, x-2, and so on while the factor exceeds 1.
// Non-integers therefore get a product of a descending series.
func factorial(m *Machine) error {
	if err := m.need(1); err != nil {
		return err
	}
	x := m.peek(0)
	switch {
	case x.nan:
		return nil
	case x.Sign() == 0:
		m.pop()
		m.PushInt(1)
		return nil
	}
	one := IntNum(1, x.Prec())
	r, k := x, x.Sub(one)
	for k.Cmp(one) > 0 && !r.IsInf() {
		if !m.Enabled() {
			return ErrCanceled
		}
		r = r.Mul(k)
		k = k.Sub(one)
	}
	m.pop()
	m.PushNum(r)
	return nil
}

// reducer creates an operator that drains the whole stack into one value.
func reducer(f func(xs []Num, prec uint) Num) Handler {
	return func(m *Machine) error {
		var xs []Num
		for m.CanUnary() {
			xs = append(xs, m.pop())
		}
		m.PushNum(f(xs, m.prec))
		return nil
	}
}

func sum(xs []Num, prec uint) Num {
	r := IntNum(0, prec)
	for _, x := range xs {
		r = r.Add(x)
	}
	return r
}

func prod(xs []Num, prec uint) Num {
	r := IntNum(1, prec)
	for _, x := range xs {
		r = r.Mul(x)
	}
	return r
}

func avg(xs []Num, prec uint) Num {
	return sum(xs, prec).Quo(IntNum(int64(len(xs)), prec))
}

// variance is the sample variance, with n-1 in the denominator.
func variance(xs []Num, prec uint) Num {
	mean := avg(xs, prec)
	r := IntNum(0, prec)
	for _, x := range xs {
		d := x.Sub(mean)
		r = r.Add(d.Mul(d))
	}
	return r.Quo(IntNum(int64(len(xs)-1), prec))
}

// maxSeq is the largest number of elements a sequence operator will push.
const maxSeq = 1 << 24

// seq0 replaces n with 0, 1, ..., up to but excluding n.
func seq0(m *Machine) error {
	if err := m.need(1); err != nil {
		return err
	}
	n := m.peek(0)
	return m.seq("seq0", 1, IntNum(0, n.Prec()), IntNum(1, n.Prec()), n, false)
}

// seq1 replaces n with 1, 2, ..., n.
func seq1(m *Machine) error {
	if err := m.need(1); err != nil {
		return err
	}
	n := m.peek(0)
	return m.seq("seq1", 1, IntNum(1, n.Prec()), IntNum(1, n.Prec()), n, true)
}

// seq2 replaces lo and hi with lo, lo+1, ..., hi. The bounds may be in either
// order.
func seq2(m *Machine) error {
	if err := m.need(2); err != nil {
		return err
	}
	lo, hi := m.peek(1), m.peek(0)
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	return m.seq("seq2", 2, lo, IntNum(1, lo.Prec()), hi, true)
}

// seq3 replaces lo, inc, and hi with lo, lo+inc, ..., up to hi. The bounds
// may be in either order, but inc must be positive.
func seq3(m *Machine) error {
	if err := m.need(3); err != nil {
		return err
	}
	lo, inc, hi := m.peek(2), m.peek(1), m.peek(0)
	if inc.Sign() <= 0 || inc.IsInf() {
		return &OperandError{Op: "seq3", Reason: "increment " + inc.String() + " is not positive and finite"}
	}
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	return m.seq("seq3", 3, lo, inc, hi, true)
}

// seq replaces the top k operands with lo, lo+inc, ... while the element is
// below hi, or not above it if closed. Elements are computed as lo + i·inc,
// so the count is fixed even where adding inc to a large element would not
// change it.
func (m *Machine) seq(op string, k int, lo, inc, hi Num, closed bool) error {
	if lo.nan || hi.nan || lo.IsInf() || hi.IsInf() {
		return &OperandError{Op: op, Reason: "bounds must be finite numbers"}
	}
	p := lo.Prec()
	span := hi.Sub(lo).Quo(inc)
	if span.Cmp(IntNum(maxSeq, p)) > 0 {
		return &OperandError{Op: op, Reason: "sequence longer than " + strconv.Itoa(maxSeq) + " elements"}
	}
	n := int64(-1)
	if span.Sign() >= 0 {
		n, _ = span.Floor().int64()
		if !closed && lo.Add(inc.Mul(IntNum(n, p))).Cmp(hi) >= 0 {
			n--
		}
	}
	base := len(m.stack) - k
	operands := append([]Num(nil), m.stack[base:]...)
	m.stack = m.stack[:base]
	for i := int64(0); i <= n; i++ {
		if !m.Enabled() {
			m.stack = append(m.stack[:base], operands...)
			return ErrCanceled
		}
		m.stack = append(m.stack, lo.Add(inc.Mul(IntNum(i, p))))
	}
	return nil
}
