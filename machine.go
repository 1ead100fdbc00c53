package mancalc

import (
	"errors"
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
)

// Machine is a postfix calculator. It owns a stack of numbers and applies
// named operators to it. It is not safe to use a Machine concurrently, except
// that SetEnabled may be called from any goroutine to cancel a long-running
// operator.
type Machine struct {
	stack   []Num
	ops     map[string]Handler
	fold    cases.Caser
	prec    uint
	mode    DisplayMode
	enabled atomic.Bool
	log     Logger
}

// New creates a machine with an empty stack in Decimal mode. If no precision
// is given, the default is DefaultPrec.
func New(opts ...Option) *Machine {
	m := Machine{
		ops:  registry,
		fold: cases.Fold(),
		prec: DefaultPrec,
		log:  defaultLogger,
	}
	m.enabled.Store(true)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			if opt > 0 {
				m.prec = uint(opt)
			}
		case logopt:
			m.log = opt.l
			if m.log == nil {
				m.log = Discard
			}
		case displayopt:
			m.mode = DisplayMode(opt)
		default:
			panic("mancalc: unknown option type")
		}
	}
	return &m
}

// Push gives the machine a token. A token naming an operator, in any case,
// applies that operator. Otherwise the token is read as a number: hex with a
// prefix of x, h, 0x, or 0h; octal with o or 0o; binary with b or 0b; or
// decimal, possibly with commas between groups of digits.
//
// If the token can't be used, the error is logged and returned as a
// *PushError, and the stack is unchanged.
func (m *Machine) Push(token string) error {
	err := m.push(token)
	if err != nil {
		lvl := LevelError
		if errors.Is(err, ErrCanceled) {
			lvl = LevelInfo
		}
		err = &PushError{Token: token, Err: err}
		m.log.Log(lvl, err.Error())
	}
	return err
}

func (m *Machine) push(token string) error {
	name := m.fold.String(token)
	if h := m.ops[name]; h != nil {
		err := h(m)
		var se *StackError
		if errors.As(err, &se) && se.Op == "" {
			se.Op = name
		}
		return err
	}
	x, err := parseLiteral(name, m.prec)
	if err != nil {
		return err
	}
	m.stack = append(m.stack, x)
	return nil
}

// run pushes each token in turn, stopping at the first failure. Operators
// defined in terms of other operators use it.
func (m *Machine) run(tokens ...string) error {
	for _, tok := range tokens {
		if err := m.push(tok); err != nil {
			return err
		}
	}
	return nil
}

// PushNum pushes a number.
func (m *Machine) PushNum(x Num) {
	m.stack = append(m.stack, x)
}

// PushInt pushes an integer at the machine's precision.
func (m *Machine) PushInt(n int64) {
	m.stack = append(m.stack, IntNum(n, m.prec))
}

// PushFloat pushes a float64 at the machine's precision.
func (m *Machine) PushFloat(x float64) {
	m.stack = append(m.stack, FloatNum(x, m.prec))
}

// Top returns the top of the stack without removing it.
func (m *Machine) Top() (Num, error) {
	if len(m.stack) == 0 {
		return Num{}, ErrStackUnderflow
	}
	return m.stack[len(m.stack)-1], nil
}

// Pop removes the top of the stack and returns it.
func (m *Machine) Pop() (Num, error) {
	x, err := m.Top()
	if err != nil {
		return x, err
	}
	m.stack = m.stack[:len(m.stack)-1]
	return x, nil
}

// pop is Pop for callers that have already checked the stack depth.
func (m *Machine) pop() Num {
	x := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return x
}

// peek returns the element k places below the top.
func (m *Machine) peek(k int) Num {
	return m.stack[len(m.stack)-1-k]
}

// need checks that at least n operands are on the stack.
func (m *Machine) need(n int) error {
	if len(m.stack) < n {
		return &StackError{Need: n, Have: len(m.stack)}
	}
	return nil
}

// CanUnary reports whether the stack has an operand for a unary operator.
func (m *Machine) CanUnary() bool {
	return len(m.stack) >= 1
}

// CanBinary reports whether the stack has operands for a binary operator.
func (m *Machine) CanBinary() bool {
	return len(m.stack) >= 2
}

// CanTernary reports whether the stack has operands for a ternary operator.
func (m *Machine) CanTernary() bool {
	return len(m.stack) >= 3
}

// Len returns the number of elements on the stack.
func (m *Machine) Len() int {
	return len(m.stack)
}

// Stack returns a copy of the stack, bottom first.
func (m *Machine) Stack() []Num {
	return append([]Num(nil), m.stack...)
}

// Clear empties the stack.
func (m *Machine) Clear() {
	m.stack = m.stack[:0]
}

// HasOperator reports whether name, in any case, names an operator.
func (m *Machine) HasOperator(name string) bool {
	return m.ops[m.fold.String(name)] != nil
}

// Enabled reports whether long-running operators may continue.
func (m *Machine) Enabled() bool {
	return m.enabled.Load()
}

// SetEnabled sets whether long-running operators may continue. Disabling
// the machine while such an operator runs makes it restore its operands and
// fail with ErrCanceled.
func (m *Machine) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// DisplayMode returns the mode used by Render.
func (m *Machine) DisplayMode() DisplayMode {
	return m.mode
}

// SetDisplayMode sets the mode used by Render.
func (m *Machine) SetDisplayMode(mode DisplayMode) {
	m.mode = mode
}

// Prec returns the precision of numbers the machine creates.
func (m *Machine) Prec() uint {
	return m.prec
}

// Render formats the stack bottom first, separating elements by three
// spaces.
func (m *Machine) Render() string {
	var b strings.Builder
	for i, x := range m.stack {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(m.mode.Format(x))
	}
	return b.String()
}

func (m *Machine) String() string {
	return m.Render()
}
