package mancalc_test

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/kensmith/mancalc"
)

// logged is a Logger that records messages.
type logged struct {
	levels []mancalc.Level
	msgs   []string
}

func (l *logged) Log(lvl mancalc.Level, msg string) {
	l.levels = append(l.levels, lvl)
	l.msgs = append(l.msgs, msg)
}

func newMachine(opts ...mancalc.Option) (*mancalc.Machine, *logged) {
	l := new(logged)
	opts = append([]mancalc.Option{mancalc.WithLogger(l)}, opts...)
	return mancalc.New(opts...), l
}

// pushAll pushes each token and fails the test on any error.
func pushAll(t *testing.T, m *mancalc.Machine, tokens ...string) {
	t.Helper()
	for _, tok := range tokens {
		if err := m.Push(tok); err != nil {
			t.Fatalf("push %q: %v", tok, err)
		}
	}
}

func TestPushLiteral(t *testing.T) {
	cases := []struct {
		tok  string
		want string
	}{
		{"12", "12"},
		{"-3.5", "-3.5"},
		{".25", "0.25"},
		{"1e3", "1000"},
		{"123,123,123", "123123123"},
		{"x1,000", "4096"},
		{"b1,0", "2"},
		{"xabcd", "43981"},
		{"XABCD", "43981"},
		{"0xabcd", "43981"},
		{"habcd", "43981"},
		{"0h10", "16"},
		{"xabcd.8", "43981.5"},
		{"x.4", "0.25"},
		{"o777", "511"},
		{"0o17", "15"},
		{"o.4", "0.5"},
		{"0b10100101", "165"},
		{"b101", "5"},
		{"b1.01", "1.25"},
		{"nan", "nan"},
		{"inf", "inf"},
	}
	for _, c := range cases {
		t.Run(c.tok, func(t *testing.T) {
			m, l := newMachine()
			pushAll(t, m, c.tok)
			if got := m.Render(); got != c.want {
				t.Errorf("want %s, got %s", c.want, got)
			}
			if len(l.msgs) != 0 {
				t.Errorf("unexpected log messages %q", l.msgs)
			}
		})
	}
}

func TestPushBadLiteral(t *testing.T) {
	cases := []struct {
		tok  string
		base int
		col  int
	}{
		{"xg", 16, 0},
		{"x12z", 16, 2},
		{"x1.2.3", 16, 3},
		{"x", 16, -1},
		{"x.", 16, -1},
		{"o8", 8, 0},
		{"o1.9", 8, 2},
		{"b2", 2, 0},
		{"foo", 10, -1},
		{"1..2", 10, -1},
		{"$", 10, -1},
	}
	for _, c := range cases {
		t.Run(c.tok, func(t *testing.T) {
			m, l := newMachine()
			pushAll(t, m, "7")
			err := m.Push(c.tok)
			var pe *mancalc.PushError
			if !errors.As(err, &pe) {
				t.Fatalf("want *PushError, got %#v", err)
			}
			if pe.Token != c.tok {
				t.Errorf("wrong token %q", pe.Token)
			}
			var le *mancalc.LiteralError
			if !errors.As(err, &le) {
				t.Fatalf("want *LiteralError, got %#v", pe.Err)
			}
			if le.Base != c.base || le.Pos() != c.col {
				t.Errorf("want base %d col %d, got base %d col %d", c.base, c.col, le.Base, le.Pos())
			}
			if got := m.Render(); got != "7" {
				t.Errorf("stack changed to %s", got)
			}
			if len(l.msgs) != 1 || l.levels[0] != mancalc.LevelError {
				t.Fatalf("want one error message, got %q", l.msgs)
			}
			re := regexp.MustCompile(`^failed to push ` + regexp.QuoteMeta(fmt.Sprintf("%q", c.tok)))
			if !re.MatchString(l.msgs[0]) {
				t.Errorf("log message %q doesn't match %v", l.msgs[0], re)
			}
		})
	}
}

func TestArityGuard(t *testing.T) {
	cases := []struct {
		op    string
		need  int
		stack []string
	}{
		{"+", 2, []string{"1"}},
		{"-", 2, nil},
		{"^", 2, []string{"2"}},
		{"atan2", 2, []string{"1"}},
		{"<<", 2, []string{"1"}},
		{"!", 1, nil},
		{"sqrt", 1, nil},
		{"swap", 2, []string{"3"}},
		{"pop", 1, nil},
		{"frexp", 1, nil},
		{"seq0", 1, nil},
		{"seq2", 2, []string{"1"}},
		{"seq3", 3, []string{"1", "2"}},
		{"gam", 1, nil},
		{"mil", 2, []string{"420"}},
		{"past", 1, nil},
		{"CF", 1, nil},
	}
	for _, c := range cases {
		t.Run(c.op, func(t *testing.T) {
			m, _ := newMachine()
			pushAll(t, m, c.stack...)
			before := m.Render()
			err := m.Push(c.op)
			if !errors.Is(err, mancalc.ErrStackUnderflow) {
				t.Fatalf("want stack underflow, got %v", err)
			}
			var se *mancalc.StackError
			if !errors.As(err, &se) {
				t.Fatalf("want *StackError, got %#v", err)
			}
			if se.Op != strings.ToLower(c.op) || se.Need != c.need || se.Have != len(c.stack) {
				t.Errorf("wrong error %+v", *se)
			}
			if got := m.Render(); got != before {
				t.Errorf("stack changed from %q to %q", before, got)
			}
		})
	}
}

func TestPopEmpty(t *testing.T) {
	m, _ := newMachine()
	if _, err := m.Pop(); !errors.Is(err, mancalc.ErrStackUnderflow) {
		t.Errorf("Pop: want stack underflow, got %v", err)
	}
	if _, err := m.Top(); !errors.Is(err, mancalc.ErrStackUnderflow) {
		t.Errorf("Top: want stack underflow, got %v", err)
	}
	m.PushInt(4)
	m.PushFloat(0.5)
	m.PushNum(mancalc.IntNum(9, 64))
	if !m.CanTernary() || m.Len() != 3 {
		t.Fatalf("wrong stack %s", m.Render())
	}
	x, err := m.Pop()
	if err != nil || x.String() != "9" {
		t.Errorf("want 9, got %v, %v", x, err)
	}
	if !m.CanBinary() || m.CanTernary() {
		t.Errorf("wrong arity checks for %s", m.Render())
	}
	m.Clear()
	if m.CanUnary() {
		t.Errorf("clear left %s", m.Render())
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"empty", nil, ""},
		{"dec", []string{"1", "2", "3", "4"}, "1   2   3   4"},
		{"hex", []string{"x1234abcd", "hex"}, "0x1234abcd"},
		{"oct", []string{"o777123", "oct"}, "0o777123"},
		{"bin", []string{"b11111010110011100101", "bin"}, "0b11111010110011100101"},
		{"hex-frac", []string{"0.125", "hex"}, "0x0"},
		{"hex-neg", []string{"-5", "0", "hex"}, "0x0   0x0"},
		{"com", []string{"1234", "1234.5", "com"}, "1,234   1,234.5"},
		{"com-small", []string{"1", "2", "3", "4", "com"}, "1   2   3   4"},
		{"com-big", []string{"-1234567", "com"}, "-1,234,567"},
		{"eng", []string{"1e30", "12", "eng"}, "1e+30   12"},
		{"back-to-dec", []string{"255", "hex", "dec"}, "255"},
		{"nan", []string{"0", "0", "/", "com"}, "nan"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, _ := newMachine()
			pushAll(t, m, c.tokens...)
			got := m.Render()
			if got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
			if again := m.Render(); again != got {
				t.Errorf("second render %q differs from %q", again, got)
			}
		})
	}
}

func TestRenderBases(t *testing.T) {
	modes := []struct {
		mode   mancalc.DisplayMode
		format string
	}{
		{mancalc.Hex, "0x%x"},
		{mancalc.Octal, "0o%o"},
		{mancalc.Binary, "0b%b"},
	}
	for _, md := range modes {
		t.Run(md.mode.String(), func(t *testing.T) {
			m, _ := newMachine(mancalc.Display(md.mode))
			for n := int64(0); n < 5000; n += 37 {
				m.Clear()
				m.PushInt(n)
				if got, want := m.Render(), fmt.Sprintf(md.format, n); got != want {
					t.Errorf("%d: want %s, got %s", n, want, got)
				}
			}
		})
	}
}

func TestDisplayOps(t *testing.T) {
	m, _ := newMachine()
	pushAll(t, m, "5")
	for _, name := range []string{"hex", "oct", "bin", "com", "eng", "dec"} {
		pushAll(t, m, name)
		if got := m.DisplayMode().String(); got != name {
			t.Errorf("%s set mode %s", name, got)
		}
		if m.Len() != 1 {
			t.Errorf("%s changed the stack to %s", name, m.Render())
		}
	}
	m.SetDisplayMode(mancalc.Binary)
	if got := m.Render(); got != "0b101" {
		t.Errorf("want 0b101, got %s", got)
	}
}

func TestPrecOption(t *testing.T) {
	m, _ := newMachine(mancalc.Prec(64))
	pushAll(t, m, "0.1", "pi")
	for _, x := range m.Stack() {
		if x.Prec() != 64 {
			t.Errorf("%v has precision %d", x, x.Prec())
		}
	}
	if m.Prec() != 64 {
		t.Errorf("machine precision is %d", m.Prec())
	}
	if d := mancalc.New(mancalc.WithLogger(nil)); d.Prec() != mancalc.DefaultPrec {
		t.Errorf("default precision is %d", d.Prec())
	}
}

func TestCancelRestoresOperands(t *testing.T) {
	cases := []struct {
		name   string
		tokens []string
		op     string
	}{
		{"shl", []string{"1", "10"}, "<<"},
		{"shr", []string{"1", "10"}, ">>"},
		{"fact", []string{"10"}, "!"},
		{"seq0", []string{"3", "10"}, "seq0"},
		{"seq1", []string{"10"}, "seq1"},
		{"seq2", []string{"10", "1"}, "seq2"},
		{"seq3", []string{"1", "2", "10"}, "seq3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, l := newMachine()
			pushAll(t, m, c.tokens...)
			before := m.Render()
			m.SetEnabled(false)
			err := m.Push(c.op)
			if !errors.Is(err, mancalc.ErrCanceled) {
				t.Errorf("want canceled, got %v", err)
			}
			if got := m.Render(); got != before {
				t.Errorf("want %q, got %q", before, got)
			}
			if len(l.levels) != 1 || l.levels[0] != mancalc.LevelInfo {
				t.Errorf("want one info message, got %v %q", l.levels, l.msgs)
			}
			m.SetEnabled(true)
			if err := m.Push(c.op); err != nil {
				t.Errorf("push after enabling: %v", err)
			}
		})
	}
}

func TestCancelMidLoop(t *testing.T) {
	m, _ := newMachine()
	m.PushInt(1e9)
	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(10 * time.Millisecond)
		m.SetEnabled(false)
	}()
	err := m.Push("!")
	<-done
	if !errors.Is(err, mancalc.ErrCanceled) {
		t.Fatalf("want canceled, got %v", err)
	}
	if got := m.Render(); got != "1000000000" {
		t.Errorf("operands not restored: got %q", got)
	}
	if m.Enabled() {
		t.Error("machine still enabled")
	}
}

func TestHasOperator(t *testing.T) {
	m, _ := newMachine()
	for _, name := range []string{"+", "pop", "P", "Swap", "clr", "stddev", "~", "past"} {
		if !m.HasOperator(name) {
			t.Errorf("%q is not an operator", name)
		}
	}
	for _, name := range []string{"12", "x10", "foo", ""} {
		if m.HasOperator(name) {
			t.Errorf("%q is an operator", name)
		}
	}
}

func near(x mancalc.Num, want, tol float64) bool {
	return math.Abs(x.Float64()-want) <= tol
}
