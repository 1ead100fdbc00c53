package mancalc_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kensmith/mancalc"
)

func TestOpsExact(t *testing.T) {
	cases := []struct {
		name   string
		tokens string
		want   string
	}{
		{"add", "1 2 +", "3"},
		{"sub", "1 2 -", "-1"},
		{"mul", "1.5 4 *", "6"},
		{"quo", "1 8 /", "0.125"},
		{"quo-zero", "1 0 /", "nan"},
		{"quo-zero-zero", "0 0 /", "nan"},
		{"mod", "10 3 %", "1"},
		{"mod-zero", "5 0 %", "nan"},
		{"pow", "2 10 ^", "1024"},
		{"shl", "1 32 <<", "4294967296"},
		{"shr", "4294967296 30 >>", "4"},
		{"shl-frac", "1 2.5 <<", "8"},
		{"shl-neg", "3 -2 <<", "3"},
		{"shl-inf", "3 inf <<", "inf"},
		{"shr-inf", "-3 inf >>", "0"},
		{"shl-nan", "3 nan <<", "nan"},
		{"fact", "5 !", "120"},
		{"fact-zero", "0 !", "1"},
		{"fact-one", "1 !", "1"},
		{"fact-big", "25 ! 1 +", "15511210043330985984000001"},
		{"fact-frac", "2.5 !", "3.75"},
		{"fact-nan", "nan !", "nan"},
		{"inc", "5 ++", "6"},
		{"dec", "5 --", "4"},
		{"neg", "5 neg", "-5"},
		{"complement", "5 ~", "-6"},
		{"abs", "-2.5 abs", "2.5"},
		{"trunc", "-2.7 trunc", "-2"},
		{"floor", "-2.2 floor", "-3"},
		{"ceil", "2.2 ceil", "3"},
		{"round", "2.5 round", "3"},
		{"frac", "2.75 frac", "0.75"},
		{"sqrt-neg", "-1 sqrt", "nan"},
		{"frexp", "-4 frexp", "-0.5   3"},
		{"c", "c", "299792458"},
		{"pop", "1 2 pop", "1"},
		{"p", "1 2 p", "1"},
		{"swap", "1 2 swap", "2   1"},
		{"sw", "1 2 SW", "2   1"},
		{"clear", "1 2 clear", ""},
		{"clr", "1 2 clr", ""},
		{"sum", "1 2 3 sum", "6"},
		{"sum-empty", "sum", "0"},
		{"prod", "2 3 4 prod", "24"},
		{"prod-empty", "prod", "1"},
		{"avg", "1 2 3 4 avg", "2.5"},
		{"avg-empty", "avg", "nan"},
		{"stddev-one", "3 stddev", "nan"},
		{"seq0", "5 seq0", "0   1   2   3   4"},
		{"seq0-empty", "7 0 seq0", "7"},
		{"seq1", "3 seq1", "1   2   3"},
		{"seq2", "2 5 seq2", "2   3   4   5"},
		{"seq2-desc", "5 2 seq2", "2   3   4   5"},
		{"seq3", "1 0.5 2 seq3", "1   1.5   2"},
		{"seq3-desc", "2 0.5 1 seq3", "1   1.5   2"},
		{"seq3-open", "0 3 10 seq3", "0   3   6   9"},
		{"cf", "100 cf", "212"},
		{"fc", "212 fc", "100"},
		{"cf-cold", "-40 cf", "-40"},
		{"mf", "1 mf", "3.280839895"},
		{"pk", "1 pk", "0.45359237"},
		{"gl", "1 gl", "3.785411784"},
		{"hw", "1 hw", "745.699872"},
		{"fj", "1 fj", "1.3558179483314004"},
		{"past-cold", "100 past", "inf"},
		{"past-nan", "nan past", "nan"},
		{"past-low", "126 past", "16860"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, l := newMachine()
			pushAll(t, m, strings.Fields(c.tokens)...)
			if got := m.Render(); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
			if len(l.msgs) != 0 {
				t.Errorf("unexpected log messages %q", l.msgs)
			}
		})
	}
}

func TestOpsApprox(t *testing.T) {
	cases := []struct {
		name   string
		tokens string
		want   float64
		tol    float64
	}{
		{"mod", "123.456 -47.0001 %", -17.5443, 1e-12},
		{"pow", "2 0.5 ^", math.Sqrt2, 1e-15},
		{"sqrt", "144 sqrt", 12, 1e-15},
		{"exp", "0 exp", 1, 1e-15},
		{"pi", "pi", math.Pi, 1e-15},
		{"e", "e", math.E, 1e-15},
		{"ln", "e ln", 1, 1e-15},
		{"log", "1000 log", 3, 1e-15},
		{"sin", "pi 6 / sin", 0.5, 1e-15},
		{"cos", "pi 3 / cos", 0.5, 1e-15},
		{"tan", "pi 4 / tan", 1, 1e-15},
		{"asin", "1 asin", math.Pi / 2, 1e-15},
		{"acos", "0 acos", math.Pi / 2, 1e-15},
		{"atan", "1 atan", math.Pi / 4, 1e-15},
		{"atan2", "1 1 atan2", math.Pi / 4, 1e-15},
		{"sinh", "1 sinh", math.Sinh(1), 1e-15},
		{"cosh", "1 cosh", math.Cosh(1), 1e-15},
		{"tanh", "1 tanh", math.Tanh(1), 1e-15},
		{"stddev", "2 4 4 4 5 5 7 9 stddev", 32.0 / 7, 1e-15},
		{"fact-pi", "5 ! 2 pi * +", 126.28318530717959, 1e-12},
		{"fm", "3.280839895 fm", 1, 1e-15},
		{"kp", "0.45359237 kp", 1, 1e-15},
		{"lg", "3.785411784 lg", 1, 1e-15},
		{"wh", "745.699872 wh", 1, 1e-15},
		{"jf", "1.3558179483314004 jf", 1, 1e-15},
		{"lor", "0 lor", 1, 1e-15},
		{"mil", "420 3 mil", 3.4920492975026125, 1e-12},
		{"mph", "425 2.43 mph", 2.1124473397499175, 1e-12},
		{"past-mid", "135 past", 35 * 60, 1e-9},
		{"past-between", "137.5 past", math.Sqrt(35*11) * 60, 1e-9},
		{"past-hot", "160 past", 0.109 * 60, 1e-9},
		{"past-hotter", "175 past", 0.109 * 0.109 / 3.49 * 60, 1e-9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, _ := newMachine()
			pushAll(t, m, strings.Fields(c.tokens)...)
			if m.Len() != 1 {
				t.Fatalf("want one result, got %s", m.Render())
			}
			x, _ := m.Top()
			if !near(x, c.want, c.tol) {
				t.Errorf("want %v, got %v", c.want, x)
			}
		})
	}
}

func TestLorentz(t *testing.T) {
	m, _ := newMachine()
	pushAll(t, m, "1000", "gam")
	g, _ := m.Top()
	// (1 - (v/c)²)^(-1/2) - 1 for v = 1000 m/s.
	if got := g.Sub(mancalc.IntNum(1, g.Prec())).Float64(); math.Abs(got-5.563250280314517e-12) > 1e-24 {
		t.Errorf("gam 1000: want 1.00000000000556325028031, got %v", g)
	}
	m.Clear()
	pushAll(t, m, "1000", "lor")
	if got := m.Render(); !strings.HasPrefix(got, "0.99999999999443674971") {
		t.Errorf("lor of gam: got %s", got)
	}
}

func TestSeqBadIncrement(t *testing.T) {
	for _, inc := range []string{"0", "-1", "inf", "nan"} {
		t.Run(inc, func(t *testing.T) {
			m, _ := newMachine()
			pushAll(t, m, "1", inc, "5")
			before := m.Render()
			err := m.Push("seq3")
			var oe *mancalc.OperandError
			if !errors.As(err, &oe) {
				t.Fatalf("want *OperandError, got %v", err)
			}
			if oe.Op != "seq3" {
				t.Errorf("wrong operator %q", oe.Op)
			}
			if got := m.Render(); got != before {
				t.Errorf("stack changed from %q to %q", before, got)
			}
		})
	}
}

func TestSeqBadBounds(t *testing.T) {
	cases := [][]string{
		{"inf", "seq0"},
		{"nan", "seq1"},
		{"1", "-inf", "seq2"},
		{"0", "1e100", "seq1"},
	}
	for _, c := range cases {
		m, _ := newMachine()
		pushAll(t, m, c[:len(c)-1]...)
		before := m.Render()
		var oe *mancalc.OperandError
		if err := m.Push(c[len(c)-1]); !errors.As(err, &oe) {
			t.Errorf("%q: want *OperandError, got %v", c, err)
		}
		if got := m.Render(); got != before {
			t.Errorf("%q: stack changed from %q to %q", c, before, got)
		}
	}
}

func TestSeqLargeBounds(t *testing.T) {
	m, _ := newMachine()
	pushAll(t, m, "1e200", "1e200", "seq2")
	if got := m.Render(); got != "1"+strings.Repeat("0", 200) {
		t.Errorf("want one element, got %s", got)
	}
	// Steps smaller than the last digit still end after a fixed count.
	m, _ = newMachine(mancalc.Prec(4))
	pushAll(t, m, "1000", "0.25", "1001", "seq3")
	if got := m.Render(); got != "1000   1000   1000   1001   1001" {
		t.Errorf("want five rounded elements, got %s", got)
	}
	m.Clear()
	pushAll(t, m, "10000", "1", "10002", "seq3")
	if m.Len() != 3 {
		t.Errorf("want three elements, got %s", m.Render())
	}
}

func TestOperatorCase(t *testing.T) {
	m, _ := newMachine()
	pushAll(t, m, "PI", "Pi", "pI", "-", "HEX")
	if got := m.Render(); got != "0x0   0x0" {
		t.Errorf("want two zeros in hex, got %q", got)
	}
}
