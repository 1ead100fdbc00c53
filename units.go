package mancalc

import "strconv"

// Conversion factors, as decimal literals so they are exact at any precision.
const (
	feetPerMetre     = "3.280839895"
	kgPerPound       = "0.45359237"
	litresPerGallon  = "3.785411784"
	wattsPerHP       = "745.699872"
	joulesPerFootLbf = "1.3558179483314004"
)

// unitOps are operators defined as sequences of other operators.
var unitOps = map[string]Handler{
	"mf": macro(1, feetPerMetre, "*"),
	"fm": macro(1, feetPerMetre, "/"),
	"kp": macro(1, kgPerPound, "/"),
	"pk": macro(1, kgPerPound, "*"),
	"lg": macro(1, litresPerGallon, "/"),
	"gl": macro(1, litresPerGallon, "*"),
	"hw": macro(1, wattsPerHP, "*"),
	"wh": macro(1, wattsPerHP, "/"),
	"jf": macro(1, joulesPerFootLbf, "/"),
	"fj": macro(1, joulesPerFootLbf, "*"),
	"cf": macro(1, "9", "*", "5", "/", "32", "+"),
	"fc": macro(1, "32", "-", "5", "*", "9", "/"),

	// Lorentz factor 1/sqrt(1 - (v/c)²) of a speed in m/s, and its inverse.
	"gam": macro(1, "c", "/", "2", "^", "neg", "1", "+", "sqrt", "1", "swap", "/"),
	"lor": macro(1, "gam", "1", "swap", "/"),

	// Angular rate in mrad/s of a target at a range in yards crossing at a
	// speed in mph, and the reverse.
	"mil": macro(2, "1760", "*", "3600", "/", "swap", "/", "atan", "1000", "*"),
	"mph": macro(2, "1000", "/", "tan", "*", "3600", "*", "1760", "/"),

	// Two's complement, -x-1.
	"~": macro(1, "neg", "--"),

	"past": past,
}

// macro creates an operator that checks for need operands and then pushes
// each token in turn. A failure partway through restores the stack.
func macro(need int, tokens ...string) Handler {
	return func(m *Machine) error {
		if err := m.need(need); err != nil {
			return err
		}
		return m.atomically(func() error { return m.run(tokens...) })
	}
}

// atomically calls f and restores the stack if it fails.
func (m *Machine) atomically(f func() error) error {
	saved := append([]Num(nil), m.stack...)
	err := f()
	if err != nil {
		m.stack = saved
	}
	return err
}

// pasteurization is the hold time at each temperature that kills pathogens
// in milk, in degrees Fahrenheit and minutes.
var pasteurization = []struct {
	temp    int
	minutes string
}{
	{126, "281"},
	{130, "112"},
	{135, "35"},
	{140, "11"},
	{145, "3.49"},
	{160, "0.109"},
}

// past replaces a temperature in °F with the pasteurization hold time in
// seconds, interpolating log-linearly between entries of the table. Beyond
// the last entry the last segment is extended. Temperatures below the first
// entry never pasteurize and give +Inf.
func past(m *Machine) error {
	if err := m.need(1); err != nil {
		return err
	}
	t := m.peek(0)
	switch {
	case t.nan:
		return nil
	case t.Cmp(IntNum(int64(pasteurization[0].temp), t.Prec())) < 0:
		m.pop()
		m.PushNum(Inf(1))
		return nil
	}
	i := len(pasteurization) - 2
	for k := 0; k < len(pasteurization)-1; k++ {
		if t.Cmp(IntNum(int64(pasteurization[k+1].temp), t.Prec())) < 0 {
			i = k
			break
		}
	}
	lo, hi := pasteurization[i], pasteurization[i+1]
	return m.atomically(func() error {
		// (m1/m0)^((T-t0)/span) × m0 × 60
		return m.run(
			strconv.Itoa(lo.temp), "-", strconv.Itoa(hi.temp-lo.temp), "/",
			hi.minutes, lo.minutes, "/", "swap", "^",
			lo.minutes, "60", "*", "*",
		)
	})
}
