package mancalc

import "strconv"

// DisplayMode selects how a Machine renders its stack.
type DisplayMode int8

const (
	// Decimal renders plain decimal numbers.
	Decimal DisplayMode = iota
	// Hex renders positive integers in base 16 with prefix 0x.
	Hex
	// Octal renders positive integers in base 8 with prefix 0o.
	Octal
	// Binary renders positive integers in base 2 with prefix 0b.
	Binary
	// Grouped renders decimal numbers with commas between thousands.
	Grouped
	// Scientific renders decimal numbers, switching to exponent notation
	// for large and small magnitudes.
	Scientific
)

// modeNames are the operator names that select each mode.
var modeNames = [...]string{
	Decimal:    "dec",
	Hex:        "hex",
	Octal:      "oct",
	Binary:     "bin",
	Grouped:    "com",
	Scientific: "eng",
}

func (d DisplayMode) String() string {
	if d < 0 || int(d) >= len(modeNames) {
		return "DisplayMode(" + strconv.Itoa(int(d)) + ")"
	}
	return modeNames[d]
}

// ParseDisplayMode returns the mode selected by one of the names dec, hex,
// oct, bin, com, or eng.
func ParseDisplayMode(name string) (DisplayMode, error) {
	for d, s := range modeNames {
		if s == name {
			return DisplayMode(d), nil
		}
	}
	return Decimal, &OperandError{Op: "display", Reason: "unknown display mode " + strconv.Quote(name)}
}

// Format renders a single number in the mode.
func (d DisplayMode) Format(x Num) string {
	switch d {
	case Hex:
		return FormatBase(x, 16, HexPrefix)
	case Octal:
		return FormatBase(x, 8, OctPrefix)
	case Binary:
		return FormatBase(x, 2, BinPrefix)
	case Grouped:
		return Group(x.Text('f'))
	case Scientific:
		return x.Text('g')
	default:
		return x.Text('f')
	}
}
