package mancalc

import "strings"

// Prefixes written before numbers in the non-decimal display modes.
const (
	HexPrefix = "0x"
	OctPrefix = "0o"
	BinPrefix = "0b"
)

// FormatBase writes x in the given base with lowercase digits after prefix.
// Values which are not positive integers, including NaN and infinities, are
// written as the prefix followed by a single 0.
func FormatBase(x Num, base int, prefix string) string {
	if !x.IsInt() || x.Sign() <= 0 {
		return prefix + "0"
	}
	return prefix + x.bigInt().Text(base)
}

// Group inserts a comma every three digits of the integer part of a decimal
// string, counting from the ones place. A sign, fraction, or exponent is
// left as it is.
func Group(s string) string {
	sign := ""
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	n := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if n < 0 {
		n = len(s)
	}
	digits, rest := s[:n], s[n:]
	if len(digits) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(sign) + len(s) + len(digits)/3)
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(rest)
	return b.String()
}
