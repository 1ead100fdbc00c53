package mancalc

import (
	"math/big"
	"strings"
)

// radix describes a non-decimal literal form.
type radix struct {
	base     int
	prefixes []string
}

// radixes are checked in order. The first matching prefix decides the base.
var radixes = []radix{
	{16, []string{"x", "h", "0x", "0h"}},
	{8, []string{"o", "0o"}},
	{2, []string{"b", "0b"}},
}

const digitChars = "0123456789abcdef"

// parseLiteral reads a lowercase token as a number. Commas may separate
// digits in any base.
func parseLiteral(s string, prec uint) (Num, error) {
	d := strings.ReplaceAll(s, ",", "")
	for _, r := range radixes {
		for _, p := range r.prefixes {
			if strings.HasPrefix(d, p) {
				return parseBased(d[len(p):], r.base, prec)
			}
		}
	}
	x, err := ParseNum(d, prec)
	if err != nil {
		return Num{}, &LiteralError{Text: s, Base: 10, Col: -1, Reason: "not a number or operator"}
	}
	return x, nil
}

// parseBased reads digits in base with an optional fraction. The integer
// part is summed from its last digit with weights base**k and the fraction
// from its first digit with weights base**-k. Fractions in these bases are
// finite decimals, so the result is exact when it fits in prec digits.
func parseBased(s string, base int, prec uint) (Num, error) {
	parts := strings.Split(s, ".")
	switch {
	case len(parts) > 2:
		return Num{}, &LiteralError{Text: s, Base: base, Col: len(parts[0]) + len(parts[1]) + 1, Reason: "more than one point"}
	case s == "" || s == ".":
		return Num{}, &LiteralError{Text: s, Base: base, Col: -1, Reason: "no digits"}
	}
	b := big.NewInt(int64(base))
	whole := new(big.Int)
	weight := big.NewInt(1)
	var t big.Int
	ip := parts[0]
	for k := len(ip) - 1; k >= 0; k-- {
		v := strings.IndexByte(digitChars[:base], ip[k])
		if v < 0 {
			return Num{}, badDigit(s, base, k)
		}
		whole.Add(whole, t.Mul(weight, big.NewInt(int64(v))))
		weight.Mul(weight, b)
	}
	if len(parts) == 1 {
		return newNum(whole, 0, prec), nil
	}
	// The fraction is num / base**len, summed exactly and divided once.
	fp := parts[1]
	num := new(big.Int)
	den := big.NewInt(1)
	for k := 0; k < len(fp); k++ {
		v := strings.IndexByte(digitChars[:base], fp[k])
		if v < 0 {
			return Num{}, badDigit(s, base, len(ip)+1+k)
		}
		num.Mul(num, b)
		num.Add(num, big.NewInt(int64(v)))
		den.Mul(den, b)
	}
	f := newNum(num, 0, prec+guardDigits).Quo(newNum(den, 0, prec+guardDigits))
	return newNum(whole, 0, prec+guardDigits).Add(f).round(prec), nil
}

func badDigit(s string, base, col int) error {
	return &LiteralError{Text: s, Base: base, Col: col, Reason: "invalid digit " + string(s[col])}
}
