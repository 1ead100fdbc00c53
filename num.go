package mancalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// DefaultPrec is the number of significant decimal digits of values created
// by a Machine that was not given a Prec option.
const DefaultPrec = 1024

// maxExp bounds the decimal exponent of finite values. Larger results
// overflow to an infinity and smaller ones underflow to zero. It keeps every
// finite value within the exponent range of big.Float.
const maxExp = 1 << 29

const (
	log10of2 = 0.30102999566398119521
	log2of10 = 3.32192809488736234787
)

// Num is an immutable arbitrary-precision decimal number with a fixed number
// of significant digits. Operations which have no real result, such as 0/0
// or the square root of a negative number, produce NaN rather than an error.
// The zero value is 0.
type Num struct {
	// The value is c × 10**exp. c has no trailing zero digits and is never
	// modified once the Num holding it has been created. nil is zero.
	c    *big.Int
	exp  int
	prec uint
	// inf is 1 or -1 for the infinities.
	inf int8
	nan bool
}

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

// pow10 returns 10**n for n >= 0.
func pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// digits returns the number of decimal digits in |c|, which is not zero.
func digits(c *big.Int) int {
	// The estimate from the bit length is exact or one short.
	d := int(float64(c.BitLen()-1)*log10of2) + 1
	if c.CmpAbs(pow10(d)) >= 0 {
		d++
	}
	return d
}

// roundCoef rounds c × 10**exp to prec significant digits, half to even.
func roundCoef(c *big.Int, exp int, prec uint) (*big.Int, int) {
	k := digits(c) - int(prec)
	if k <= 0 {
		return c, exp
	}
	unit := pow10(k)
	q, r := new(big.Int).QuoRem(c, unit, new(big.Int))
	half := r.Abs(r).Lsh(r, 1).Cmp(unit)
	if half > 0 || half == 0 && q.Bit(0) == 1 {
		if c.Sign() < 0 {
			q.Sub(q, bigOne)
		} else {
			q.Add(q, bigOne)
		}
	}
	return q, exp + k
}

// trim removes trailing zero digits from c.
func trim(c *big.Int, exp int) (*big.Int, int) {
	var q, r big.Int
	for {
		q.QuoRem(c, bigTen, &r)
		if r.Sign() != 0 {
			return c, exp
		}
		c = new(big.Int).Set(&q)
		exp++
	}
}

// newNum returns c × 10**exp rounded to prec digits. The result may hold c,
// so the caller must not modify it afterward.
func newNum(c *big.Int, exp int, prec uint) Num {
	if prec == 0 {
		prec = DefaultPrec
	}
	if c.Sign() == 0 {
		return Num{prec: prec}
	}
	c, exp = roundCoef(c, exp, prec)
	c, exp = trim(c, exp)
	switch a := exp + digits(c) - 1; {
	case a > maxExp:
		return Inf(c.Sign())
	case a < -maxExp:
		return Num{prec: prec}
	}
	return Num{c: c, exp: exp, prec: prec}
}

// NaN returns a Num that is not a number.
func NaN() Num {
	return Num{nan: true}
}

// Inf returns positive infinity if sign >= 0 and negative infinity otherwise.
func Inf(sign int) Num {
	if sign < 0 {
		return Num{inf: -1}
	}
	return Num{inf: 1}
}

// IntNum returns n with the given precision in decimal digits.
func IntNum(n int64, prec uint) Num {
	return newNum(big.NewInt(n), 0, prec)
}

// FloatNum returns the shortest decimal that reads back as x, with the given
// precision in decimal digits.
func FloatNum(x float64, prec uint) Num {
	switch {
	case math.IsNaN(x):
		return NaN()
	case math.IsInf(x, 0):
		return Inf(int(math.Copysign(1, x)))
	}
	r, _ := ParseNum(strconv.FormatFloat(x, 'g', -1, 64), prec)
	return r
}

// ParseNum parses a decimal literal such as "12", "-0.5", ".25", or "1e-9",
// rounding it to prec significant digits. The words inf and nan are also
// accepted.
func ParseNum(s string, prec uint) (Num, error) {
	switch strings.ToLower(s) {
	case "nan", "+nan", "-nan":
		return NaN(), nil
	case "∞", "+∞", "inf", "+inf":
		return Inf(1), nil
	case "-∞", "-inf":
		return Inf(-1), nil
	}
	bad := func() (Num, error) {
		return Num{}, &strconv.NumError{Func: "ParseNum", Num: s, Err: strconv.ErrSyntax}
	}
	mant, exps := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mant, exps = s[:i], s[i+1:]
		if exps == "" {
			return bad()
		}
	}
	neg := false
	switch {
	case strings.HasPrefix(mant, "-"):
		neg, mant = true, mant[1:]
	case strings.HasPrefix(mant, "+"):
		mant = mant[1:]
	}
	ip, fp, _ := strings.Cut(mant, ".")
	if ip == "" && fp == "" || !allDigits(ip) || !allDigits(fp) {
		return bad()
	}
	c, _ := new(big.Int).SetString(ip+fp, 10)
	if neg {
		c.Neg(c)
	}
	exp := -len(fp)
	if exps != "" {
		e, err := strconv.Atoi(exps)
		if err != nil {
			ne, ok := err.(*strconv.NumError)
			if !ok || ne.Err != strconv.ErrRange {
				return bad()
			}
			// An exponent too long for an int is still a number.
			if c.Sign() == 0 || exps[0] == '-' {
				return Num{prec: prec}, nil
			}
			return Inf(c.Sign()), nil
		}
		// Clamp so that exp can't overflow; newNum does the real check.
		switch {
		case e > 4*maxExp:
			e = 4 * maxExp
		case e < -4*maxExp:
			e = -4 * maxExp
		}
		exp += e
	}
	return newNum(c, exp, prec), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// bits returns the number of mantissa bits that hold prec decimal digits.
func bits(prec uint) uint {
	return uint(math.Ceil(float64(prec) * log2of10))
}

// toFloat returns x as a big.Float with precision w. x must not be NaN.
func (x Num) toFloat(w uint) *big.Float {
	z := new(big.Float).SetPrec(w)
	switch {
	case x.inf != 0:
		return z.SetInf(x.inf < 0)
	case x.c == nil:
		return z
	}
	if _, _, err := z.Parse(x.c.String()+"e"+strconv.Itoa(x.exp), 10); err != nil {
		// Only exponent overflow is possible, and maxExp rules it out.
		if x.exp > 0 {
			return z.SetInf(x.c.Sign() < 0)
		}
		return z.SetInt64(0)
	}
	return z
}

// fromFloat rounds z to prec decimal digits.
func fromFloat(z *big.Float, prec uint) Num {
	switch {
	case z.IsInf():
		return Inf(z.Sign())
	case z.Sign() == 0:
		return Num{prec: prec}
	}
	// Writing a float in decimal takes time in proportion to its binary
	// exponent, so bring it near 1 first.
	e10 := 0
	if e2 := z.MantExp(nil); e2 > 256 || e2 < -256 {
		e10 = int(float64(e2) * log10of2)
		w := z.Prec() + guard
		s := new(big.Float).SetPrec(w)
		if _, _, err := s.Parse("1e"+strconv.Itoa(e10), 10); err != nil {
			return NaN()
		}
		z = new(big.Float).SetPrec(w).Quo(z, s)
	}
	x, err := ParseNum(z.Text('e', int(prec)-1), prec)
	if err != nil || x.c == nil || e10 == 0 {
		return x
	}
	return newNum(x.c, x.exp+e10, prec)
}

// adj returns the exponent of the leading digit of a finite nonzero x.
func (x Num) adj() int {
	return x.exp + digits(x.c) - 1
}

// round returns x rounded to prec digits.
func (x Num) round(prec uint) Num {
	if x.nan || x.inf != 0 {
		return x
	}
	if x.c == nil {
		return Num{prec: prec}
	}
	return newNum(x.c, x.exp, prec)
}

// bigInt returns the value of an integer x.
func (x Num) bigInt() *big.Int {
	if x.c == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(x.c, pow10(x.exp))
}

// int64 returns an integer x as an int64, reporting whether it fits.
func (x Num) int64() (int64, bool) {
	switch {
	case !x.IsInt():
		return 0, false
	case x.c == nil:
		return 0, true
	case x.exp > 18:
		return 0, false
	}
	i := x.bigInt()
	return i.Int64(), i.IsInt64()
}

// odd reports whether an integer x is odd.
func (x Num) odd() bool {
	return x.c != nil && x.exp == 0 && x.c.Bit(0) == 1
}

// Float64 returns the nearest float64 to x.
func (x Num) Float64() float64 {
	switch {
	case x.nan:
		return math.NaN()
	case x.inf != 0:
		return math.Inf(int(x.inf))
	case x.c == nil:
		return 0
	}
	f, _ := strconv.ParseFloat(x.c.String()+"e"+strconv.Itoa(x.exp), 64)
	return f
}

// Prec returns the precision of x in decimal digits.
func (x Num) Prec() uint {
	if x.prec == 0 {
		return DefaultPrec
	}
	return x.prec
}

// IsNaN reports whether x is not a number.
func (x Num) IsNaN() bool {
	return x.nan
}

// IsInf reports whether x is an infinity.
func (x Num) IsInf() bool {
	return x.inf != 0
}

// IsInt reports whether x is a finite integer.
func (x Num) IsInt() bool {
	return !x.nan && x.inf == 0 && x.exp >= 0
}

// Sign returns -1, 0, or 1 according to the sign of x. NaN has sign 0.
func (x Num) Sign() int {
	switch {
	case x.nan:
		return 0
	case x.inf != 0:
		return int(x.inf)
	case x.c == nil:
		return 0
	}
	return x.c.Sign()
}

// Cmp compares x and y exactly, returning -1, 0, or 1. NaN compares equal to
// NaN and less than every other value so that Cmp is a total order.
func (x Num) Cmp(y Num) int {
	switch {
	case x.nan && y.nan:
		return 0
	case x.nan:
		return -1
	case y.nan:
		return 1
	}
	sx, sy := x.Sign(), y.Sign()
	switch {
	case sx < sy:
		return -1
	case sx > sy:
		return 1
	case sx == 0:
		return 0
	case x.inf == y.inf && x.inf != 0:
		return 0
	case x.inf != 0:
		return sx
	case y.inf != 0:
		return -sx
	}
	return sx * cmpAbs(x, y)
}

// cmpAbs compares |x| and |y| for finite nonzero x and y.
func cmpAbs(x, y Num) int {
	ax, ay := x.adj(), y.adj()
	switch {
	case ax < ay:
		return -1
	case ax > ay:
		return 1
	}
	// With equal leading exponents, the scale is at most the digit count.
	cx, cy, _ := align(x, y)
	return cx.CmpAbs(cy)
}

// align returns new coefficients of x and y scaled to their common exponent.
func align(x, y Num) (*big.Int, *big.Int, int) {
	cx, cy := new(big.Int).Set(x.c), new(big.Int).Set(y.c)
	switch {
	case x.exp > y.exp:
		cx.Mul(cx, pow10(x.exp-y.exp))
		return cx, cy, y.exp
	case y.exp > x.exp:
		cy.Mul(cy, pow10(y.exp-x.exp))
	}
	return cx, cy, x.exp
}

// Equal reports whether x and y are the same number. NaN equals nothing.
func (x Num) Equal(y Num) bool {
	return !x.nan && !y.nan && x.Cmp(y) == 0
}

// String formats x as a plain decimal with no trailing zeros.
func (x Num) String() string {
	return x.Text('f')
}

// Text formats x with all of its digits. Format 'f' writes plain decimals
// unless the number can't be written in full within its precision, 'e'
// always uses an exponent, and 'g' uses an exponent for exponents below -4
// or above 5. NaN and infinities are spelled nan, inf, and -inf.
func (x Num) Text(format byte) string {
	switch {
	case x.nan:
		return "nan"
	case x.inf > 0:
		return "inf"
	case x.inf < 0:
		return "-inf"
	case x.c == nil:
		return "0"
	}
	d := x.c.String()
	sign := ""
	if d[0] == '-' {
		sign, d = "-", d[1:]
	}
	e := x.exp + len(d) - 1
	var sci bool
	switch format {
	case 'e':
		sci = true
	case 'g':
		sci = e < -4 || e > 5
	default:
		p := int(x.Prec())
		sci = e >= p || e < -p
	}
	if sci {
		return sign + expText(d, e)
	}
	return sign + plainText(d, e)
}

// plainText writes digits d with the leading digit at 10**e.
func plainText(d string, e int) string {
	switch {
	case e < 0:
		return "0." + strings.Repeat("0", -e-1) + d
	case len(d) <= e+1:
		return d + strings.Repeat("0", e+1-len(d))
	}
	return d[:e+1] + "." + d[e+1:]
}

// expText writes digits d with the leading digit at 10**e as d.ddde±XX.
func expText(d string, e int) string {
	var b strings.Builder
	b.WriteString(d[:1])
	if len(d) > 1 {
		b.WriteByte('.')
		b.WriteString(d[1:])
	}
	b.WriteByte('e')
	if e < 0 {
		b.WriteByte('-')
		e = -e
	} else {
		b.WriteByte('+')
	}
	if e < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(e))
	return b.String()
}
