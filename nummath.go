package mancalc

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// guard is the number of extra mantissa bits used by functions computed in
// binary floating-point before rounding back to decimal.
const guard = 64

// guardDigits is the number of extra decimal digits carried by operations
// that round more than once.
const guardDigits = 20

// maxIntPow is the largest integer exponent computed by repeated squaring.
const maxIntPow = 1 << 24

// catchNaN converts a big.ErrNaN panic from package big or bigfloat into a
// NaN result. Other panics propagate.
func catchNaN(r *Num) {
	v := recover()
	if v == nil {
		return
	}
	if _, ok := v.(big.ErrNaN); ok {
		*r = NaN()
		return
	}
	panic(v)
}

func maxprec(x, y Num) uint {
	p, q := x.Prec(), y.Prec()
	if q > p {
		return q
	}
	return p
}

// Add returns x+y.
func (x Num) Add(y Num) Num {
	p := maxprec(x, y)
	switch {
	case x.nan || y.nan:
		return NaN()
	case x.inf != 0 && y.inf != 0 && x.inf != y.inf:
		return NaN()
	case x.inf != 0:
		return x
	case y.inf != 0:
		return y
	case x.c == nil:
		return y.round(p)
	case y.c == nil:
		return x.round(p)
	}
	// An operand too small to reach the last digit of the other can't
	// change the rounded sum.
	switch d := x.adj() - y.adj(); {
	case d > int(p)+1:
		return x.round(p)
	case d < -int(p)-1:
		return y.round(p)
	}
	cx, cy, e := align(x, y)
	return newNum(cx.Add(cx, cy), e, p)
}

// Sub returns x-y.
func (x Num) Sub(y Num) Num {
	return x.Add(y.Neg())
}

// Mul returns x*y.
func (x Num) Mul(y Num) Num {
	p := maxprec(x, y)
	switch {
	case x.nan || y.nan:
		return NaN()
	case x.inf != 0 || y.inf != 0:
		s := x.Sign() * y.Sign()
		if s == 0 {
			return NaN()
		}
		return Inf(s)
	case x.c == nil || y.c == nil:
		return Num{prec: p}
	}
	return newNum(new(big.Int).Mul(x.c, y.c), x.exp+y.exp, p)
}

// Quo returns x/y. Division by zero is NaN.
func (x Num) Quo(y Num) Num {
	p := maxprec(x, y)
	switch {
	case x.nan || y.nan || y.Sign() == 0:
		return NaN()
	case x.inf != 0 && y.inf != 0:
		return NaN()
	case x.inf != 0:
		return Inf(x.Sign() * y.Sign())
	case y.inf != 0 || x.c == nil:
		return Num{prec: p}
	}
	// Scale x so the quotient has at least p+1 digits, then mark a nonzero
	// remainder with a sticky digit so that rounding sees it.
	k := int(p) + 1 + digits(y.c) - digits(x.c)
	if k < 0 {
		k = 0
	}
	q := new(big.Int).Mul(x.c, pow10(k))
	q, r := q.QuoRem(q, y.c, new(big.Int))
	e := x.exp - y.exp - k
	if r.Sign() != 0 {
		sticky(q)
		e--
	}
	return newNum(q, e, p)
}

// sticky appends a digit 1 to the nonzero truncated quotient q, away from
// zero.
func sticky(q *big.Int) {
	q.Mul(q, bigTen)
	if q.Sign() < 0 {
		q.Sub(q, bigOne)
	} else {
		q.Add(q, bigOne)
	}
}

// Mod returns the floored modulus x - floor(x/y)*y, which has the sign of y.
// A zero modulus is NaN. The result is exact before rounding to precision,
// however far apart the magnitudes of x and y are.
func (x Num) Mod(y Num) Num {
	p := maxprec(x, y)
	switch {
	case x.nan, y.nan, y.Sign() == 0, x.IsInf():
		return NaN()
	case y.IsInf():
		if x.Sign() == 0 || x.Sign() == y.Sign() {
			return x
		}
		return y
	case x.c == nil:
		return x.round(p)
	}
	if cmpAbs(x, y) < 0 {
		if x.Sign() == y.Sign() {
			return x.round(p)
		}
		return x.Add(y)
	}
	// Since |x| >= |y|, y's exponent exceeds x's by at most x's digits.
	// A larger exponent of x is reduced as a power of ten modulo y.
	a := new(big.Int).Abs(x.c)
	b := new(big.Int).Abs(y.c)
	e := x.exp
	switch {
	case x.exp > y.exp:
		e = y.exp
		a.Mod(a, b)
		a.Mul(a, new(big.Int).Exp(bigTen, big.NewInt(int64(x.exp-y.exp)), b))
	case y.exp > x.exp:
		b.Mul(b, pow10(y.exp-x.exp))
	}
	t := a.Mod(a, b)
	if t.Sign() != 0 && x.Sign() != y.Sign() {
		t.Sub(b, t)
	}
	if y.Sign() < 0 {
		t.Neg(t)
	}
	return newNum(t, e, p)
}

// Neg returns -x.
func (x Num) Neg() Num {
	switch {
	case x.nan, x.c == nil && x.inf == 0:
		return x
	case x.inf != 0:
		return Inf(-int(x.inf))
	}
	x.c = new(big.Int).Neg(x.c)
	return x
}

// Abs returns |x|.
func (x Num) Abs() Num {
	if x.Sign() < 0 {
		return x.Neg()
	}
	return x
}

// split returns the integer part of a finite non-integer x, truncated toward
// zero, and how the discarded fraction compares with one half.
func (x Num) split() (*big.Int, int) {
	k := -x.exp
	if k > digits(x.c) {
		// |x| < 0.1
		return new(big.Int), -1
	}
	unit := pow10(k)
	i, r := new(big.Int).QuoRem(x.c, unit, new(big.Int))
	return i, r.Abs(r).Lsh(r, 1).Cmp(unit)
}

// rounder applies f to the integer part and fraction comparison of x. NaN,
// infinities, and integers are returned as they are.
func rounder(x Num, f func(i *big.Int, neg bool, half int)) Num {
	if x.nan || x.inf != 0 || x.exp >= 0 {
		return x
	}
	i, half := x.split()
	f(i, x.c.Sign() < 0, half)
	return newNum(i, 0, x.Prec())
}

// Trunc returns x rounded toward zero.
func (x Num) Trunc() Num {
	return rounder(x, func(*big.Int, bool, int) {})
}

// Floor returns the greatest integer not greater than x.
func (x Num) Floor() Num {
	return rounder(x, func(i *big.Int, neg bool, _ int) {
		if neg {
			i.Sub(i, bigOne)
		}
	})
}

// Ceil returns the least integer not less than x.
func (x Num) Ceil() Num {
	return rounder(x, func(i *big.Int, neg bool, _ int) {
		if !neg {
			i.Add(i, bigOne)
		}
	})
}

// Round returns the nearest integer to x, rounding halves away from zero.
func (x Num) Round() Num {
	return rounder(x, func(i *big.Int, neg bool, half int) {
		switch {
		case half < 0:
		case neg:
			i.Sub(i, bigOne)
		default:
			i.Add(i, bigOne)
		}
	})
}

// Frac returns x - trunc(x).
func (x Num) Frac() Num {
	if x.IsInf() {
		return NaN()
	}
	return x.Sub(x.Trunc())
}

// Sqrt returns the square root of x. Negative numbers give NaN.
func (x Num) Sqrt() Num {
	switch {
	case x.nan, x.Sign() < 0:
		return NaN()
	case x.c == nil, x.inf != 0:
		return x
	}
	p := x.Prec()
	// Scale to an even exponent and at least 2p+2 digits so that the root
	// has p+1.
	k := 2*int(p) + 2 - digits(x.c)
	if k < 0 {
		k = 0
	}
	if (x.exp-k)%2 != 0 {
		k++
	}
	n := new(big.Int).Mul(x.c, pow10(k))
	s := new(big.Int).Sqrt(n)
	e := (x.exp - k) / 2
	if new(big.Int).Mul(s, s).Cmp(n) != 0 {
		sticky(s)
		e--
	}
	return newNum(s, e, p)
}

// Pow returns x**y. Integer exponents are computed by repeated squaring in
// decimal so that exactly representable results are exact.
func (x Num) Pow(y Num) (r Num) {
	p := maxprec(x, y)
	switch {
	case x.nan, y.nan:
		return NaN()
	case y.Sign() == 0:
		return IntNum(1, p)
	case x.IsInf(), y.IsInf():
		return powInf(x, y, p)
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return Inf(1)
		}
		return IntNum(0, p)
	}
	if n, ok := y.int64(); ok && n <= maxIntPow && n >= -maxIntPow {
		return intPow(x, n, p)
	}
	defer catchNaN(&r)
	w := bits(p) + guard
	neg := false
	b := x.toFloat(w)
	if b.Sign() < 0 {
		if !y.IsInt() {
			return NaN()
		}
		neg = y.odd()
		b.Neg(b)
	}
	z := bigfloat.Pow(new(big.Float).SetPrec(w), b, y.toFloat(w))
	if neg {
		z.Neg(z)
	}
	return fromFloat(z, p)
}

func intPow(x Num, n int64, p uint) Num {
	w := p + guardDigits
	inv := n < 0
	if inv {
		n = -n
	}
	r, b := IntNum(1, w), x.round(w)
	for n > 0 {
		if n%2 == 1 {
			r = r.Mul(b)
		}
		n /= 2
		if n > 0 {
			b = b.Mul(b)
		}
	}
	if inv {
		r = IntNum(1, w).Quo(r)
	}
	return r.round(p)
}

// powInf handles x**y when either is infinite and neither is NaN or y = 0.
func powInf(x, y Num, p uint) Num {
	if y.IsInf() {
		c := x.Abs().Cmp(IntNum(1, p))
		switch {
		case c == 0:
			return IntNum(1, p)
		case (c > 0) == (y.Sign() > 0):
			return Inf(1)
		default:
			return IntNum(0, p)
		}
	}
	// x is infinite, y is finite and nonzero.
	if y.Sign() < 0 {
		return IntNum(0, p)
	}
	if x.Sign() < 0 && y.IsInt() && y.odd() {
		return Inf(-1)
	}
	return Inf(1)
}

// expLimit bounds arguments to exp beyond which the result overflows or
// underflows the exponent range of big.Float.
var expLimit = big.NewFloat(1.4e9)

// expFloat sets z to e**x at z's precision.
func expFloat(z, x *big.Float) *big.Float {
	if new(big.Float).Abs(x).Cmp(expLimit) > 0 {
		if x.Sign() > 0 {
			return z.SetInf(false)
		}
		return z.SetInt64(0)
	}
	return bigfloat.Exp(z, x)
}

// Exp returns e**x.
func (x Num) Exp() (r Num) {
	p := x.Prec()
	switch {
	case x.nan:
		return x
	case x.IsInf() && x.Sign() > 0:
		return x
	case x.IsInf():
		return IntNum(0, p)
	case x.c == nil:
		return IntNum(1, p)
	}
	defer catchNaN(&r)
	w := bits(p) + guard
	return fromFloat(expFloat(new(big.Float).SetPrec(w), x.toFloat(w)), p)
}

// lnFloat sets z to the natural log of a positive finite x.
func lnFloat(z, x *big.Float) *big.Float {
	return bigfloat.Log(z, x)
}

func logarithm(x Num, post func(z *big.Float, w uint)) (r Num) {
	switch {
	case x.nan, x.Sign() < 0:
		return NaN()
	case x.Sign() == 0:
		return Inf(-1)
	case x.IsInf():
		return x
	}
	defer catchNaN(&r)
	p := x.Prec()
	w := bits(p) + guard
	z := lnFloat(new(big.Float).SetPrec(w), x.toFloat(w))
	if post != nil {
		post(z, w)
	}
	return fromFloat(z, p)
}

// Ln returns the natural logarithm of x.
func (x Num) Ln() Num {
	return logarithm(x, nil)
}

// Log10 returns the base-10 logarithm of x. Powers of ten give exact
// integers.
func (x Num) Log10() Num {
	if x.Sign() > 0 && x.inf == 0 && x.c.Cmp(bigOne) == 0 {
		return IntNum(int64(x.exp), x.Prec())
	}
	return logarithm(x, func(z *big.Float, w uint) {
		ten := new(big.Float).SetPrec(w).SetInt64(10)
		z.Quo(z, lnFloat(new(big.Float).SetPrec(w), ten))
	})
}

// hyper computes sinh, cosh, or tanh from e**x and e**-x.
func hyper(x Num, f func(z, ep, en *big.Float)) (r Num) {
	if x.nan {
		return x
	}
	defer catchNaN(&r)
	p := x.Prec()
	w := bits(p) + guard
	ep := new(big.Float).SetPrec(w)
	en := new(big.Float).SetPrec(w)
	switch {
	case x.inf > 0:
		ep.SetInf(false)
	case x.inf < 0:
		en.SetInf(false)
	default:
		xf := x.toFloat(w)
		expFloat(ep, xf)
		expFloat(en, xf.Neg(xf))
	}
	z := new(big.Float).SetPrec(w)
	f(z, ep, en)
	return fromFloat(z, p)
}

// Sinh returns the hyperbolic sine of x.
func (x Num) Sinh() Num {
	return hyper(x, func(z, ep, en *big.Float) {
		z.Sub(ep, en)
		z.Quo(z, big.NewFloat(2))
	})
}

// Cosh returns the hyperbolic cosine of x.
func (x Num) Cosh() Num {
	return hyper(x, func(z, ep, en *big.Float) {
		z.Add(ep, en)
		z.Quo(z, big.NewFloat(2))
	})
}

// Tanh returns the hyperbolic tangent of x.
func (x Num) Tanh() Num {
	return hyper(x, func(z, ep, en *big.Float) {
		switch {
		case ep.IsInf():
			z.SetInt64(1)
		case en.IsInf():
			z.SetInt64(-1)
		default:
			d := new(big.Float).SetPrec(z.Prec()).Add(ep, en)
			z.Sub(ep, en)
			z.Quo(z, d)
		}
	})
}

// Frexp splits x into a mantissa with 0.5 <= |mant| < 1 and a binary exponent
// such that x = mant × 2**exp. Zero, infinities, and NaN return themselves
// with exponent 0.
func (x Num) Frexp() (Num, int) {
	if x.nan || x.inf != 0 || x.c == nil {
		return x, 0
	}
	p := x.Prec()
	w := bits(p) + guard
	mant := new(big.Float).SetPrec(w)
	exp := x.toFloat(w).MantExp(mant)
	return fromFloat(mant, p), exp
}
