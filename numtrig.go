package mancalc

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Package bigfloat has no trigonometry, so the circular functions here are
// power series evaluated at guard precision.

// Pi returns π to the given precision.
func Pi(prec uint) Num {
	return fromFloat(piFloat(bits(prec)+guard), prec)
}

// E returns e to the given precision.
func E(prec uint) Num {
	return IntNum(1, prec).Exp()
}

func piFloat(prec uint) *big.Float {
	return bigfloat.Pi(new(big.Float).SetPrec(prec))
}

// small reports whether t is below 2**-w in magnitude.
func small(t *big.Float, w uint) bool {
	return t.Sign() == 0 || t.MantExp(nil) < -int(w)-8
}

// maxReduce is the largest binary magnitude of an argument to the circular
// functions. Reducing a larger argument modulo 2π costs too much, and its
// result is NaN.
const maxReduce = 1 << 16

// reduce returns x - k·2π for the integer k nearest x/2π, at precision w. It
// fails for arguments above 2**maxReduce.
func reduce(x Num, w uint) (*big.Float, bool) {
	// Reducing a large argument costs one bit per binary order of magnitude.
	wr := w
	if x.c != nil {
		if a := x.adj(); a > 0 {
			e := uint(float64(a+1) * log2of10)
			if e > maxReduce {
				return nil, false
			}
			wr += e
		}
	}
	xf := x.toFloat(wr)
	twopi := piFloat(wr)
	twopi.SetMantExp(twopi, 1)
	k := new(big.Float).SetPrec(wr).Quo(xf, twopi)
	if !k.IsInt() {
		i, _ := k.Int(nil)
		f := new(big.Float).SetPrec(wr).Sub(k, new(big.Float).SetInt(i))
		if f.Abs(f).Cmp(big.NewFloat(0.5)) >= 0 {
			if k.Sign() < 0 {
				i.Sub(i, bigOne)
			} else {
				i.Add(i, bigOne)
			}
		}
		k.SetInt(i)
	}
	r := new(big.Float).SetPrec(wr).Mul(k, twopi)
	r.Sub(xf, r)
	return r.SetPrec(w), true
}

// sinSeries sums x - x³/3! + x⁵/5! - ... for |x| <= π.
func sinSeries(x *big.Float, w uint) *big.Float {
	sum := new(big.Float).SetPrec(w).Set(x)
	term := new(big.Float).SetPrec(w).Set(x)
	x2 := new(big.Float).SetPrec(w).Mul(x, x)
	d := new(big.Float).SetPrec(w)
	for n := int64(1); !small(term, w); n++ {
		term.Mul(term, x2)
		term.Neg(term)
		term.Quo(term, d.SetInt64((2*n)*(2*n+1)))
		sum.Add(sum, term)
	}
	return sum
}

// cosSeries sums 1 - x²/2! + x⁴/4! - ... for |x| <= π.
func cosSeries(x *big.Float, w uint) *big.Float {
	sum := new(big.Float).SetPrec(w).SetInt64(1)
	term := new(big.Float).SetPrec(w).SetInt64(1)
	x2 := new(big.Float).SetPrec(w).Mul(x, x)
	d := new(big.Float).SetPrec(w)
	for n := int64(1); !small(term, w); n++ {
		term.Mul(term, x2)
		term.Neg(term)
		term.Quo(term, d.SetInt64((2*n-1)*(2*n)))
		sum.Add(sum, term)
	}
	return sum
}

// atanFloat computes the arctangent of a finite x at precision w.
func atanFloat(x *big.Float, w uint) *big.Float {
	if x.Sign() == 0 {
		return new(big.Float).SetPrec(w)
	}
	a := new(big.Float).SetPrec(w).Abs(x)
	inv := a.Cmp(big.NewFloat(1)) > 0
	if inv {
		a.Quo(new(big.Float).SetPrec(w).SetInt64(1), a)
	}
	// atan(a) = 2·atan(a / (1 + sqrt(1 + a²))); shrink a until the series
	// converges quickly.
	k := 0
	one := new(big.Float).SetPrec(w).SetInt64(1)
	t := new(big.Float).SetPrec(w)
	for a.Sign() != 0 && a.MantExp(nil) > -10 {
		t.Mul(a, a)
		t.Add(t, one)
		t.Sqrt(t)
		t.Add(t, one)
		a.Quo(a, t)
		k++
	}
	sum := new(big.Float).SetPrec(w).Set(a)
	pow := new(big.Float).SetPrec(w).Set(a)
	a2 := new(big.Float).SetPrec(w).Mul(a, a)
	d := new(big.Float).SetPrec(w)
	for n := int64(1); ; n++ {
		pow.Mul(pow, a2)
		pow.Neg(pow)
		t.Quo(pow, d.SetInt64(2*n+1))
		if small(t, w) {
			break
		}
		sum.Add(sum, t)
	}
	sum.SetMantExp(sum, k)
	if inv {
		half := piFloat(w)
		half.SetMantExp(half, -1)
		sum.Sub(half, sum)
	}
	if x.Sign() < 0 {
		sum.Neg(sum)
	}
	return sum
}

func circular(x Num, f func(r *big.Float, w uint) *big.Float) (r Num) {
	if x.nan || x.IsInf() {
		return NaN()
	}
	defer catchNaN(&r)
	p := x.Prec()
	w := bits(p) + guard
	t, ok := reduce(x, w)
	if !ok {
		return NaN()
	}
	return fromFloat(f(t, w), p)
}

// Sin returns the sine of x in radians.
func (x Num) Sin() Num {
	return circular(x, sinSeries)
}

// Cos returns the cosine of x in radians.
func (x Num) Cos() Num {
	return circular(x, cosSeries)
}

// Tan returns the tangent of x in radians.
func (x Num) Tan() Num {
	return circular(x, func(r *big.Float, w uint) *big.Float {
		s := sinSeries(r, w)
		return s.Quo(s, cosSeries(r, w))
	})
}

// Atan returns the arctangent of x in radians.
func (x Num) Atan() (r Num) {
	p := x.Prec()
	switch {
	case x.nan:
		return x
	case x.IsInf():
		h := Pi(p).Quo(IntNum(2, p))
		if x.Sign() < 0 {
			return h.Neg()
		}
		return h
	}
	defer catchNaN(&r)
	w := bits(p) + guard
	return fromFloat(atanFloat(x.toFloat(w), w), p)
}

// Asin returns the arcsine of x in radians. Arguments outside [-1, 1] give
// NaN.
func (x Num) Asin() (r Num) {
	p := x.Prec()
	one := IntNum(1, p)
	switch c := x.Abs().Cmp(one); {
	case x.nan, c > 0:
		return NaN()
	case c == 0:
		h := Pi(p).Quo(IntNum(2, p))
		if x.Sign() < 0 {
			return h.Neg()
		}
		return h
	}
	defer catchNaN(&r)
	w := bits(p) + guard
	// asin(x) = atan(x / sqrt(1 - x²))
	xf := x.toFloat(w)
	t := new(big.Float).SetPrec(w).Mul(xf, xf)
	t.Sub(new(big.Float).SetPrec(w).SetInt64(1), t)
	t.Sqrt(t)
	t.Quo(xf, t)
	return fromFloat(atanFloat(t, w), p)
}

// Acos returns the arccosine of x in radians. Arguments outside [-1, 1] give
// NaN.
func (x Num) Acos() Num {
	a := x.Asin()
	if a.nan {
		return a
	}
	p := x.Prec()
	return Pi(p).Quo(IntNum(2, p)).Sub(a)
}

// Atan2 returns the angle of the point (x, y) in radians, where the receiver
// is y.
func (y Num) Atan2(x Num) (r Num) {
	p := maxprec(x, y)
	if x.nan || y.nan {
		return NaN()
	}
	pi := Pi(p)
	if x.IsInf() || y.IsInf() {
		// Every result is a multiple of π/4.
		var q int64
		switch {
		case x.IsInf() && y.IsInf():
			q = 1
			if x.Sign() < 0 {
				q = 3
			}
		case y.IsInf():
			q = 2
		case x.Sign() < 0:
			q = 4
		}
		r = pi.Mul(IntNum(q, p)).Quo(IntNum(4, p))
		if y.Sign() < 0 {
			r = r.Neg()
		}
		return r
	}
	switch {
	case x.Sign() == 0 && y.Sign() == 0:
		return IntNum(0, p)
	case x.Sign() == 0:
		h := pi.Quo(IntNum(2, p))
		if y.Sign() < 0 {
			return h.Neg()
		}
		return h
	}
	defer catchNaN(&r)
	w := bits(p) + guard
	t := new(big.Float).SetPrec(w).Quo(y.toFloat(w), x.toFloat(w))
	z := atanFloat(t, w)
	if x.Sign() < 0 {
		pw := piFloat(w)
		if y.Sign() < 0 {
			z.Sub(z, pw)
		} else {
			z.Add(z, pw)
		}
	}
	return fromFloat(z, p)
}
