package compress

import (
	"github.com/coinbase/sidh-go/internal/field"
	"github.com/coinbase/sidh-go/internal/isogeny"
)

// weil computes the reduced Weil pairing of order ell^e on one curve.
type weil struct {
	c   *isogeny.Curve
	ell int
	e   int
}

// miller evaluates the normalised Miller function f with divisor
// n(P) - n(O), n = ell^e, at Q as the fraction num/den. It reports false when
// Q is a zero or pole of one of the line functions, which happens only when
// Q lies in the subgroup generated by P.
func (w *weil) miller(P, Q isogeny.Point) (num, den field.Fp2, ok bool) {
	f := w.c.F
	num, den = f.One(), f.One()
	T := P
	for i := 0; i < w.e; i++ {
		var hn, hd field.Fp2
		var next isogeny.Point
		if w.ell == 2 {
			hn, hd, next = w.step2(&T, &Q)
		} else {
			hn, hd, next = w.step3(&T, &Q)
		}
		if f.IsZero(&hn) == 1 || f.IsZero(&hd) == 1 {
			return num, den, false
		}

		var t field.Fp2
		f.Sqr(&t, &num)
		if w.ell == 3 {
			f.Mul(&t, &t, &num)
		}
		f.Mul(&num, &t, &hn)
		f.Sqr(&t, &den)
		if w.ell == 3 {
			f.Mul(&t, &t, &den)
		}
		f.Mul(&den, &t, &hd)
		T = next
	}
	return num, den, true
}

// tangent returns the slope of the tangent at T, which must not be of
// order 2.
func (w *weil) tangent(T *isogeny.Point) field.Fp2 {
	f := w.c.F
	var num, den, t, one field.Fp2
	one = f.One()
	f.Sqr(&num, &T.X)
	f.Add(&t, &num, &num)
	f.Add(&num, &num, &t)
	f.Mul(&t, &w.c.A, &T.X)
	f.Add(&t, &t, &t)
	f.Add(&num, &num, &t)
	f.Add(&num, &num, &one)
	f.Add(&den, &T.Y, &T.Y)
	f.InvVartime(&den, &den)
	f.Mul(&num, &num, &den)
	return num
}

// line evaluates y - yT - lambda (x - xT) at Q.
func (w *weil) line(lambda *field.Fp2, T, Q *isogeny.Point) field.Fp2 {
	f := w.c.F
	var l, t field.Fp2
	f.Sub(&t, &Q.X, &T.X)
	f.Mul(&t, &t, lambda)
	f.Sub(&l, &Q.Y, &T.Y)
	f.Sub(&l, &l, &t)
	return l
}

// step2 returns the function with divisor 2(T) - (2T) - (O) evaluated at Q,
// and 2T.
func (w *weil) step2(T, Q *isogeny.Point) (hn, hd field.Fp2, next isogeny.Point) {
	f := w.c.F
	hd = f.One()
	if f.IsZero(&T.Y) == 1 {
		f.Sub(&hn, &Q.X, &T.X)
		return hn, hd, isogeny.Point{Inf: true}
	}
	lambda := w.tangent(T)
	hn = w.line(&lambda, T, Q)
	next = w.c.Double(*T)
	f.Sub(&hd, &Q.X, &next.X)
	return hn, hd, next
}

// step3 returns the function with divisor 3(T) - (3T) - 2(O) evaluated at Q,
// and 3T.
func (w *weil) step3(T, Q *isogeny.Point) (hn, hd field.Fp2, next isogeny.Point) {
	f := w.c.F
	lambda := w.tangent(T)
	hn = w.line(&lambda, T, Q)
	T2 := w.c.Double(*T)
	if f.Equal(&T2.X, &T.X) == 1 {
		// 2T = -T: the tangent meets T three times.
		return hn, f.One(), isogeny.Point{Inf: true}
	}
	f.Sub(&hd, &Q.X, &T2.X)

	var chord, num, den field.Fp2
	f.Sub(&num, &T2.Y, &T.Y)
	f.Sub(&den, &T2.X, &T.X)
	f.InvVartime(&den, &den)
	f.Mul(&chord, &num, &den)
	l := w.line(&chord, T, Q)
	f.Mul(&hn, &hn, &l)

	next = w.c.Add(*T, T2)
	var v field.Fp2
	f.Sub(&v, &Q.X, &next.X)
	f.Mul(&hd, &hd, &v)
	return hn, hd, next
}

// pair returns e(P, Q) = f_P(Q) / f_Q(P), squared for odd ell to cancel the
// sign (-1)^n. Dependent points pair to 1.
func (w *weil) pair(P, Q isogeny.Point) field.Fp2 {
	f := w.c.F
	if P.Inf || Q.Inf {
		return f.One()
	}
	nP, dP, ok1 := w.miller(P, Q)
	nQ, dQ, ok2 := w.miller(Q, P)
	if !ok1 || !ok2 {
		return f.One()
	}
	var num, den field.Fp2
	f.Mul(&num, &nP, &dQ)
	f.Mul(&den, &dP, &nQ)
	f.InvVartime(&den, &den)
	f.Mul(&num, &num, &den)
	if w.ell == 3 {
		f.Sqr(&num, &num)
	}
	return num
}
