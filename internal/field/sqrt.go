package field

// Square roots are only taken of public values (curve points during basis
// generation, peer key validation and compression), so the routines below
// branch on their input.

func (f *Field) fpIsSquare(x *Fp) bool {
	if f.fpIsZero(x) == 1 {
		return true
	}
	var l Fp
	f.fpExp(&l, x, f.legExp)
	return f.fpEqual(&l, &f.one) == 1
}

// fpSqrt returns x^((p+1)/4), a root of x whenever x is a square.
func (f *Field) fpSqrt(z, x *Fp) { f.fpExp(z, x, f.sqrtExp) }

// IsSquare reports whether x is a square in GF(p^2). An element is a square
// exactly when its norm is a square in GF(p).
func (f *Field) IsSquare(x *Fp2) bool {
	var n, t Fp
	f.fpSqr(&n, &x.A)
	f.fpSqr(&t, &x.B)
	f.fpAdd(&n, &n, &t)
	return f.fpIsSquare(&n)
}

// Sqrt sets z to the canonical square root of x and reports whether one
// exists. The canonical root has an even real part, or an even imaginary part
// when the real part is zero.
func (f *Field) Sqrt(z, x *Fp2) bool {
	var r Fp2
	if f.fpIsZero(&x.B) == 1 {
		if f.fpIsSquare(&x.A) {
			f.fpSqrt(&r.A, &x.A)
		} else {
			var na Fp
			f.fpNeg(&na, &x.A)
			f.fpSqrt(&r.B, &na)
		}
	} else {
		var n, t, s, d Fp
		f.fpSqr(&n, &x.A)
		f.fpSqr(&t, &x.B)
		f.fpAdd(&n, &n, &t)
		if !f.fpIsSquare(&n) {
			return false
		}
		f.fpSqrt(&s, &n)

		f.fpAdd(&d, &x.A, &s)
		f.fpMul(&d, &d, &f.half)
		if !f.fpIsSquare(&d) {
			f.fpSub(&d, &x.A, &s)
			f.fpMul(&d, &d, &f.half)
		}
		f.fpSqrt(&r.A, &d)

		var twoX0 Fp
		f.fpAdd(&twoX0, &r.A, &r.A)
		f.fpInvVartime(&twoX0, &twoX0)
		f.fpMul(&r.B, &x.B, &twoX0)
	}

	var check Fp2
	f.Sqr(&check, &r)
	if f.Equal(&check, x) != 1 {
		return false
	}

	flip := f.fpParity(&r.A)
	if f.fpIsZero(&r.A) == 1 {
		flip = f.fpParity(&r.B)
	}
	if flip == 1 {
		f.Neg(&r, &r)
	}
	*z = r
	return true
}
