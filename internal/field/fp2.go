package field

import "math/big"

// Fp2 is an element A + B*i of GF(p^2) = GF(p)[i]/(i^2 + 1).
type Fp2 struct {
	A, B Fp
}

// Zero returns the additive identity.
func (f *Field) Zero() Fp2 { return Fp2{} }

// One returns the multiplicative identity.
func (f *Field) One() Fp2 { return Fp2{A: f.one} }

// SetUint64 sets z = re + im*i.
func (f *Field) SetUint64(z *Fp2, re, im uint64) {
	f.fpSetUint64(&z.A, re)
	f.fpSetUint64(&z.B, im)
}

func (f *Field) Add(z, x, y *Fp2) {
	f.fpAdd(&z.A, &x.A, &y.A)
	f.fpAdd(&z.B, &x.B, &y.B)
}

func (f *Field) Sub(z, x, y *Fp2) {
	f.fpSub(&z.A, &x.A, &y.A)
	f.fpSub(&z.B, &x.B, &y.B)
}

func (f *Field) Neg(z, x *Fp2) {
	f.fpNeg(&z.A, &x.A)
	f.fpNeg(&z.B, &x.B)
}

// Conj sets z to the Frobenius conjugate A - B*i.
func (f *Field) Conj(z, x *Fp2) {
	z.A = x.A
	f.fpNeg(&z.B, &x.B)
}

// Mul sets z = x*y using three base-field multiplications.
func (f *Field) Mul(z, x, y *Fp2) {
	var t0, t1, t2, t3 Fp
	f.fpMul(&t0, &x.A, &y.A)
	f.fpMul(&t1, &x.B, &y.B)
	f.fpAdd(&t2, &x.A, &x.B)
	f.fpAdd(&t3, &y.A, &y.B)
	f.fpMul(&t2, &t2, &t3)
	f.fpSub(&t2, &t2, &t0)
	f.fpSub(&z.B, &t2, &t1)
	f.fpSub(&z.A, &t0, &t1)
}

// Sqr sets z = x^2.
func (f *Field) Sqr(z, x *Fp2) {
	var t0, t1, t2 Fp
	f.fpAdd(&t0, &x.A, &x.B)
	f.fpSub(&t1, &x.A, &x.B)
	f.fpAdd(&t2, &x.A, &x.A)
	f.fpMul(&z.B, &t2, &x.B)
	f.fpMul(&z.A, &t0, &t1)
}

// mulFp multiplies both coordinates of x by the base-field element c.
func (f *Field) mulFp(z, x *Fp2, c *Fp) {
	f.fpMul(&z.A, &x.A, c)
	f.fpMul(&z.B, &x.B, c)
}

// Half sets z = x/2.
func (f *Field) Half(z, x *Fp2) { f.mulFp(z, x, &f.half) }

// Inv sets z = 1/x in constant time. Zero maps to zero.
func (f *Field) Inv(z, x *Fp2) {
	var n, t Fp
	f.fpSqr(&n, &x.A)
	f.fpSqr(&t, &x.B)
	f.fpAdd(&n, &n, &t)
	f.fpInv(&n, &n)
	f.fpMul(&z.A, &x.A, &n)
	f.fpMul(&t, &x.B, &n)
	f.fpNeg(&z.B, &t)
}

// InvVartime is Inv for public operands. Its running time depends on x.
func (f *Field) InvVartime(z, x *Fp2) {
	var n, t Fp
	f.fpSqr(&n, &x.A)
	f.fpSqr(&t, &x.B)
	f.fpAdd(&n, &n, &t)
	f.fpInvVartime(&n, &n)
	f.fpMul(&z.A, &x.A, &n)
	f.fpMul(&t, &x.B, &n)
	f.fpNeg(&z.B, &t)
}

// Exp raises x to a public exponent.
func (f *Field) Exp(z, x *Fp2, e *big.Int) {
	acc := f.One()
	base := *x
	for i := e.BitLen() - 1; i >= 0; i-- {
		f.Sqr(&acc, &acc)
		if e.Bit(i) == 1 {
			f.Mul(&acc, &acc, &base)
		}
	}
	*z = acc
}

// IsZero returns 1 when x is zero, 0 otherwise, in constant time.
func (f *Field) IsZero(x *Fp2) uint64 {
	return f.fpIsZero(&x.A) & f.fpIsZero(&x.B)
}

// Equal returns 1 when x == y, 0 otherwise, in constant time.
func (f *Field) Equal(x, y *Fp2) uint64 {
	return f.fpEqual(&x.A, &y.A) & f.fpEqual(&x.B, &y.B)
}

// IsOne reports whether x is the multiplicative identity.
func (f *Field) IsOne(x *Fp2) bool {
	one := f.One()
	return f.Equal(x, &one) == 1
}

// CondSwap exchanges x and y when choice is 1 and leaves them when it is 0.
// choice must be 0 or 1.
func (f *Field) CondSwap(x, y *Fp2, choice uint64) {
	mask := -choice
	for i := 0; i < f.n; i++ {
		t := (x.A[i] ^ y.A[i]) & mask
		x.A[i] ^= t
		y.A[i] ^= t
		t = (x.B[i] ^ y.B[i]) & mask
		x.B[i] ^= t
		y.B[i] ^= t
	}
}

// Select sets z = x when choice is 1 and z = y when choice is 0.
func (f *Field) Select(z, x, y *Fp2, choice uint64) {
	mask := -choice
	for i := 0; i < f.n; i++ {
		z.A[i] = (x.A[i] & mask) | (y.A[i] &^ mask)
		z.B[i] = (x.B[i] & mask) | (y.B[i] &^ mask)
	}
}
