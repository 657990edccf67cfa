package isogeny

import (
	"math/big"

	"github.com/coinbase/sidh-go/internal/field"
)

// point is an x-only projective point (X:Z) on a Montgomery curve
// y^2 = x^3 + A x^2 + x. Z = 0 is the point at infinity.
type point struct {
	X, Z field.Fp2
}

// curveConst carries the projective curve constants the x-only formulas
// consume. The 2- and 4-isogeny side uses (A24plus : C24) = (A+2C : 4C); the
// 3-isogeny side uses (A24minus : A24plus) = (A-2C : A+2C).
type curveConst struct {
	A24plus  field.Fp2
	A24minus field.Fp2
	C24      field.Fp2
}

func affinePoint(f *field.Field, x *field.Fp2) point {
	return point{X: *x, Z: f.One()}
}

func condSwapPoint(f *field.Field, p, q *point, choice uint64) {
	f.CondSwap(&p.X, &q.X, choice)
	f.CondSwap(&p.Z, &q.Z, choice)
}

// constFromA returns the constants of the curve with affine coefficient a.
func constFromA(f *field.Field, a *field.Fp2) curveConst {
	var c curveConst
	var two field.Fp2
	f.SetUint64(&two, 2, 0)
	f.Add(&c.A24plus, a, &two)
	f.Sub(&c.A24minus, a, &two)
	f.SetUint64(&c.C24, 4, 0)
	return c
}

// xDBL sets q = [2]p.
func xDBL(f *field.Field, q, p *point, c *curveConst) {
	var t0, t1, x, z field.Fp2
	f.Sub(&t0, &p.X, &p.Z)
	f.Add(&t1, &p.X, &p.Z)
	f.Sqr(&t0, &t0)
	f.Sqr(&t1, &t1)
	f.Mul(&z, &c.C24, &t0)
	f.Mul(&x, &t1, &z)
	f.Sub(&t1, &t1, &t0)
	f.Mul(&t0, &c.A24plus, &t1)
	f.Add(&z, &z, &t0)
	f.Mul(&z, &z, &t1)
	q.X, q.Z = x, z
}

// xDBLe sets q = [2^e]p.
func xDBLe(f *field.Field, q, p *point, c *curveConst, e int) {
	*q = *p
	for i := 0; i < e; i++ {
		xDBL(f, q, q, c)
	}
}

// xTPL sets q = [3]p.
func xTPL(f *field.Field, q, p *point, c *curveConst) {
	var t0, t1, t2, t3, t4, t5, t6 field.Fp2
	f.Sub(&t0, &p.X, &p.Z)
	f.Sqr(&t2, &t0)
	f.Add(&t1, &p.X, &p.Z)
	f.Sqr(&t3, &t1)
	f.Add(&t4, &t0, &t1)
	f.Sub(&t0, &t1, &t0)
	f.Sqr(&t1, &t4)
	f.Sub(&t1, &t1, &t3)
	f.Sub(&t1, &t1, &t2)
	f.Mul(&t5, &t3, &c.A24plus)
	f.Mul(&t3, &t3, &t5)
	f.Mul(&t6, &c.A24minus, &t2)
	f.Mul(&t2, &t2, &t6)
	f.Sub(&t3, &t2, &t3)
	f.Sub(&t2, &t5, &t6)
	f.Mul(&t1, &t1, &t2)
	f.Add(&t2, &t3, &t1)
	f.Sqr(&t2, &t2)
	f.Mul(&q.X, &t4, &t2)
	f.Sub(&t1, &t3, &t1)
	f.Sqr(&t1, &t1)
	f.Mul(&q.Z, &t0, &t1)
}

// xTPLe sets q = [3^e]p.
func xTPLe(f *field.Field, q, p *point, c *curveConst, e int) {
	*q = *p
	for i := 0; i < e; i++ {
		xTPL(f, q, q, c)
	}
}

// xDBLADD sets p = [2]p and q = p + q, where d = x(q - p) and a24 = (A+2)/4.
// Both outputs use the value of p before doubling.
func xDBLADD(f *field.Field, p, q, d *point, a24 *field.Fp2) {
	var t0, t1, t2 field.Fp2
	f.Add(&t0, &p.X, &p.Z)
	f.Sub(&t1, &p.X, &p.Z)
	f.Sqr(&p.X, &t0)
	f.Sub(&t2, &q.X, &q.Z)
	f.Add(&q.X, &q.X, &q.Z)
	f.Mul(&t0, &t0, &t2)
	f.Sqr(&p.Z, &t1)
	f.Mul(&t1, &t1, &q.X)
	f.Sub(&t2, &p.X, &p.Z)
	f.Mul(&p.X, &p.X, &p.Z)
	f.Mul(&q.X, &t2, a24)
	f.Sub(&q.Z, &t0, &t1)
	f.Add(&p.Z, &q.X, &p.Z)
	f.Add(&q.X, &t0, &t1)
	f.Mul(&p.Z, &p.Z, &t2)
	f.Sqr(&q.Z, &q.Z)
	f.Sqr(&q.X, &q.X)
	f.Mul(&q.X, &q.X, &d.Z)
	f.Mul(&q.Z, &q.Z, &d.X)
}

func a24FromA(f *field.Field, a *field.Fp2) field.Fp2 {
	var two, a24 field.Fp2
	f.SetUint64(&two, 2, 0)
	f.Add(&a24, a, &two)
	f.Half(&a24, &a24)
	f.Half(&a24, &a24)
	return a24
}

// ladder3pt computes x(P + [m]Q) from x(P), x(Q), x(P-Q). The scalar is read
// little-endian and exactly nbits iterations run whatever its value; the
// only data-dependent operations are conditional swaps.
func ladder3pt(f *field.Field, xP, xQ, xPQ, a *field.Fp2, m []byte, nbits int) point {
	a24 := a24FromA(f, a)
	r0 := affinePoint(f, xQ)
	r1 := affinePoint(f, xP)
	r2 := affinePoint(f, xPQ)

	// Invariant: r0 = [2^i]Q, r1 = P + [m mod 2^i]Q, r2 = r1 - r0.
	for i := 0; i < nbits; i++ {
		bit := uint64(m[i>>3]>>(uint(i)&7)) & 1
		swap := bit ^ 1
		condSwapPoint(f, &r1, &r2, swap)
		xDBLADD(f, &r0, &r1, &r2, &a24)
		condSwapPoint(f, &r1, &r2, swap)
	}
	return r1
}

// xMulVartime computes x([k]T) for a public scalar k with the Montgomery
// ladder. x(T) must be nonzero.
func xMulVartime(f *field.Field, xT, a24 *field.Fp2, k *big.Int) point {
	r0 := point{X: f.One()}
	r1 := affinePoint(f, xT)
	d := r1
	for i := k.BitLen() - 1; i >= 0; i-- {
		if k.Bit(i) == 0 {
			xDBLADD(f, &r0, &r1, &d, a24)
		} else {
			xDBLADD(f, &r1, &r0, &d, a24)
		}
	}
	return r0
}

// getA recovers the Montgomery coefficient A of the curve on which xP, xQ
// and xR = x(P-Q) live.
func getA(f *field.Field, xP, xQ, xR *field.Fp2) field.Fp2 {
	var t0, t1, a, one field.Fp2
	one = f.One()
	f.Add(&t1, xP, xQ)
	f.Mul(&t0, xP, xQ)
	f.Mul(&a, xR, &t1)
	f.Add(&a, &t0, &a)
	f.Mul(&t0, &t0, xR)
	f.Sub(&a, &a, &one)
	f.Add(&t0, &t0, &t0)
	f.Add(&t1, &t1, xR)
	f.Add(&t0, &t0, &t0)
	f.Sqr(&a, &a)
	f.Inv(&t0, &t0)
	f.Mul(&a, &a, &t0)
	f.Sub(&a, &a, &t1)
	return a
}

// jInvariant returns 256 (A^2 - 3C^2)^3 / (C^4 (A^2 - 4C^2)) for the curve
// with projective coefficient (A : C).
func jInvariant(f *field.Field, a, c *field.Fp2) field.Fp2 {
	var j, t0, t1 field.Fp2
	f.Sqr(&j, a)
	f.Sqr(&t1, c)
	f.Add(&t0, &t1, &t1)
	f.Sub(&t0, &j, &t0)
	f.Sub(&t0, &t0, &t1)
	f.Sub(&j, &t0, &t1)
	f.Sqr(&t1, &t1)
	f.Mul(&j, &j, &t1)
	f.Add(&t0, &t0, &t0)
	f.Add(&t0, &t0, &t0)
	f.Sqr(&t1, &t0)
	f.Mul(&t0, &t0, &t1)
	f.Add(&t0, &t0, &t0)
	f.Add(&t0, &t0, &t0)
	f.Inv(&j, &j)
	f.Mul(&j, &t0, &j)
	return j
}

// normalize3 converts three projective points to affine x-coordinates with a
// single inversion.
func normalize3(f *field.Field, p, q, r *point) (xp, xq, xr field.Fp2) {
	var t0, t1, inv field.Fp2
	f.Mul(&t0, &p.Z, &q.Z)
	f.Mul(&t1, &t0, &r.Z)
	f.Inv(&inv, &t1)
	f.Mul(&t1, &inv, &r.Z) // 1/(Zp Zq)
	f.Mul(&xr, &inv, &t0)  // 1/Zr
	f.Mul(&xr, &xr, &r.X)
	f.Mul(&t0, &t1, &q.Z) // 1/Zp
	f.Mul(&xp, &t0, &p.X)
	f.Mul(&t0, &t1, &p.Z) // 1/Zq
	f.Mul(&xq, &t0, &q.X)
	return xp, xq, xr
}
