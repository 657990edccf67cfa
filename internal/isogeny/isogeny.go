package isogeny

import "github.com/coinbase/sidh-go/internal/field"

// get4Isog computes the 4-isogeny with kernel generated by k, a point of
// order 4 with [2]k != (0,0). It replaces (A24plus : C24) with the codomain
// constants and returns the coefficients eval4Isog needs.
func get4Isog(f *field.Field, k *point, c *curveConst, coeff *[3]field.Fp2) {
	f.Sub(&coeff[1], &k.X, &k.Z)
	f.Add(&coeff[2], &k.X, &k.Z)
	f.Sqr(&coeff[0], &k.Z)
	f.Add(&coeff[0], &coeff[0], &coeff[0])
	f.Sqr(&c.C24, &coeff[0])
	f.Add(&coeff[0], &coeff[0], &coeff[0])
	f.Sqr(&c.A24plus, &k.X)
	f.Add(&c.A24plus, &c.A24plus, &c.A24plus)
	f.Sqr(&c.A24plus, &c.A24plus)
}

func eval4Isog(f *field.Field, p *point, coeff *[3]field.Fp2) {
	var t0, t1 field.Fp2
	f.Add(&t0, &p.X, &p.Z)
	f.Sub(&t1, &p.X, &p.Z)
	f.Mul(&p.X, &t0, &coeff[1])
	f.Mul(&p.Z, &t1, &coeff[2])
	f.Mul(&t0, &t0, &t1)
	f.Mul(&t0, &t0, &coeff[0])
	f.Add(&t1, &p.X, &p.Z)
	f.Sub(&p.Z, &p.X, &p.Z)
	f.Sqr(&t1, &t1)
	f.Sqr(&p.Z, &p.Z)
	f.Add(&p.X, &t1, &t0)
	f.Sub(&t0, &p.Z, &t0)
	f.Mul(&p.X, &p.X, &t1)
	f.Mul(&p.Z, &p.Z, &t0)
}

// get3Isog computes the 3-isogeny with kernel generated by k, a point of
// order 3, replacing (A24minus : A24plus) with the codomain constants.
func get3Isog(f *field.Field, k *point, c *curveConst, coeff *[2]field.Fp2) {
	var t0, t1, t2, t3, t4 field.Fp2
	f.Sub(&coeff[0], &k.X, &k.Z)
	f.Sqr(&t0, &coeff[0])
	f.Add(&coeff[1], &k.X, &k.Z)
	f.Sqr(&t1, &coeff[1])
	f.Add(&t3, &k.X, &k.X)
	f.Sqr(&t3, &t3)
	f.Sub(&t2, &t3, &t0)
	f.Sub(&t3, &t3, &t1)
	f.Add(&t4, &t0, &t3)
	f.Add(&t4, &t4, &t4)
	f.Add(&t4, &t1, &t4)
	f.Mul(&c.A24minus, &t2, &t4)
	f.Add(&t4, &t1, &t2)
	f.Add(&t4, &t4, &t4)
	f.Add(&t4, &t0, &t4)
	f.Mul(&c.A24plus, &t3, &t4)
}

func eval3Isog(f *field.Field, p *point, coeff *[2]field.Fp2) {
	var t0, t1, t2 field.Fp2
	f.Add(&t0, &p.X, &p.Z)
	f.Sub(&t1, &p.X, &p.Z)
	f.Mul(&t0, &t0, &coeff[0])
	f.Mul(&t1, &t1, &coeff[1])
	f.Add(&t2, &t0, &t1)
	f.Sub(&t0, &t1, &t0)
	f.Sqr(&t2, &t2)
	f.Sqr(&t0, &t0)
	f.Mul(&p.X, &p.X, &t2)
	f.Mul(&p.Z, &p.Z, &t0)
}

// get2Isog computes the 2-isogeny with kernel generated by k, a point of
// order 2 other than (0,0). The codomain constants are (A24plus : C24) =
// (Z^2 - X^2 : Z^2).
func get2Isog(f *field.Field, k *point, c *curveConst) {
	f.Sqr(&c.A24plus, &k.X)
	f.Sqr(&c.C24, &k.Z)
	f.Sub(&c.A24plus, &c.C24, &c.A24plus)
}

// eval2Isog maps p through the 2-isogeny with kernel generated by k.
func eval2Isog(f *field.Field, p, k *point) {
	var t0, t1, t2, t3 field.Fp2
	f.Add(&t0, &k.X, &k.Z)
	f.Sub(&t1, &k.X, &k.Z)
	f.Add(&t2, &p.X, &p.Z)
	f.Sub(&t3, &p.X, &p.Z)
	f.Mul(&t0, &t0, &t3)
	f.Mul(&t1, &t1, &t2)
	f.Add(&t2, &t0, &t1)
	f.Sub(&t3, &t0, &t1)
	f.Mul(&p.X, &p.X, &t2)
	f.Mul(&p.Z, &p.Z, &t3)
}
