package isogeny

import "github.com/coinbase/sidh-go/internal/field"

func boolToBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// ValidatePeer returns 1 if pk is a well-formed public key for own to
// complete an exchange with, and 0 otherwise. On top of the checks made by
// ValidatePoints it requires, on the 2-power side, that [2^(e-1)]Q is (0,0)
// and [2^(e-1)]P is not, which keeps every kernel away from (0,0) under this
// package's basis convention.
//
// Every check runs regardless of earlier results so the outcome does not
// reveal which one failed.
func (p *Params) ValidatePeer(own Role, pk *PublicKey) uint64 {
	ok, wP, wQ := p.validatePoints(own, pk)
	if p.sides[own].Ell == 2 {
		ok &= p.F.IsZero(&wQ.X)
		ok &= 1 ^ p.F.IsZero(&wP.X)
	}
	return ok
}

// ValidatePoints returns 1 if pk carries images of a full ell^e torsion
// basis for own: the three x-coordinates are nonzero and lie on a
// nonsingular curve, and P and Q have exact order ell^e and generate
// different subgroups of order ell. It makes no assumption about which
// basis was pushed through, so it also applies to keys from other
// implementations.
func (p *Params) ValidatePoints(own Role, pk *PublicKey) uint64 {
	ok, _, _ := p.validatePoints(own, pk)
	return ok
}

func (p *Params) validatePoints(own Role, pk *PublicKey) (uint64, point, point) {
	f := p.F
	side := &p.sides[own]

	ok := uint64(1)
	ok &= 1 ^ f.IsZero(&pk.XP)
	ok &= 1 ^ f.IsZero(&pk.XQ)
	ok &= 1 ^ f.IsZero(&pk.XR)

	a := getA(f, &pk.XP, &pk.XQ, &pk.XR)
	var disc, four field.Fp2
	f.Sqr(&disc, &a)
	f.SetUint64(&four, 4, 0)
	f.Sub(&disc, &disc, &four)
	ok &= 1 ^ f.IsZero(&disc)

	curve := Curve{F: f, A: a}
	ok &= boolToBit(curve.HasX(&pk.XP))
	ok &= boolToBit(curve.HasX(&pk.XQ))
	ok &= boolToBit(curve.HasX(&pk.XR))

	c := constFromA(f, &a)
	var wP, wQ, oP, oQ point
	repeatMul(f, side.Ell, &wP, &point{X: pk.XP, Z: f.One()}, &c, side.E-1)
	repeatMul(f, side.Ell, &wQ, &point{X: pk.XQ, Z: f.One()}, &c, side.E-1)
	repeatMul(f, side.Ell, &oP, &wP, &c, 1)
	repeatMul(f, side.Ell, &oQ, &wQ, &c, 1)
	ok &= 1 ^ f.IsZero(&wP.Z)
	ok &= 1 ^ f.IsZero(&wQ.Z)
	ok &= f.IsZero(&oP.Z)
	ok &= f.IsZero(&oQ.Z)

	var l, r field.Fp2
	f.Mul(&l, &wP.X, &wQ.Z)
	f.Mul(&r, &wQ.X, &wP.Z)
	ok &= 1 ^ f.Equal(&l, &r)
	return ok, wP, wQ
}
