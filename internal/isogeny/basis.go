package isogeny

import (
	"github.com/coinbase/sidh-go/internal/field"
)

// Basis is a basis (P, Q) of one full torsion subgroup together with the
// x-coordinates the kernel ladder consumes. XR is x(P - Q).
type Basis struct {
	P, Q       Point
	XP, XQ, XR field.Fp2
}

const maxBasisCandidates = 256

// InClass returns 1 if the curve with coefficient a is nonsingular and the
// first curve point among BasisOn's candidates is killed by p + 1, as every
// point is on the curves reachable from the starting curve. Curves outside
// the class fail here at the cost of one ladder instead of exhausting
// BasisOn's candidates.
func (p *Params) InClass(a *field.Fp2) uint64 {
	f := p.F
	var disc, four field.Fp2
	f.Sqr(&disc, a)
	f.SetUint64(&four, 4, 0)
	f.Sub(&disc, &disc, &four)
	ok := 1 ^ f.IsZero(&disc)

	curve := Curve{F: f, A: *a}
	var x field.Fp2
	found := false
	for k := uint64(1); k <= maxBasisCandidates && !found; k++ {
		f.SetUint64(&x, k, 1)
		found = curve.HasX(&x)
	}
	if !found {
		return 0
	}
	a24 := a24FromA(f, a)
	t := xMulVartime(f, &x, &a24, p.order)
	return ok & f.IsZero(&t.Z)
}

// BasisOn derives the canonical basis of the torsion subgroup of role on
// the curve with affine coefficient a. Candidates x = k + i, k = 1, 2, ...
// are lifted to the curve, cleared of the other cofactor and kept when they
// reach full order. For the 2-power torsion [2^(e-1)]Q = (0,0) and
// [2^(e-1)]P != (0,0); for the 3-power torsion the order-3 multiples of P
// and Q differ. The result depends only on a, so both parties and the
// compressed encoding agree on it. It reports false when no basis is found
// among the first candidates, which happens only for curves outside the
// supersingular isogeny class.
func (p *Params) BasisOn(a *field.Fp2, role Role) (Basis, bool) {
	f := p.F
	side := &p.sides[role]
	curve := Curve{F: f, A: *a}
	a24 := a24FromA(f, a)
	c := constFromA(f, a)

	var (
		gotP, gotQ bool
		xP, xQ     field.Fp2
		wP         point
	)
	for k := uint64(1); k <= maxBasisCandidates && !(gotP && gotQ); k++ {
		var x field.Fp2
		f.SetUint64(&x, k, 1)
		if !curve.HasX(&x) {
			continue
		}
		t := xMulVartime(f, &x, &a24, side.cofactor)
		if f.IsZero(&t.Z) == 1 {
			continue
		}
		var w, o point
		repeatMul(f, side.Ell, &w, &t, &c, side.E-1)
		repeatMul(f, side.Ell, &o, &w, &c, 1)
		if f.IsZero(&w.Z) == 1 || f.IsZero(&o.Z) == 0 {
			continue
		}

		var tx field.Fp2
		f.InvVartime(&tx, &t.Z)
		f.Mul(&tx, &tx, &t.X)

		if side.Ell == 2 {
			if f.IsZero(&w.X) == 1 {
				if !gotQ {
					xQ, gotQ = tx, true
				}
			} else if !gotP {
				xP, gotP = tx, true
			}
			continue
		}

		if !gotP {
			xP, wP, gotP = tx, w, true
			continue
		}
		var l, r field.Fp2
		f.Mul(&l, &w.X, &wP.Z)
		f.Mul(&r, &wP.X, &w.Z)
		if f.Equal(&l, &r) == 0 {
			xQ, gotQ = tx, true
		}
	}
	if !gotP || !gotQ {
		return Basis{}, false
	}

	P, okP := curve.Lift(&xP)
	Q, okQ := curve.Lift(&xQ)
	if !okP || !okQ {
		return Basis{}, false
	}
	R := curve.Sub(P, Q)
	if R.Inf {
		return Basis{}, false
	}
	return Basis{P: P, Q: Q, XP: P.X, XQ: Q.X, XR: R.X}, true
}
