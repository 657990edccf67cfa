package isogeny

import "github.com/coinbase/sidh-go/internal/field"

// stepper is one kind of prime-power isogeny chain: 4-isogenies for the
// 2-power side and 3-isogenies for the 3-power side. It carries the current
// curve constants and the coefficients of the last isogeny computed.
type stepper interface {
	// mul sets q to p multiplied by the step degree m times.
	mul(q, p *point, m int)
	// next moves to the codomain of the isogeny with kernel generated by k.
	next(k *point)
	// eval maps p through the last isogeny.
	eval(p *point)
	// curve returns a projective Montgomery coefficient (A : C) of the
	// current curve.
	curve() (a, c field.Fp2)
}

type fourStep struct {
	f     *field.Field
	c     curveConst
	coeff [3]field.Fp2
}

func (s *fourStep) mul(q, p *point, m int) { xDBLe(s.f, q, p, &s.c, 2*m) }
func (s *fourStep) next(k *point)          { get4Isog(s.f, k, &s.c, &s.coeff) }
func (s *fourStep) eval(p *point)          { eval4Isog(s.f, p, &s.coeff) }

func (s *fourStep) curve() (a, c field.Fp2) {
	// (A+2C : 4C) -> (4A : 4C)
	s.f.Add(&a, &s.c.A24plus, &s.c.A24plus)
	s.f.Sub(&a, &a, &s.c.C24)
	s.f.Add(&a, &a, &a)
	return a, s.c.C24
}

type threeStep struct {
	f     *field.Field
	c     curveConst
	coeff [2]field.Fp2
}

func (s *threeStep) mul(q, p *point, m int) { xTPLe(s.f, q, p, &s.c, m) }
func (s *threeStep) next(k *point)          { get3Isog(s.f, k, &s.c, &s.coeff) }
func (s *threeStep) eval(p *point)          { eval3Isog(s.f, p, &s.coeff) }

func (s *threeStep) curve() (a, c field.Fp2) {
	// (A-2C : A+2C) -> (4A : 4C)
	s.f.Add(&a, &s.c.A24plus, &s.c.A24minus)
	s.f.Add(&a, &a, &a)
	s.f.Sub(&c, &s.c.A24plus, &s.c.A24minus)
	return a, c
}

// traverse walks the chain of len(strategy)+1 isogenies whose kernel is
// generated by r, mapping every point of pushed into the final codomain.
// The sequence of operations depends only on the strategy.
func traverse(s stepper, r point, strategy []int, pushed []*point) {
	steps := len(strategy) + 1
	stack := make([]point, 0, steps)
	index := make([]int, 0, steps)
	defer clear(stack[:cap(stack)])

	at, ii := 0, 0
	for row := 1; row < steps; row++ {
		for at < steps-row {
			stack = append(stack, r)
			index = append(index, at)
			m := strategy[ii]
			ii++
			s.mul(&r, &r, m)
			at += m
		}
		s.next(&r)
		for i := range stack {
			s.eval(&stack[i])
		}
		for _, p := range pushed {
			s.eval(p)
		}

		r = stack[len(stack)-1]
		at = index[len(index)-1]
		stack = stack[:len(stack)-1]
		index = index[:len(index)-1]
	}
	s.next(&r)
	for _, p := range pushed {
		s.eval(p)
	}
}

// walk computes the isogeny whose kernel is generated by P + [sk]Q on the
// curve with affine coefficient a, where (xP, xQ, xR) describe the basis of
// the torsion subgroup of role. Every point of pushed is mapped into the
// codomain, whose projective coefficient (A : C) is returned.
func (p *Params) walk(role Role, a, xP, xQ, xR *field.Fp2, sk []byte, pushed []*point) (field.Fp2, field.Fp2) {
	f := p.F
	side := &p.sides[role]
	c := constFromA(f, a)

	r := ladder3pt(f, xP, xQ, xR, a, sk, side.Bits)

	var s stepper
	switch side.Ell {
	case 2:
		if p.EA%2 == 1 {
			// A single 2-isogeny first leaves an even number of
			// 2-power steps for the 4-isogeny chain.
			var k point
			xDBLe(f, &k, &r, &c, p.EA-1)
			get2Isog(f, &k, &c)
			eval2Isog(f, &r, &k)
			for _, q := range pushed {
				eval2Isog(f, q, &k)
			}
		}
		s = &fourStep{f: f, c: c}
	default:
		s = &threeStep{f: f, c: c}
	}
	traverse(s, r, side.strategy, pushed)
	return s.curve()
}

// GeneratePublicKey walks the isogeny with kernel P + [sk]Q from the
// starting curve, where (P, Q) is the torsion basis of role, and returns the
// images of the other role's basis. sk must hold a scalar below the order of
// role's torsion subgroup; see ScalarInRange.
func (p *Params) GeneratePublicKey(role Role, sk []byte) PublicKey {
	f := p.F
	own, peer := &p.bases[role], &p.bases[role.Other()]
	phiP := affinePoint(f, &peer.XP)
	phiQ := affinePoint(f, &peer.XQ)
	phiR := affinePoint(f, &peer.XR)

	p.walk(role, &p.start, &own.XP, &own.XQ, &own.XR, sk, []*point{&phiP, &phiQ, &phiR})

	var pk PublicKey
	pk.XP, pk.XQ, pk.XR = normalize3(f, &phiP, &phiQ, &phiR)
	return pk
}

// SharedSecret completes the exchange on the curve described by the peer's
// public key and returns the j-invariant of the final curve. The peer key
// should have passed ValidatePeer.
func (p *Params) SharedSecret(role Role, sk []byte, peer *PublicKey) field.Fp2 {
	a := getA(p.F, &peer.XP, &peer.XQ, &peer.XR)
	ac, cc := p.walk(role, &a, &peer.XP, &peer.XQ, &peer.XR, sk, nil)
	return jInvariant(p.F, &ac, &cc)
}
