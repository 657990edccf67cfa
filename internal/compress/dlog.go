package compress

import (
	"math/big"

	"github.com/coinbase/sidh-go/internal/field"
)

// dlogTable holds g^(ell^i) for i < e, where g generates the roots of
// unity of order ell^e in GF(p^2).
type dlogTable struct {
	f      *field.Field
	ell, e int
	powers []field.Fp2
}

func (t *dlogTable) pow(z, x *field.Fp2) {
	var s field.Fp2
	t.f.Sqr(&s, x)
	if t.ell == 3 {
		t.f.Mul(&s, &s, x)
	}
	*z = s
}

func newDlogTable(f *field.Field, g *field.Fp2, ell, e int) (*dlogTable, bool) {
	t := &dlogTable{f: f, ell: ell, e: e, powers: make([]field.Fp2, e)}
	t.powers[0] = *g
	for i := 1; i < e; i++ {
		t.pow(&t.powers[i], &t.powers[i-1])
	}
	// g must have full order: g^(ell^(e-1)) != 1 and g^(ell^e) == 1.
	var last field.Fp2
	t.pow(&last, &t.powers[e-1])
	if f.IsOne(&t.powers[e-1]) || !f.IsOne(&last) {
		return nil, false
	}
	return t, true
}

// log returns x in [0, ell^e) with g^x = h by Pohlig-Hellman, one base-ell
// digit at a time. Elements of order dividing p+1 have norm 1, so the inverse
// of g^(ell^k) is its conjugate.
func (t *dlogTable) log(h *field.Fp2) (*big.Int, bool) {
	f := t.f
	gamma := t.powers[t.e-1]
	var gamma2 field.Fp2
	f.Sqr(&gamma2, &gamma)

	x := new(big.Int)
	digit := big.NewInt(1)
	ell := big.NewInt(int64(t.ell))
	cur := *h
	for k := 0; k < t.e; k++ {
		r := cur
		for j := 0; j < t.e-1-k; j++ {
			t.pow(&r, &r)
		}

		var d int64
		switch {
		case f.IsOne(&r):
			d = 0
		case f.Equal(&r, &gamma) == 1:
			d = 1
		case t.ell == 3 && f.Equal(&r, &gamma2) == 1:
			d = 2
		default:
			return nil, false
		}

		if d != 0 {
			var inv field.Fp2
			f.Conj(&inv, &t.powers[k])
			for i := int64(0); i < d; i++ {
				f.Mul(&cur, &cur, &inv)
			}
			x.Add(x, new(big.Int).Mul(digit, big.NewInt(d)))
		}
		digit.Mul(digit, ell)
	}
	if !f.IsOne(&cur) {
		return nil, false
	}
	return x, true
}
