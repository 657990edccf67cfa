package compress

import (
	"crypto/subtle"
	"errors"
	"math/big"

	"github.com/coinbase/sidh-go/internal/field"
	"github.com/coinbase/sidh-go/internal/isogeny"
)

var (
	errNotOnCurve = errors.New("compress: public key points are not on their curve")
	errNoBasis    = errors.New("compress: no canonical torsion basis on the curve")
	errDlog       = errors.New("compress: discrete logarithm failed")
	errOrder      = errors.New("compress: P does not have full order")
)

// Compress writes the compressed form of pk to dst, which must hold
// p.CompressedLen() bytes. pk carries the images of the torsion basis of
// torsion on its curve E_A. The encoding is
//
//	A || flag || c1 || c2 || c3
//
// where the coefficients express the points relative to the canonical basis
// (R1, R2) of E_A: with P = a0 R1 + b0 R2 and Q = a1 R1 + b1 R2, flag 0
// carries (b0, a1, b1)/a0 and flag 1 carries (a0, a1, b1)/b0.
func Compress(p *isogeny.Params, torsion isogeny.Role, pk *isogeny.PublicKey, dst []byte) error {
	f := p.F
	side := p.Side(torsion)
	a := p.CurveOf(pk)
	curve := &isogeny.Curve{F: f, A: a}

	P, okP := curve.Lift(&pk.XP)
	Q, okQ := curve.Lift(&pk.XQ)
	if !okP || !okQ {
		return errNotOnCurve
	}
	if d := curve.Sub(P, Q); d.Inf || f.Equal(&d.X, &pk.XR) == 0 {
		Q = curve.Neg(Q)
		if d := curve.Sub(P, Q); d.Inf || f.Equal(&d.X, &pk.XR) == 0 {
			return errNotOnCurve
		}
	}

	basis, ok := p.BasisOn(&a, torsion)
	if !ok {
		return errNoBasis
	}
	w := &weil{c: curve, ell: side.Ell, e: side.E}
	g := w.pair(basis.P, basis.Q)
	table, ok := newDlogTable(f, &g, side.Ell, side.E)
	if !ok {
		return errDlog
	}

	logs := make([]*big.Int, 4)
	for i, pr := range [][2]isogeny.Point{{P, basis.Q}, {basis.P, P}, {Q, basis.Q}, {basis.P, Q}} {
		v := w.pair(pr[0], pr[1])
		if logs[i], ok = table.log(&v); !ok {
			return errDlog
		}
	}
	a0, b0, a1, b1 := logs[0], logs[1], logs[2], logs[3]

	n := side.Order
	ell := big.NewInt(int64(side.Ell))
	var flag byte
	var c1, unit *big.Int
	if new(big.Int).Mod(a0, ell).Sign() != 0 {
		unit, c1 = a0, b0
	} else if new(big.Int).Mod(b0, ell).Sign() != 0 {
		flag, unit, c1 = 1, b0, a0
	} else {
		return errOrder
	}
	inv := new(big.Int).ModInverse(unit, n)
	coeffs := []*big.Int{c1, a1, b1}
	for _, c := range coeffs {
		c.Mul(c, inv).Mod(c, n)
	}

	enc := f.EncodedLen()
	f.Encode(dst[:enc], &a)
	dst[enc] = flag
	off := enc + 1
	for _, c := range coeffs {
		putCoeff(dst[off:off+p.CoeffLen()], c)
		off += p.CoeffLen()
	}
	return nil
}

// Decompress parses src, which must hold p.CompressedLen() bytes, into the
// x-coordinates of a public key and returns 1 if src is well formed. It
// returns 0 for a non-canonical curve coefficient, a curve outside the
// isogeny class, an unknown flag, a coefficient that is not below the
// torsion order, or points that do not reconstruct a basis image. The result
// still has to pass ValidatePeer.
//
// The checks are folded into one verdict. A malformed curve is replaced by
// the starting curve and out-of-range coefficients are reduced, so a
// rejected key costs the same basis search and scalar multiplications as an
// accepted one. pk is written either way.
func Decompress(p *isogeny.Params, torsion isogeny.Role, src []byte, pk *isogeny.PublicKey) uint64 {
	f := p.F
	side := p.Side(torsion)
	enc := f.EncodedLen()

	var a field.Fp2
	ok := f.Decode(&a, src[:enc])
	ok &= p.InClass(&a)
	start := p.StartCurve()
	f.Select(&a, &a, &start, ok)

	flag := src[enc]
	ok &= uint64(subtle.ConstantTimeLessOrEq(int(flag), 1))
	flag &= 1

	off := enc + 1
	var coeffs [3]*big.Int
	for i := range coeffs {
		c := getCoeff(src[off : off+p.CoeffLen()])
		ok &= boolToBit(c.Cmp(side.Order) < 0)
		coeffs[i] = c.Mod(c, side.Order)
		off += p.CoeffLen()
	}

	basis, found := p.BasisOn(&a, torsion)
	if !found {
		// Only reachable for a curve that passed InClass by accident.
		ok, a = 0, start
		basis = p.StartBasis(torsion)
	}
	curve := &isogeny.Curve{F: f, A: a}

	// Both flag layouts are computed and one is kept.
	P0 := curve.Add(basis.P, curve.ScalarMult(basis.Q, coeffs[0]))
	P1 := curve.Add(curve.ScalarMult(basis.P, coeffs[0]), basis.Q)
	P := selectPoint(f, &P1, &P0, uint64(flag))
	Q := curve.Add(curve.ScalarMult(basis.P, coeffs[1]), curve.ScalarMult(basis.Q, coeffs[2]))
	R := curve.Sub(P, Q)
	ok &= boolToBit(!P.Inf) & boolToBit(!Q.Inf) & boolToBit(!R.Inf)

	pk.XP, pk.XQ, pk.XR = P.X, Q.X, R.X
	return ok
}

// selectPoint returns x when choice is 1 and y when it is 0.
func selectPoint(f *field.Field, x, y *isogeny.Point, choice uint64) isogeny.Point {
	var out isogeny.Point
	f.Select(&out.X, &x.X, &y.X, choice)
	f.Select(&out.Y, &x.Y, &y.Y, choice)
	out.Inf = (choice == 1 && x.Inf) || (choice == 0 && y.Inf)
	return out
}

func boolToBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func putCoeff(dst []byte, c *big.Int) {
	clear(dst)
	be := c.Bytes()
	for i := range be {
		dst[i] = be[len(be)-1-i]
	}
}

func getCoeff(src []byte) *big.Int {
	be := make([]byte, len(src))
	for i := range src {
		be[len(src)-1-i] = src[i]
	}
	return new(big.Int).SetBytes(be)
}
