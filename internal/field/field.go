package field

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
)

// MaxLimbs is the limb count of the largest supported prime (p751).
const MaxLimbs = 12

// Fp is an element of GF(p) in Montgomery form. Only the first n limbs of the
// owning Field are meaningful; the rest stay zero.
type Fp [MaxLimbs]uint64

// Field holds the Montgomery constants for one prime p = 3 mod 4.
//
// A Field is immutable after New returns and may be shared by any number of
// goroutines.
type Field struct {
	n       int
	byteLen int

	p    Fp
	pInv uint64 // -p^-1 mod 2^64
	r2   Fp     // R^2 mod p, R = 2^(64n)
	one  Fp     // R mod p
	half Fp     // 2^-1 in Montgomery form

	modulus *big.Int
	invExp  *big.Int // p-2
	sqrtExp *big.Int // (p+1)/4
	legExp  *big.Int // (p-1)/2
}

// New derives the Montgomery constants for p. The prime must be congruent to
// 3 mod 4 and fit in MaxLimbs limbs.
func New(p *big.Int) (*Field, error) {
	if p.Sign() <= 0 || p.Bit(0) != 1 || p.Bit(1) != 1 {
		return nil, fmt.Errorf("field: modulus must be 3 mod 4")
	}
	n := (p.BitLen() + 63) / 64
	if n > MaxLimbs {
		return nil, fmt.Errorf("field: modulus of %d bits exceeds %d limbs", p.BitLen(), MaxLimbs)
	}

	f := &Field{
		n:       n,
		byteLen: (p.BitLen() + 7) / 8,
		modulus: new(big.Int).Set(p),
	}
	f.p = limbsFromBig(p)

	// Newton iteration doubles the number of correct low bits each round.
	inv := f.p[0]
	for i := 0; i < 6; i++ {
		inv *= 2 - f.p[0]*inv
	}
	f.pInv = -inv

	r := new(big.Int).Lsh(big.NewInt(1), uint(64*n))
	f.one = limbsFromBig(new(big.Int).Mod(r, p))
	f.r2 = limbsFromBig(new(big.Int).Mod(new(big.Int).Mul(r, r), p))

	two := big.NewInt(2)
	f.invExp = new(big.Int).Sub(p, two)
	f.sqrtExp = new(big.Int).Rsh(new(big.Int).Add(p, big.NewInt(1)), 2)
	f.legExp = new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)

	halfPlain := limbsFromBig(new(big.Int).ModInverse(two, p))
	f.toMont(&f.half, &halfPlain)
	return f, nil
}

// Limbs reports the number of active 64-bit limbs.
func (f *Field) Limbs() int { return f.n }

// ByteLen is the length of one encoded GF(p) element.
func (f *Field) ByteLen() int { return f.byteLen }

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.modulus) }

func limbsFromBig(x *big.Int) Fp {
	var buf [MaxLimbs * 8]byte
	x.FillBytes(buf[:])
	var z Fp
	for i := 0; i < MaxLimbs; i++ {
		z[i] = binary.BigEndian.Uint64(buf[len(buf)-8*(i+1):])
	}
	return z
}

func bigFromLimbs(x *Fp, n int) *big.Int {
	buf := make([]byte, 8*n)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(buf[len(buf)-8*(i+1):], x[i])
	}
	return new(big.Int).SetBytes(buf)
}

func (f *Field) fpAdd(z, x, y *Fp) {
	var t, s Fp
	var c, b uint64
	for i := 0; i < f.n; i++ {
		t[i], c = bits.Add64(x[i], y[i], c)
	}
	for i := 0; i < f.n; i++ {
		s[i], b = bits.Sub64(t[i], f.p[i], b)
	}
	_, b = bits.Sub64(c, 0, b)
	keep := -b
	for i := 0; i < f.n; i++ {
		z[i] = (t[i] & keep) | (s[i] &^ keep)
	}
}

func (f *Field) fpSub(z, x, y *Fp) {
	var t Fp
	var b, c uint64
	for i := 0; i < f.n; i++ {
		t[i], b = bits.Sub64(x[i], y[i], b)
	}
	mask := -b
	for i := 0; i < f.n; i++ {
		z[i], c = bits.Add64(t[i], f.p[i]&mask, c)
	}
}

func (f *Field) fpNeg(z, x *Fp) {
	var zero Fp
	f.fpSub(z, &zero, x)
}

// fpMul is word-serial Montgomery multiplication (CIOS). z may alias x or y.
func (f *Field) fpMul(z, x, y *Fp) {
	n := f.n
	var t [MaxLimbs + 2]uint64
	for i := 0; i < n; i++ {
		var c, cc uint64
		xi := x[i]
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(xi, y[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[n], cc = bits.Add64(t[n], c, 0)
		t[n+1] = cc

		m := t[0] * f.pInv
		hi, lo := bits.Mul64(m, f.p[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(m, f.p[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[n-1], cc = bits.Add64(t[n], c, 0)
		t[n] = t[n+1] + cc
	}

	var s Fp
	var b uint64
	for i := 0; i < n; i++ {
		s[i], b = bits.Sub64(t[i], f.p[i], b)
	}
	_, b = bits.Sub64(t[n], 0, b)
	keep := -b
	for i := 0; i < n; i++ {
		z[i] = (t[i] & keep) | (s[i] &^ keep)
	}
}

func (f *Field) fpSqr(z, x *Fp) { f.fpMul(z, x, x) }

func (f *Field) toMont(z, x *Fp) { f.fpMul(z, x, &f.r2) }

func (f *Field) fromMont(z, x *Fp) {
	var unit Fp
	unit[0] = 1
	f.fpMul(z, x, &unit)
}

// fpExp raises x to a public exponent. The branch on exponent bits only
// depends on e.
func (f *Field) fpExp(z, x *Fp, e *big.Int) {
	acc := f.one
	base := *x
	for i := e.BitLen() - 1; i >= 0; i-- {
		f.fpSqr(&acc, &acc)
		if e.Bit(i) == 1 {
			f.fpMul(&acc, &acc, &base)
		}
	}
	*z = acc
}

// fpInv inverts by Fermat's little theorem; zero maps to zero.
func (f *Field) fpInv(z, x *Fp) { f.fpExp(z, x, f.invExp) }

// fpInvVartime inverts through math/big. Public inputs only.
func (f *Field) fpInvVartime(z, x *Fp) {
	var plain Fp
	f.fromMont(&plain, x)
	v := bigFromLimbs(&plain, f.n)
	if v.Sign() == 0 {
		*z = Fp{}
		return
	}
	v.ModInverse(v, f.modulus)
	plain = limbsFromBig(v)
	f.toMont(z, &plain)
}

// fpIsZero returns 1 if x is zero and 0 otherwise, in constant time.
func (f *Field) fpIsZero(x *Fp) uint64 {
	var acc uint64
	for i := 0; i < f.n; i++ {
		acc |= x[i]
	}
	return 1 ^ ((acc | -acc) >> 63)
}

func (f *Field) fpEqual(x, y *Fp) uint64 {
	var acc uint64
	for i := 0; i < f.n; i++ {
		acc |= x[i] ^ y[i]
	}
	return 1 ^ ((acc | -acc) >> 63)
}

// fpLessThanP returns 1 if the plain (non-Montgomery) limbs encode a value
// below p.
func (f *Field) fpLessThanP(x *Fp) uint64 {
	var b uint64
	for i := 0; i < f.n; i++ {
		_, b = bits.Sub64(x[i], f.p[i], b)
	}
	return b
}

func (f *Field) fpSetUint64(z *Fp, v uint64) {
	var plain Fp
	plain[0] = v
	f.toMont(z, &plain)
}

// fpParity reports the low bit of the canonical value of x.
func (f *Field) fpParity(x *Fp) uint64 {
	var plain Fp
	f.fromMont(&plain, x)
	return plain[0] & 1
}
