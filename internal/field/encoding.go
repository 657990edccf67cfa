package field

import "math/big"

// EncodedLen is the length of one encoded GF(p^2) element.
func (f *Field) EncodedLen() int { return 2 * f.byteLen }

func (f *Field) fpEncode(dst []byte, x *Fp) {
	var plain Fp
	f.fromMont(&plain, x)
	for i := 0; i < f.byteLen; i++ {
		dst[i] = byte(plain[i/8] >> (8 * uint(i%8)))
	}
}

// fpDecode loads a little-endian value and returns 1 if it is below p. The
// element is written either way so callers can fold the verdict into a
// single flag.
func (f *Field) fpDecode(z *Fp, src []byte) uint64 {
	var plain Fp
	for i := 0; i < f.byteLen; i++ {
		plain[i/8] |= uint64(src[i]) << (8 * uint(i%8))
	}
	ok := f.fpLessThanP(&plain)
	f.toMont(z, &plain)
	return ok
}

// Encode writes x to dst as real part then imaginary part, each
// little-endian in ByteLen bytes. dst must hold EncodedLen bytes.
func (f *Field) Encode(dst []byte, x *Fp2) {
	f.fpEncode(dst[:f.byteLen], &x.A)
	f.fpEncode(dst[f.byteLen:2*f.byteLen], &x.B)
}

// Decode is the inverse of Encode. It returns 1 when both coordinates are
// canonical and 0 otherwise, without branching on the input.
func (f *Field) Decode(z *Fp2, src []byte) uint64 {
	okA := f.fpDecode(&z.A, src[:f.byteLen])
	okB := f.fpDecode(&z.B, src[f.byteLen:2*f.byteLen])
	return okA & okB
}

// ToBig returns the canonical integers of the real and imaginary parts.
func (f *Field) ToBig(x *Fp2) (re, im *big.Int) {
	var a, b Fp
	f.fromMont(&a, &x.A)
	f.fromMont(&b, &x.B)
	return bigFromLimbs(&a, f.n), bigFromLimbs(&b, f.n)
}

// FromBig sets z = re + im*i after reducing both parts modulo p.
func (f *Field) FromBig(z *Fp2, re, im *big.Int) {
	a := limbsFromBig(new(big.Int).Mod(re, f.modulus))
	b := limbsFromBig(new(big.Int).Mod(im, f.modulus))
	f.toMont(&z.A, &a)
	f.toMont(&z.B, &b)
}
