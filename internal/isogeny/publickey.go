package isogeny

import "github.com/coinbase/sidh-go/internal/field"

// PublicKey is a decoded public key: the x-coordinates of the images of the
// peer basis P, Q and of P - Q. The curve coefficient is implied by them.
type PublicKey struct {
	XP, XQ, XR field.Fp2
}

// EncodePublicKey writes pk to dst as xP || xQ || xR. dst must hold
// PublicKeyLen bytes.
func (p *Params) EncodePublicKey(dst []byte, pk *PublicKey) {
	n := p.F.EncodedLen()
	p.F.Encode(dst[:n], &pk.XP)
	p.F.Encode(dst[n:2*n], &pk.XQ)
	p.F.Encode(dst[2*n:3*n], &pk.XR)
}

// DecodePublicKey parses src, which must hold PublicKeyLen bytes, and
// returns 1 if every coordinate is canonical. pk is written either way.
func (p *Params) DecodePublicKey(pk *PublicKey, src []byte) uint64 {
	n := p.F.EncodedLen()
	ok := p.F.Decode(&pk.XP, src[:n])
	ok &= p.F.Decode(&pk.XQ, src[n:2*n])
	ok &= p.F.Decode(&pk.XR, src[2*n:3*n])
	return ok
}

// CurveOf returns the Montgomery coefficient of the curve pk lives on.
func (p *Params) CurveOf(pk *PublicKey) field.Fp2 {
	return getA(p.F, &pk.XP, &pk.XQ, &pk.XR)
}
