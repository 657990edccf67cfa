package circlsidh

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/sidh"

	"github.com/coinbase/sidh-go/internal/isogeny"
	sidhgo "github.com/coinbase/sidh-go/pkg/sidh"
	"github.com/coinbase/sidh-go/pkg/sidh/logging"
)

// fieldIDs lists the parameter sets circl implements. circl has no 610-bit
// prime and no compressed SIDH keys.
var fieldIDs = map[sidhgo.ParameterSet]uint8{
	sidhgo.P434: sidh.Fp434,
	sidhgo.P503: sidh.Fp503,
	sidhgo.P751: sidh.Fp751,
}

// scalarBits is the number of low scalar bits circl's ladders read, per role.
// circl stores the P434 A scalar in 28 bytes although it has 216 bits, and
// its B key space is [0, 2^floor(log2 3^eB)), a subset of [0, 3^eB).
var scalarBits = map[sidhgo.ParameterSet][2]int{
	sidhgo.P434: {216, 217},
	sidhgo.P503: {250, 252},
	sidhgo.P751: {372, 378},
}

// Supported reports whether set has a circl implementation.
func Supported(set sidhgo.ParameterSet) bool {
	_, ok := fieldIDs[set]
	return ok
}

// Backend implements sidh.KeyAgreement on top of circl. Peer keys are
// checked for full-order torsion images before circl sees them.
type Backend struct {
	rand io.Reader
	log  logging.Logger
}

var _ sidhgo.KeyAgreement = (*Backend)(nil)

// New returns a Backend. A nil rand selects crypto/rand.Reader and a nil
// logger binds to slog.Default().
func New(rng io.Reader, log logging.Logger) *Backend {
	if rng == nil {
		rng = rand.Reader
	}
	if log == nil {
		log = logging.New(nil)
	}
	return &Backend{rand: rng, log: log}
}

func variant(role sidhgo.Role) sidh.KeyVariant {
	if role == sidhgo.RoleB {
		return sidh.KeyVariantSidhB
	}
	return sidh.KeyVariantSidhA
}

// compatibleVariant returns the variant opposite v.
func compatibleVariant(v sidh.KeyVariant) sidh.KeyVariant {
	if v&sidh.KeyVariantSidhA == sidh.KeyVariantSidhA {
		return sidh.KeyVariantSidhB
	}
	return sidh.KeyVariantSidhA
}

func internalRole(role sidhgo.Role) isogeny.Role {
	if role == sidhgo.RoleB {
		return isogeny.RoleB
	}
	return isogeny.RoleA
}

func resolve(op string, set sidhgo.ParameterSet, role sidhgo.Role) (uint8, error) {
	if role != sidhgo.RoleA && role != sidhgo.RoleB {
		return 0, &sidhgo.Error{Op: op, Err: fmt.Errorf("%w: %d", sidhgo.ErrInvalidRole, int(role))}
	}
	id, ok := fieldIDs[set]
	if !ok {
		return 0, &sidhgo.Error{Op: op, Err: fmt.Errorf("%w: %v has no circl implementation", sidhgo.ErrUnsupportedParameterSet, set)}
	}
	return id, nil
}

// guard turns a panic raised inside circl into an error.
func guard(op string, err *error) {
	if r := recover(); r != nil {
		*err = &sidhgo.Error{Op: op, Err: fmt.Errorf("circl: %v", r)}
	}
}

// Lengths returns sidh.LengthsFor(set) for supported sets. Private keys are
// exchanged at these lengths and converted to circl's layout internally.
func (b *Backend) Lengths(set sidhgo.ParameterSet) (sidhgo.FieldLengths, error) {
	if _, err := resolve("Lengths", set, sidhgo.RoleA); err != nil {
		return sidhgo.FieldLengths{}, err
	}
	return sidhgo.LengthsFor(set)
}

// SampleScalar draws a private key with circl's generator. circl sets the
// top bit of the scalar, so the result is a strict subset of the engine's
// key space.
func (b *Backend) SampleScalar(ctx context.Context, set sidhgo.ParameterSet, role sidhgo.Role) (_ []byte, err error) {
	const op = "SampleScalar"
	id, err := resolve(op, set, role)
	if err != nil {
		return nil, err
	}
	l, err := sidhgo.LengthsFor(set)
	if err != nil {
		return nil, &sidhgo.Error{Op: op, Err: err}
	}
	defer guard(op, &err)

	prv := sidh.NewPrivateKey(id, variant(role))
	defer sidhgo.ZeroizeBytes(prv.Scalar)
	if err := prv.Generate(b.rand); err != nil {
		b.log.Warn(ctx, "circl scalar generation failed", b.attrs(op, set, role, logging.Err(err))...)
		return nil, &sidhgo.Error{Op: op, Err: fmt.Errorf("%w: %w", sidhgo.ErrEntropyUnavailable, err)}
	}
	wide := make([]byte, prv.Size())
	defer sidhgo.ZeroizeBytes(wide)
	prv.Export(wide)

	out := make([]byte, l.PrivateKey(role))
	copy(out, wide)
	return out, nil
}

func (b *Backend) attrs(op string, set sidhgo.ParameterSet, role sidhgo.Role, extra ...any) []any {
	return append([]any{logging.Backend("circl"), logging.Op(op), logging.Set(set), logging.Role(role)}, extra...)
}

// exceedsBits returns 1 if the little-endian scalar k has a bit set at
// position bits or above.
func exceedsBits(k []byte, bits int) int {
	var acc byte
	for i := range k {
		lo := 8 * i
		switch {
		case lo >= bits:
			acc |= k[i]
		case lo+8 > bits:
			acc |= k[i] >> uint(bits-lo)
		}
	}
	return subtle.ConstantTimeByteEq(acc, 0) ^ 1
}

// importPrivate checks priv against the set's private key length and
// circl's key space, then widens it to circl's scalar layout.
func (b *Backend) importPrivate(op string, set sidhgo.ParameterSet, role sidhgo.Role, priv []byte) (*sidh.PrivateKey, *isogeny.Params, error) {
	id, err := resolve(op, set, role)
	if err != nil {
		return nil, nil, err
	}
	p, err := isogeny.ForLevel(set.Level())
	if err != nil {
		return nil, nil, &sidhgo.Error{Op: op, Err: err}
	}
	l, err := sidhgo.LengthsFor(set)
	if err != nil {
		return nil, nil, &sidhgo.Error{Op: op, Err: err}
	}
	if want := l.PrivateKey(role); len(priv) != want {
		return nil, nil, &sidhgo.Error{Op: op, Err: fmt.Errorf("%w: private key %v has %d bytes, want %d",
			sidhgo.ErrKeyLengthMismatch, role, len(priv), want)}
	}
	ok := p.ScalarInRange(internalRole(role), priv)
	ok &= uint64(1 ^ exceedsBits(priv, scalarBits[set][internalRole(role)]))
	if ok != 1 {
		return nil, nil, &sidhgo.Error{Op: op, Err: fmt.Errorf("%w: scalar outside the circl key space", sidhgo.ErrInvalidPrivateKey)}
	}

	prv := sidh.NewPrivateKey(id, variant(role))
	wide := make([]byte, prv.Size())
	defer sidhgo.ZeroizeBytes(wide)
	copy(wide, priv)
	if err := prv.Import(wide); err != nil {
		return nil, nil, &sidhgo.Error{Op: op, Err: err}
	}
	return prv, p, nil
}

// GeneratePublicKey derives role's public key with circl.
func (b *Backend) GeneratePublicKey(ctx context.Context, set sidhgo.ParameterSet, role sidhgo.Role, priv []byte) (_ []byte, err error) {
	const op = "GeneratePublicKey"
	prv, _, err := b.importPrivate(op, set, role, priv)
	if err != nil {
		return nil, err
	}
	defer sidhgo.ZeroizeBytes(prv.Scalar)
	defer guard(op, &err)

	pub := sidh.NewPublicKey(fieldIDs[set], prv.Variant())
	prv.GeneratePublicKey(pub)
	out := make([]byte, pub.Size())
	pub.Export(out)
	b.log.Debug(ctx, "circl public key generated", b.attrs(op, set, role, logging.Len(len(out)))...)
	return out, nil
}

// Agree derives role's shared secret with circl. The peer key must pass
// structural validation first; circl itself performs none.
func (b *Backend) Agree(ctx context.Context, set sidhgo.ParameterSet, role sidhgo.Role, priv, peerPub []byte) (_ []byte, err error) {
	const op = "Agree"
	prv, p, err := b.importPrivate(op, set, role, priv)
	if err != nil {
		return nil, err
	}
	defer sidhgo.ZeroizeBytes(prv.Scalar)

	if len(peerPub) != p.PublicKeyLen() {
		return nil, &sidhgo.Error{Op: op, Err: fmt.Errorf("%w: peer public key has %d bytes, want %d",
			sidhgo.ErrKeyLengthMismatch, len(peerPub), p.PublicKeyLen())}
	}
	var pk isogeny.PublicKey
	ok := p.DecodePublicKey(&pk, peerPub)
	ok &= p.ValidatePoints(internalRole(role), &pk)
	if ok != 1 {
		b.log.Warn(ctx, "circl peer key rejected", b.attrs(op, set, role)...)
		return nil, &sidhgo.Error{Op: op, Err: sidhgo.ErrInvalidPeerKey}
	}

	defer guard(op, &err)
	pub := sidh.NewPublicKey(fieldIDs[set], compatibleVariant(prv.Variant()))
	if err := pub.Import(peerPub); err != nil {
		return nil, &sidhgo.Error{Op: op, Err: err}
	}
	ss := make([]byte, prv.SharedSecretSize())
	prv.DeriveSecret(ss, pub)
	return ss, nil
}
