package sidh

import (
	"context"
	"time"

	"github.com/coinbase/sidh-go/internal/compress"
	"github.com/coinbase/sidh-go/internal/isogeny"
)

// Agree derives role's shared secret from its private key and the peer's
// public key. Both parties of an honest exchange obtain the same bytes: the
// canonical encoding of the j-invariant of the final curve.
//
// A peer key that does not describe points of the right order on a
// nonsingular supersingular curve fails with ErrInvalidPeerKey. All
// structural checks are evaluated before the verdict is branched on.
func (e *Engine) Agree(ctx context.Context, set ParameterSet, role Role, priv, peerPub []byte) ([]byte, error) {
	start := time.Now()
	ss, err := e.agree(set, role, priv, peerPub)
	e.finish(ctx, OpAgree, set, role, start, err)
	return ss, err
}

func (e *Engine) agree(set ParameterSet, role Role, priv, peerPub []byte) ([]byte, error) {
	const op = "Agree"
	p, r, err := e.prepare(op, set, role, priv)
	if err != nil {
		return nil, err
	}
	want := p.PublicKeyLen()
	if set.Compressed() {
		want = p.CompressedLen()
	}
	if len(peerPub) != want {
		return nil, errorf(op, "%w: peer public key has %d bytes, want %d", ErrKeyLengthMismatch, len(peerPub), want)
	}

	var pk isogeny.PublicKey
	var ok uint64
	if set.Compressed() {
		// The peer's key carries the images of our own torsion basis.
		ok = compress.Decompress(p, r, peerPub, &pk)
	} else {
		ok = p.DecodePublicKey(&pk, peerPub)
	}
	ok &= p.ValidatePeer(r, &pk)
	if ok != 1 {
		return nil, &Error{Op: op, Err: ErrInvalidPeerKey}
	}

	j := p.SharedSecret(r, priv, &pk)
	out := make([]byte, p.SharedSecretLen())
	p.F.Encode(out, &j)
	return out, nil
}
