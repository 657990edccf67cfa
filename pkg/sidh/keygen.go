package sidh

import (
	"context"
	"time"

	"github.com/coinbase/sidh-go/internal/compress"
	"github.com/coinbase/sidh-go/internal/isogeny"
)

// GeneratePublicKey derives role's public key from priv. The result is a
// deterministic function of (set, role, priv) and has length
// LengthsFor(set).PublicKey.
func (e *Engine) GeneratePublicKey(ctx context.Context, set ParameterSet, role Role, priv []byte) ([]byte, error) {
	start := time.Now()
	pub, err := e.generate(set, role, priv)
	e.finish(ctx, OpGenerate, set, role, start, err)
	return pub, err
}

func (e *Engine) generate(set ParameterSet, role Role, priv []byte) ([]byte, error) {
	const op = "GeneratePublicKey"
	p, r, err := e.prepare(op, set, role, priv)
	if err != nil {
		return nil, err
	}

	pk := p.GeneratePublicKey(r, priv)
	if !set.Compressed() {
		out := make([]byte, p.PublicKeyLen())
		p.EncodePublicKey(out, &pk)
		return out, nil
	}
	// The key carries the images of the peer's torsion basis.
	out := make([]byte, p.CompressedLen())
	if err := compress.Compress(p, r.Other(), &pk, out); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return out, nil
}

// prepare resolves the parameters and checks the private key's length and
// range. The range check is constant time; only its verdict is branched on.
func (e *Engine) prepare(op string, set ParameterSet, role Role, priv []byte) (*isogeny.Params, isogeny.Role, error) {
	if !role.valid() {
		return nil, 0, errorf(op, "%w: %d", ErrInvalidRole, int(role))
	}
	p, err := set.params()
	if err != nil {
		return nil, 0, &Error{Op: op, Err: err}
	}
	r := role.internal()
	if want := p.Side(r).KeyLen; len(priv) != want {
		return nil, 0, errorf(op, "%w: private key %v has %d bytes, want %d", ErrKeyLengthMismatch, role, len(priv), want)
	}
	if p.ScalarInRange(r, priv) != 1 {
		return nil, 0, &Error{Op: op, Err: ErrInvalidPrivateKey}
	}
	return p, r, nil
}
