package sidh

import (
	"context"
	"io"
	"time"
)

// maxSampleAttempts bounds rejection sampling. Each draw for RoleB is accepted
// with probability above one half, so exhausting the bound means the entropy
// source is broken.
const maxSampleAttempts = 128

// SampleScalar draws a private key for role, uniform over [0, order) of the
// role's torsion subgroup. Candidates are masked to the bit length of the
// order and rejected unless below it; the comparison is constant time, and
// the number of draws is independent of the accepted value.
func (e *Engine) SampleScalar(ctx context.Context, set ParameterSet, role Role) ([]byte, error) {
	start := time.Now()
	sk, err := e.sample(set, role)
	e.finish(ctx, OpSample, set, role, start, err)
	return sk, err
}

func (e *Engine) sample(set ParameterSet, role Role) ([]byte, error) {
	const op = "SampleScalar"
	if !role.valid() {
		return nil, errorf(op, "%w: %d", ErrInvalidRole, int(role))
	}
	p, err := set.params()
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	r := role.internal()
	side := p.Side(r)

	buf := make([]byte, side.KeyLen)
	mask := byte(0xff >> (8*side.KeyLen - side.Bits))
	for i := 0; i < maxSampleAttempts; i++ {
		if _, err := io.ReadFull(e.rand, buf); err != nil {
			e.wipe(buf)
			return nil, errorf(op, "%w: %w", ErrEntropyUnavailable, err)
		}
		buf[len(buf)-1] &= mask
		if p.ScalarInRange(r, buf) == 1 {
			return buf, nil
		}
		e.wipe(buf)
	}
	return nil, errorf(op, "%w: no scalar below the order in %d draws", ErrEntropyUnavailable, maxSampleAttempts)
}
