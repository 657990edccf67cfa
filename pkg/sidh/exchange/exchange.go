package exchange

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

// Result is one party's view of a completed exchange.
type Result struct {
	Set           sidh.ParameterSet
	Role          sidh.Role
	PublicKey     []byte
	PeerPublicKey []byte
	SharedSecret  []byte
}

// Run performs one ephemeral exchange as role: it samples a private key,
// sends its public key to the peer, receives the peer's public key and
// derives the shared secret. The private key is wiped before Run returns.
//
// Both parties send before they receive, so the transport must buffer at
// least one message per direction.
func Run(ctx context.Context, ka sidh.KeyAgreement, tr sidh.Transport, set sidh.ParameterSet, role sidh.Role) (*Result, error) {
	l, err := ka.Lengths(set)
	if err != nil {
		return nil, err
	}
	peer := role.Peer().PartyID()

	priv, err := ka.SampleScalar(ctx, set, role)
	if err != nil {
		return nil, err
	}
	defer sidh.ZeroizeBytes(priv)

	pub, err := ka.GeneratePublicKey(ctx, set, role, priv)
	if err != nil {
		return nil, err
	}
	if err := tr.Send(ctx, peer, pub); err != nil {
		return nil, fmt.Errorf("exchange: send public key: %w", err)
	}
	peerPub, err := tr.Receive(ctx, peer)
	if err != nil {
		return nil, fmt.Errorf("exchange: receive public key: %w", err)
	}
	if len(peerPub) != l.PublicKey {
		return nil, fmt.Errorf("exchange: %w: peer sent %d bytes, want %d", sidh.ErrKeyLengthMismatch, len(peerPub), l.PublicKey)
	}

	ss, err := ka.Agree(ctx, set, role, priv, peerPub)
	if err != nil {
		return nil, err
	}
	return &Result{Set: set, Role: role, PublicKey: pub, PeerPublicKey: peerPub, SharedSecret: ss}, nil
}

// RunPair runs both roles concurrently, A over trA and B over trB, and
// returns their results. The first failure cancels the other party.
func RunPair(ctx context.Context, ka sidh.KeyAgreement, trA, trB sidh.Transport, set sidh.ParameterSet) (a, b *Result, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = Run(gctx, ka, trA, set, sidh.RoleA)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = Run(gctx, ka, trB, set, sidh.RoleB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
