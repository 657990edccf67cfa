package mocknet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

// Tamper rewrites a message in flight. It receives a private copy and
// returns the bytes to deliver.
type Tamper func(from, to sidh.PartyID, msg []byte) []byte

type Net struct {
	mu     sync.Mutex
	q      map[queueKey]chan []byte
	tamper Tamper
}

func New() *Net { return &Net{q: make(map[queueKey]chan []byte)} }

// SetTamper installs fn on every subsequent delivery. Passing nil removes it.
func (n *Net) SetTamper(fn Tamper) {
	n.mu.Lock()
	n.tamper = fn
	n.mu.Unlock()
}

type queueKey struct {
	from sidh.PartyID
	to   sidh.PartyID
	seq  uint64
}

func (n *Net) slot(key queueKey) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := n.q[key]
	if ch == nil {
		ch = make(chan []byte, 1)
		n.q[key] = ch
	}
	return ch
}

func (n *Net) deliver(ctx context.Context, key queueKey, payload []byte) error {
	ch := n.slot(key)
	msg := append([]byte(nil), payload...)
	n.mu.Lock()
	tamper := n.tamper
	n.mu.Unlock()
	if tamper != nil {
		msg = tamper(key.from, key.to, msg)
	}
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Net) await(ctx context.Context, key queueKey) ([]byte, error) {
	ch := n.slot(key)
	select {
	case msg := <-ch:
		n.mu.Lock()
		delete(n.q, key)
		n.mu.Unlock()
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Endpoint is one party's view of the network. Messages to and from its peer
// are numbered, so each direction is delivered in order.
type Endpoint struct {
	net  *Net
	self sidh.PartyID
	peer sidh.PartyID

	sendMu  sync.Mutex
	sendSeq uint64
	recvMu  sync.Mutex
	recvSeq uint64
}

// Ep returns self's endpoint towards peer.
func (n *Net) Ep(self, peer sidh.PartyID) *Endpoint {
	return &Endpoint{net: n, self: self, peer: peer}
}

// Pair returns connected endpoints for RoleA and RoleB.
func (n *Net) Pair() (a, b *Endpoint) {
	return n.Ep(sidh.RoleA.PartyID(), sidh.RoleB.PartyID()), n.Ep(sidh.RoleB.PartyID(), sidh.RoleA.PartyID())
}

func (e *Endpoint) check(other sidh.PartyID) error {
	if other == e.self {
		return errors.New("mocknet: self addressed")
	}
	if other != e.peer {
		return fmt.Errorf("mocknet: unknown peer %d", other)
	}
	return nil
}

func (e *Endpoint) Send(ctx context.Context, to sidh.PartyID, msg []byte) error {
	if err := e.check(to); err != nil {
		return err
	}
	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	if err := e.net.deliver(ctx, queueKey{from: e.self, to: to, seq: e.sendSeq}, msg); err != nil {
		return err
	}
	e.sendSeq++
	return nil
}

func (e *Endpoint) Receive(ctx context.Context, from sidh.PartyID) ([]byte, error) {
	if err := e.check(from); err != nil {
		return nil, err
	}
	e.recvMu.Lock()
	defer e.recvMu.Unlock()

	msg, err := e.net.await(ctx, queueKey{from: from, to: e.self, seq: e.recvSeq})
	if err != nil {
		return nil, err
	}
	e.recvSeq++
	return msg, nil
}

var _ sidh.Transport = (*Endpoint)(nil)
