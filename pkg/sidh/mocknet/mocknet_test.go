package mocknet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

func TestNetPairSequence(t *testing.T) {
	net := New()
	a, b := net.Pair()
	idA, idB := sidh.RoleA.PartyID(), sidh.RoleB.PartyID()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	const rounds = 5
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			msg := []byte{byte(i)}
			if err := a.Send(ctx, idB, msg); err != nil {
				t.Errorf("a send %d: %v", i, err)
				return
			}
			got, err := a.Receive(ctx, idB)
			if err != nil {
				t.Errorf("a receive %d: %v", i, err)
				return
			}
			if len(got) != 1 || got[0] != byte(i+1) {
				t.Errorf("a receive %d got %v", i, got)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			got, err := b.Receive(ctx, idA)
			if err != nil {
				t.Errorf("b receive %d: %v", i, err)
				return
			}
			if len(got) != 1 || got[0] != byte(i) {
				t.Errorf("b receive %d got %v", i, got)
				return
			}
			if err := b.Send(ctx, idA, []byte{byte(i + 1)}); err != nil {
				t.Errorf("b send %d: %v", i, err)
				return
			}
		}
	}()

	wg.Wait()
}

func TestSendCopiesPayload(t *testing.T) {
	net := New()
	a, b := net.Pair()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	msg := []byte("public key")
	if err := a.Send(ctx, sidh.RoleB.PartyID(), msg); err != nil {
		t.Fatalf("send: %v", err)
	}
	msg[0] = 'X'
	got, err := b.Receive(ctx, sidh.RoleA.PartyID())
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if string(got) != "public key" {
		t.Fatalf("payload aliased caller buffer: %q", got)
	}
}

func TestTamper(t *testing.T) {
	net := New()
	a, b := net.Pair()
	net.SetTamper(func(from, to sidh.PartyID, msg []byte) []byte {
		if from == sidh.RoleA.PartyID() {
			msg[0] ^= 1
		}
		return msg
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := a.Send(ctx, sidh.RoleB.PartyID(), []byte{0x10}); err != nil {
		t.Fatalf("send: %v", err)
	}
	got, err := b.Receive(ctx, sidh.RoleA.PartyID())
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if got[0] != 0x11 {
		t.Fatalf("tamper not applied: %#v", got)
	}
}

func TestEndpointErrors(t *testing.T) {
	net := New()
	a, _ := net.Pair()
	self, stranger := sidh.RoleA.PartyID(), sidh.PartyID(7)

	if err := a.Send(context.Background(), self, nil); err == nil {
		t.Fatalf("expected send-to-self error")
	}
	if _, err := a.Receive(context.Background(), self); err == nil {
		t.Fatalf("expected receive-from-self error")
	}
	if err := a.Send(context.Background(), stranger, nil); err == nil {
		t.Fatalf("expected unknown peer error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := a.Receive(ctx, sidh.RoleB.PartyID()); err == nil {
		t.Fatalf("expected deadline error with no sender")
	}
}
