package sidh

import "context"

// PartyID identifies an endpoint of an exchange. The exchange package uses
// the role's numeric value, so RoleA talks as 0 and RoleB as 1.
type PartyID uint32

// PartyID returns the endpoint id conventionally used for r.
func (r Role) PartyID() PartyID { return PartyID(r) }

// Transport carries public keys between the two parties of an exchange.
//
// Concurrency: Implementations MUST be safe for concurrent use by multiple
// goroutines.
//
// Cancellation: ctx bounds each call. Key agreement itself is not
// cancellable; only the transport steps around it are.
//
// Semantics: messages between a pair of parties are delivered reliably and in
// order. Implementations must copy msg if they retain it.
type Transport interface {
	Send(ctx context.Context, to PartyID, msg []byte) error
	Receive(ctx context.Context, from PartyID) ([]byte, error)
}
