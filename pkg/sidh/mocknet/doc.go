// Package mocknet provides an in-memory transport implementation for testing and examples.
//
// Mocknet implements the sidh.Transport interface using in-memory channels,
// allowing key exchanges to run without actual network communication.
// It provides sequenced, reliable message delivery between two parties.
//
// # Features
//
//   - Sequenced message delivery (guarantees message ordering)
//   - Context-based cancellation support
//   - Thread-safe concurrent operations
//   - Optional tampering hook to simulate an active attacker
//
// # Usage
//
//	net := mocknet.New()
//	epA, epB := net.Pair()
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(func() error { _, err := exchange.Run(ctx, eng, epA, sidh.P434, sidh.RoleA); return err })
//	g.Go(func() error { _, err := exchange.Run(ctx, eng, epB, sidh.P434, sidh.RoleB); return err })
//	err := g.Wait()
//
// # Testing Tips
//
//   - Always use context.WithTimeout to prevent test hangs
//   - Run parties in separate goroutines to simulate concurrent execution
//   - Use SetTamper to flip bits in public keys and check that the peer
//     rejects them or derives a different secret
//
// # Limitations
//
// Mocknet is designed for testing and examples only:
//   - No encryption or authentication
//   - No network latency simulation
//   - Not suitable for production use
//
// See examples/tlsnet for a TLS-based transport implementation.
package mocknet
