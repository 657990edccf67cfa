// Package exchange runs a complete two-party SIDH exchange over a
// sidh.Transport.
//
// # Usage
//
//	net := mocknet.New()
//	epA, epB := net.Pair()
//	a, b, err := exchange.RunPair(ctx, sidh.New(sidh.Config{}), epA, epB, sidh.P434)
//	// a.SharedSecret and b.SharedSecret are equal
//
// Over a real network each process calls Run with its own role.
package exchange
