// Package sidh implements Supersingular Isogeny Diffie-Hellman key agreement
// over the p434, p503, p610 and p751 primes, each with a normal and a
// compressed public-key encoding.
//
// Keys, public keys and shared secrets are opaque byte slices whose lengths
// come from LengthsFor. The two parties take asymmetric roles: RoleA walks
// 2-power isogenies and RoleB 3-power isogenies, and an exchange always pairs
// one of each.
//
// # Usage
//
//	eng := sidh.New(sidh.Config{})
//
//	privA, _ := eng.SampleScalarA(ctx, sidh.P434)
//	privB, _ := eng.SampleScalarB(ctx, sidh.P434)
//	pubA, _ := eng.GenerateA(ctx, sidh.P434, privA)
//	pubB, _ := eng.GenerateB(ctx, sidh.P434, privB)
//
//	ssA, _ := eng.AgreeA(ctx, sidh.P434, privA, pubB)
//	ssB, _ := eng.AgreeB(ctx, sidh.P434, privB, pubA)
//	// subtle.ConstantTimeCompare(ssA, ssB) == 1
//
// # Shared secret
//
// The shared secret is the j-invariant of the final curve, an element of
// GF(p^2), encoded as its real part followed by its imaginary part, each
// little-endian in the byte length of p. Isomorphic curves share their
// j-invariant, so the encoding needs no further normalisation.
//
// # Security
//
// Private scalars only ever reach constant-time code: range checks, the
// three-point ladder and the isogeny walk branch on public data alone. Peer
// public keys are validated before use and every validation check runs before
// the verdict is known. Compressed keys are decoded in variable time since
// they are public.
//
// SIDH is broken by the 2022 Castryck-Decru key-recovery attack. This package
// exists for interoperability and research; do not use it to protect data.
package sidh
