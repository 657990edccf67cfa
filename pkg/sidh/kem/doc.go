// Package kem provides a Key Encapsulation Mechanism (KEM) abstraction over
// SIDH key agreement.
//
// # Available Implementations
//
//   - sike: the SIKE construction, SIDH plus a Fujisaki-Okamoto transform
//     with SHAKE256, over any of the eight sidh.ParameterSet values; the
//     compressed sets give shorter public keys and ciphertexts
//
// # Determinism
//
// Encapsulate takes a 32-byte seed rho instead of reading randomness itself,
// so the same (ek, rho) always yields the same ciphertext. Callers must draw
// a fresh, unpredictable rho for every encapsulation.
//
// # Security Warning
//
// SIKE is broken by the Castryck-Decru attack on SIDH. The KEM is provided
// for interoperability testing and research only.
//
// # Usage
//
//	k, _ := sike.New(sidh.New(sidh.Config{}), sidh.P434)
//	skRef, ek, _ := k.Generate(rand.Reader)
//
//	var rho [32]byte
//	_, _ = rand.Read(rho[:])
//	ct, ss, _ := k.Encapsulate(ek, rho)
//
//	handle, _ := k.NewPrivateKeyHandle(skRef)
//	defer k.FreePrivateKeyHandle(handle)
//	ss2, _ := k.Decapsulate(handle, ct)
package kem
