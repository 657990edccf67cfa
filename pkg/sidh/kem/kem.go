package kem

// KEM encapsulates secrets to an SIDH public key. Every length is fixed by
// the parameter set the KEM was built for and is reported by the Len
// methods, so callers never hard-code sizes. For the SIKE implementation:
//
//	set        public key  ciphertext  secret
//	P434       330         346         16
//	P434Comp   195         211         16
//	P503       378         402         24
//	P503Comp   223         247         24
//	P610       462         486         24
//	P610Comp   272         296         24
//	P751       564         596         32
//	P751Comp   333         365         32
//
// A ciphertext is an ephemeral RoleA public key followed by the masked
// message, so compressed sets shrink ciphertexts as well as public keys.
type KEM interface {
	// Encapsulate derives a ciphertext and shared secret for the public key
	// ek. rho is the 32-byte seed the ephemeral SIDH scalar and message are
	// derived from; the same (ek, rho) gives the same output.
	Encapsulate(ek []byte, rho [32]byte) (ct, ss []byte, err error)

	// Decapsulate recovers the shared secret from ct using a handle returned
	// by the implementation's NewPrivateKeyHandle. A tampered ciphertext
	// yields a pseudorandom secret rather than an error.
	Decapsulate(skHandle any, ct []byte) (ss []byte, err error)

	// DerivePub returns the public key embedded in a private key reference.
	DerivePub(skRef []byte) ([]byte, error)

	// PublicKeyLen is the length of ek.
	PublicKeyLen() int

	// CiphertextLen is the length of ct.
	CiphertextLen() int

	// SharedSecretLen is the length of ss.
	SharedSecretLen() int
}
