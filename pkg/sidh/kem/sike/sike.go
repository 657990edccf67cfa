package sike

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/coinbase/sidh-go/pkg/sidh"
	"github.com/coinbase/sidh-go/pkg/sidh/kem"
)

var (
	// ErrInvalidHandleType indicates Decapsulate received something other
	// than a handle from NewPrivateKeyHandle.
	ErrInvalidHandleType = errors.New("sike: invalid handle type")

	// ErrHandleFreed indicates use of a handle after FreePrivateKeyHandle.
	ErrHandleFreed = errors.New("sike: private key handle freed")

	// ErrMalformedPrivateKey indicates a private key reference of the wrong
	// length or with an out-of-range scalar.
	ErrMalformedPrivateKey = errors.New("sike: malformed private key")

	// ErrCiphertextLength indicates a ciphertext of the wrong length.
	ErrCiphertextLength = errors.New("sike: ciphertext length mismatch")
)

// levelParams holds the message length and the 2-power exponent eA of each
// level. Ephemeral scalars are reduced to eA bits.
var levelParams = map[int]struct{ msgLen, eA int }{
	434: {16, 216},
	503: {24, 250},
	610: {24, 305},
	751: {32, 372},
}

// KEM is SIKE: the long-term key is a RoleB SIDH key, encapsulation runs an
// ephemeral RoleA exchange, and decapsulation re-encrypts to detect tampered
// ciphertexts (Fujisaki-Okamoto with implicit rejection). SHAKE256 is the
// only hash.
//
// Private key references are laid out as s || skB || pkB, where s is the
// implicit-rejection secret.
type KEM struct {
	ka     sidh.KeyAgreement
	set    sidh.ParameterSet
	l      sidh.FieldLengths
	msgLen int
	eA     int
}

var _ kem.KEM = (*KEM)(nil)

// New returns a SIKE KEM over set, performing SIDH operations through ka.
// Compressed sets are accepted: the long-term key and the ephemeral key in
// each ciphertext then use the compressed encoding, and the decapsulation
// check compares compressed re-encryptions. The set must be one ka supports.
func New(ka sidh.KeyAgreement, set sidh.ParameterSet) (*KEM, error) {
	l, err := ka.Lengths(set)
	if err != nil {
		return nil, err
	}
	lp, ok := levelParams[set.Level()]
	if !ok {
		return nil, fmt.Errorf("sike: %w: %v", sidh.ErrUnsupportedParameterSet, set)
	}
	return &KEM{ka: ka, set: set, l: l, msgLen: lp.msgLen, eA: lp.eA}, nil
}

// PublicKeyLen is the length of ek.
func (k *KEM) PublicKeyLen() int { return k.l.PublicKey }

// PrivateKeyLen is the length of skRef.
func (k *KEM) PrivateKeyLen() int { return k.msgLen + k.l.PrivateKeyB + k.l.PublicKey }

// CiphertextLen is the length of a ciphertext.
func (k *KEM) CiphertextLen() int { return k.l.PublicKey + k.msgLen }

// SharedSecretLen is the length of an encapsulated secret.
func (k *KEM) SharedSecretLen() int { return k.msgLen }

// Generate creates a key pair. The rejection secret s is read from rng
// (crypto/rand.Reader when nil); the SIDH scalar comes from ka.
func (k *KEM) Generate(rng io.Reader) (skRef, ek []byte, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	ctx := context.Background()

	s := make([]byte, k.msgLen)
	if _, err := io.ReadFull(rng, s); err != nil {
		return nil, nil, fmt.Errorf("sike: %w: %w", sidh.ErrEntropyUnavailable, err)
	}
	skB, err := k.ka.SampleScalar(ctx, k.set, sidh.RoleB)
	if err != nil {
		return nil, nil, err
	}
	defer sidh.ZeroizeBytes(skB)
	ek, err = k.ka.GeneratePublicKey(ctx, k.set, sidh.RoleB, skB)
	if err != nil {
		return nil, nil, err
	}

	skRef = make([]byte, 0, k.PrivateKeyLen())
	skRef = append(skRef, s...)
	skRef = append(skRef, skB...)
	skRef = append(skRef, ek...)
	sidh.ZeroizeBytes(s)
	return skRef, ek, nil
}

// Encapsulate derives the message m from rho and ek, encrypts it under ek and
// returns the ciphertext with the shared secret SHAKE256(m || ct).
func (k *KEM) Encapsulate(ek []byte, rho [32]byte) (ct, ss []byte, err error) {
	if len(ek) != k.l.PublicKey {
		return nil, nil, fmt.Errorf("sike: %w: public key has %d bytes, want %d", sidh.ErrKeyLengthMismatch, len(ek), k.l.PublicKey)
	}
	m := shake(k.msgLen, rho[:], ek)
	defer sidh.ZeroizeBytes(m)

	ct, err = k.encrypt(ek, m)
	if err != nil {
		return nil, nil, err
	}
	return ct, shake(k.msgLen, m, ct), nil
}

// encrypt is the deterministic public-key encryption underneath the
// transform: c0 is the ephemeral RoleA public key, c1 masks m with a hash of
// the j-invariant.
func (k *KEM) encrypt(ek, m []byte) ([]byte, error) {
	ctx := context.Background()
	r := k.ephemeral(m, ek)
	defer sidh.ZeroizeBytes(r)

	c0, err := k.ka.GeneratePublicKey(ctx, k.set, sidh.RoleA, r)
	if err != nil {
		return nil, err
	}
	j, err := k.ka.Agree(ctx, k.set, sidh.RoleA, r, ek)
	if err != nil {
		return nil, err
	}
	defer sidh.ZeroizeBytes(j)

	ct := make([]byte, 0, k.CiphertextLen())
	ct = append(ct, c0...)
	mask := shake(k.msgLen, j)
	subtle.XORBytes(mask, mask, m)
	return append(ct, mask...), nil
}

// ephemeral hashes m and ek to a RoleA scalar. Every eA-bit string is a
// valid RoleA scalar, so masking keeps it uniform.
func (k *KEM) ephemeral(m, ek []byte) []byte {
	r := shake(k.l.PrivateKeyA, m, ek)
	if rem := k.eA % 8; rem != 0 {
		r[len(r)-1] &= byte(1<<rem) - 1
	}
	return r
}

// Decapsulate recovers the shared secret. A ciphertext that fails the
// re-encryption check yields SHAKE256(s || ct) instead of an error, so a
// forger learns nothing from the outcome.
func (k *KEM) Decapsulate(skHandle any, ct []byte) (ss []byte, err error) {
	h, ok := skHandle.(*privateKeyHandle)
	if !ok {
		return nil, ErrInvalidHandleType
	}
	h.mu.RLock()
	sk := append([]byte(nil), h.sk...)
	h.mu.RUnlock()
	if len(sk) == 0 {
		return nil, ErrHandleFreed
	}
	defer sidh.ZeroizeBytes(sk)

	if len(ct) != k.CiphertextLen() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrCiphertextLength, len(ct), k.CiphertextLen())
	}
	s, skB, pk := k.split(sk)
	c0, c1 := ct[:k.l.PublicKey], ct[k.l.PublicKey:]

	valid := 1
	j, err := k.ka.Agree(context.Background(), k.set, sidh.RoleB, skB, c0)
	switch {
	case errors.Is(err, sidh.ErrInvalidPeerKey):
		valid, j = 0, make([]byte, k.l.SharedSecret)
	case err != nil:
		return nil, err
	}
	defer sidh.ZeroizeBytes(j)

	m := shake(k.msgLen, j)
	subtle.XORBytes(m, m, c1)
	defer sidh.ZeroizeBytes(m)

	again, err := k.encrypt(pk, m)
	if err != nil {
		return nil, err
	}
	valid &= subtle.ConstantTimeCompare(again, ct)

	key := append([]byte(nil), s...)
	subtle.ConstantTimeCopy(valid, key, m)
	defer sidh.ZeroizeBytes(key)
	return shake(k.msgLen, key, ct), nil
}

// DerivePub recomputes the public key from a private key reference and
// checks it against the stored copy.
func (k *KEM) DerivePub(skRef []byte) ([]byte, error) {
	if len(skRef) != k.PrivateKeyLen() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedPrivateKey, len(skRef), k.PrivateKeyLen())
	}
	_, skB, pk := k.split(skRef)
	pub, err := k.ka.GeneratePublicKey(context.Background(), k.set, sidh.RoleB, skB)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPrivateKey, err)
	}
	if subtle.ConstantTimeCompare(pub, pk) != 1 {
		return nil, fmt.Errorf("%w: stored public key does not match", ErrMalformedPrivateKey)
	}
	return pub, nil
}

func (k *KEM) split(sk []byte) (s, skB, pk []byte) {
	s = sk[:k.msgLen]
	skB = sk[k.msgLen : k.msgLen+k.l.PrivateKeyB]
	pk = sk[k.msgLen+k.l.PrivateKeyB:]
	return s, skB, pk
}

type privateKeyHandle struct {
	mu sync.RWMutex
	sk []byte
}

// NewPrivateKeyHandle validates skRef and returns a handle for Decapsulate.
// The handle holds its own copy of the key.
func (k *KEM) NewPrivateKeyHandle(skRef []byte) (any, error) {
	if _, err := k.DerivePub(skRef); err != nil {
		return nil, err
	}
	return &privateKeyHandle{sk: append([]byte(nil), skRef...)}, nil
}

// FreePrivateKeyHandle zeroizes the key held by handle.
func (k *KEM) FreePrivateKeyHandle(handle any) error {
	h, ok := handle.(*privateKeyHandle)
	if !ok {
		return ErrInvalidHandleType
	}
	h.mu.Lock()
	sidh.ZeroizeBytes(h.sk)
	h.sk = nil
	h.mu.Unlock()
	return nil
}

func shake(n int, parts ...[]byte) []byte {
	h := sha3.NewShake256()
	for _, p := range parts {
		h.Write(p)
	}
	out := make([]byte, n)
	h.Read(out)
	return out
}
