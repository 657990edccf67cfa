package sike_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/sidh-go/pkg/sidh"
	"github.com/coinbase/sidh-go/pkg/sidh/kem"
	"github.com/coinbase/sidh-go/pkg/sidh/kem/sike"
	"github.com/coinbase/sidh-go/pkg/sidh/logging"
)

func newKEM(t *testing.T, set sidh.ParameterSet) *sike.KEM {
	t.Helper()
	k, err := sike.New(sidh.New(sidh.Config{Logger: logging.Discard()}), set)
	require.NoError(t, err)
	return k
}

func freshRho(t *testing.T) [32]byte {
	t.Helper()
	var rho [32]byte
	_, err := rand.Read(rho[:])
	require.NoError(t, err)
	return rho
}

func TestRoundTrip(t *testing.T) {
	for _, set := range []sidh.ParameterSet{sidh.P434, sidh.P434Comp} {
		t.Run(set.String(), func(t *testing.T) {
			k := newKEM(t, set)
			skRef, ek, err := k.Generate(nil)
			require.NoError(t, err)
			require.Len(t, skRef, k.PrivateKeyLen())
			require.Len(t, ek, k.PublicKeyLen())

			ct, ss, err := k.Encapsulate(ek, freshRho(t))
			require.NoError(t, err)
			require.Len(t, ct, k.CiphertextLen())
			require.Len(t, ss, k.SharedSecretLen())

			handle, err := k.NewPrivateKeyHandle(skRef)
			require.NoError(t, err)
			defer func() { require.NoError(t, k.FreePrivateKeyHandle(handle)) }()

			got, err := k.Decapsulate(handle, ct)
			require.NoError(t, err)
			require.True(t, bytes.Equal(ss, got))

			pub, err := k.DerivePub(skRef)
			require.NoError(t, err)
			require.True(t, bytes.Equal(ek, pub))
		})
	}
}

func TestEncapsulateIsDeterministic(t *testing.T) {
	k := newKEM(t, sidh.P434)
	_, ek, err := k.Generate(nil)
	require.NoError(t, err)
	rho := freshRho(t)

	ct1, ss1, err := k.Encapsulate(ek, rho)
	require.NoError(t, err)
	ct2, ss2, err := k.Encapsulate(ek, rho)
	require.NoError(t, err)
	require.True(t, bytes.Equal(ct1, ct2))
	require.True(t, bytes.Equal(ss1, ss2))

	rho[0] ^= 1
	ct3, _, err := k.Encapsulate(ek, rho)
	require.NoError(t, err)
	require.False(t, bytes.Equal(ct1, ct3))
}

func TestImplicitRejection(t *testing.T) {
	k := newKEM(t, sidh.P434)
	skRef, ek, err := k.Generate(nil)
	require.NoError(t, err)
	handle, err := k.NewPrivateKeyHandle(skRef)
	require.NoError(t, err)

	ct, ss, err := k.Encapsulate(ek, freshRho(t))
	require.NoError(t, err)

	// Tampering with the masked message keeps c0 valid but fails the
	// re-encryption check.
	tampered := append([]byte(nil), ct...)
	tampered[len(tampered)-1] ^= 0x80
	got, err := k.Decapsulate(handle, tampered)
	require.NoError(t, err)
	require.False(t, bytes.Equal(ss, got))

	again, err := k.Decapsulate(handle, tampered)
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, again), "rejection secret must be deterministic")

	// An invalid ephemeral key is rejected the same way.
	garbage := make([]byte, len(ct))
	got, err = k.Decapsulate(handle, garbage)
	require.NoError(t, err)
	require.Len(t, got, k.SharedSecretLen())
}

func TestHandleValidation(t *testing.T) {
	k := newKEM(t, sidh.P434)
	skRef, ek, err := k.Generate(nil)
	require.NoError(t, err)
	ct, _, err := k.Encapsulate(ek, freshRho(t))
	require.NoError(t, err)

	_, err = k.Decapsulate("not-a-handle", ct)
	require.True(t, errors.Is(err, sike.ErrInvalidHandleType))

	handle, err := k.NewPrivateKeyHandle(skRef)
	require.NoError(t, err)
	require.NoError(t, k.FreePrivateKeyHandle(handle))
	_, err = k.Decapsulate(handle, ct)
	require.ErrorIs(t, err, sike.ErrHandleFreed)

	handle, err = k.NewPrivateKeyHandle(skRef)
	require.NoError(t, err)
	_, err = k.Decapsulate(handle, ct[:len(ct)-1])
	require.ErrorIs(t, err, sike.ErrCiphertextLength)

	_, err = k.NewPrivateKeyHandle(skRef[:len(skRef)-1])
	require.ErrorIs(t, err, sike.ErrMalformedPrivateKey)

	// A private key whose stored public key was swapped is refused.
	_, otherEK, err := k.Generate(nil)
	require.NoError(t, err)
	forged := append(append([]byte(nil), skRef[:len(skRef)-len(otherEK)]...), otherEK...)
	_, err = k.DerivePub(forged)
	require.ErrorIs(t, err, sike.ErrMalformedPrivateKey)

	_, _, err = k.Encapsulate(ek[1:], freshRho(t))
	require.ErrorIs(t, err, sidh.ErrKeyLengthMismatch)
}

func TestNewRejectsUnknownSet(t *testing.T) {
	_, err := sike.New(sidh.New(sidh.Config{}), sidh.ParameterSet(99))
	require.ErrorIs(t, err, sidh.ErrUnsupportedParameterSet)
}

func TestLengthsPerSet(t *testing.T) {
	want := map[sidh.ParameterSet][3]int{
		sidh.P434:     {330, 346, 16},
		sidh.P434Comp: {195, 211, 16},
		sidh.P503:     {378, 402, 24},
		sidh.P503Comp: {223, 247, 24},
		sidh.P610:     {462, 486, 24},
		sidh.P610Comp: {272, 296, 24},
		sidh.P751:     {564, 596, 32},
		sidh.P751Comp: {333, 365, 32},
	}
	for _, set := range sidh.ParameterSets() {
		var k kem.KEM = newKEM(t, set)
		got := [3]int{k.PublicKeyLen(), k.CiphertextLen(), k.SharedSecretLen()}
		require.Equal(t, want[set], got, set.String())
	}
}
