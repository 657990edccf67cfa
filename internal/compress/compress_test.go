package compress

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coinbase/sidh-go/internal/field"
	"github.com/coinbase/sidh-go/internal/isogeny"
)

func scalar(t *testing.T, side *isogeny.Side) ([]byte, *big.Int) {
	t.Helper()
	k, err := rand.Int(rand.Reader, side.Order)
	require.NoError(t, err)
	out := make([]byte, side.KeyLen)
	be := k.Bytes()
	for i := range be {
		out[i] = be[len(be)-1-i]
	}
	return out, k
}

func TestPairingIsBilinearAndAlternating(t *testing.T) {
	p, err := isogeny.ForLevel(434)
	require.NoError(t, err)
	f := p.F

	for _, role := range []isogeny.Role{isogeny.RoleA, isogeny.RoleB} {
		side := p.Side(role)
		a := p.StartCurve()
		curve := &isogeny.Curve{F: f, A: a}
		b := p.StartBasis(role)
		w := &weil{c: curve, ell: side.Ell, e: side.E}

		g := w.pair(b.P, b.Q)
		require.False(t, f.IsOne(&g), "pairing of a basis is degenerate")

		self := w.pair(b.P, b.P)
		require.True(t, f.IsOne(&self))

		// e([3]P, Q) = e(P, Q)^3 and e(Q, P) = e(P, Q)^-1.
		k := big.NewInt(3)
		if side.Ell == 3 {
			k = big.NewInt(2)
		}
		lhs := w.pair(curve.ScalarMult(b.P, k), b.Q)
		var rhs, inv, prod = g, g, g
		for i := int64(1); i < k.Int64(); i++ {
			f.Mul(&rhs, &rhs, &g)
		}
		require.Equal(t, uint64(1), f.Equal(&lhs, &rhs), "role %v", role)

		rev := w.pair(b.Q, b.P)
		f.Conj(&inv, &g)
		require.Equal(t, uint64(1), f.Equal(&rev, &inv), "role %v", role)
		f.Mul(&prod, &rev, &g)
		require.True(t, f.IsOne(&prod))
	}
}

func TestDlogRecoversExponent(t *testing.T) {
	p, err := isogeny.ForLevel(434)
	require.NoError(t, err)
	f := p.F
	side := p.Side(isogeny.RoleB)
	curve := &isogeny.Curve{F: f, A: p.StartCurve()}
	b := p.StartBasis(isogeny.RoleB)
	w := &weil{c: curve, ell: side.Ell, e: side.E}

	g := w.pair(b.P, b.Q)
	table, ok := newDlogTable(f, &g, side.Ell, side.E)
	require.True(t, ok)

	_, x := scalar(t, side)
	h := g
	f.Exp(&h, &g, x)
	got, ok := table.log(&h)
	require.True(t, ok)
	require.Equal(t, 0, got.Cmp(x))
}

func roundTrip(t *testing.T, level int) {
	p, err := isogeny.ForLevel(level)
	require.NoError(t, err)

	skA, _ := scalar(t, p.Side(isogeny.RoleA))
	skB, _ := scalar(t, p.Side(isogeny.RoleB))
	pkA := p.GeneratePublicKey(isogeny.RoleA, skA)
	pkB := p.GeneratePublicKey(isogeny.RoleB, skB)

	// A's key carries the 3-power basis images, B's the 2-power ones.
	bufA := make([]byte, p.CompressedLen())
	bufB := make([]byte, p.CompressedLen())
	require.NoError(t, Compress(p, isogeny.RoleB, &pkA, bufA))
	require.NoError(t, Compress(p, isogeny.RoleA, &pkB, bufB))

	var outA, outB isogeny.PublicKey
	require.Equal(t, uint64(1), Decompress(p, isogeny.RoleB, bufA, &outA))
	require.Equal(t, uint64(1), Decompress(p, isogeny.RoleA, bufB, &outB))
	require.Equal(t, uint64(1), p.ValidatePeer(isogeny.RoleB, &outA))
	require.Equal(t, uint64(1), p.ValidatePeer(isogeny.RoleA, &outB))

	jA := p.SharedSecret(isogeny.RoleA, skA, &pkB)
	jAc := p.SharedSecret(isogeny.RoleA, skA, &outB)
	jBc := p.SharedSecret(isogeny.RoleB, skB, &outA)
	require.Equal(t, uint64(1), p.F.Equal(&jA, &jAc), "level %d", level)
	require.Equal(t, uint64(1), p.F.Equal(&jA, &jBc), "level %d", level)
}

func TestCompressRoundTrip(t *testing.T) {
	roundTrip(t, 434)
	if testing.Short() {
		t.Skip("larger levels are slow")
	}
	for _, level := range []int{503, 610, 751} {
		roundTrip(t, level)
	}
}

func TestDecompressRejectsMalformed(t *testing.T) {
	p, err := isogeny.ForLevel(434)
	require.NoError(t, err)
	skA, _ := scalar(t, p.Side(isogeny.RoleA))
	pkA := p.GeneratePublicKey(isogeny.RoleA, skA)
	buf := make([]byte, p.CompressedLen())
	require.NoError(t, Compress(p, isogeny.RoleB, &pkA, buf))

	enc := p.F.EncodedLen()
	var out isogeny.PublicKey

	badFlag := append([]byte(nil), buf...)
	badFlag[enc] = 2
	require.Zero(t, Decompress(p, isogeny.RoleB, badFlag, &out))

	bigCoeff := append([]byte(nil), buf...)
	for i := enc + 1; i < enc+1+p.CoeffLen(); i++ {
		bigCoeff[i] = 0xff
	}
	require.Zero(t, Decompress(p, isogeny.RoleB, bigCoeff, &out))

	badCurve := append([]byte(nil), buf...)
	for i := 0; i < enc; i++ {
		badCurve[i] = 0xff
	}
	require.Zero(t, Decompress(p, isogeny.RoleB, badCurve, &out))

	singular := append([]byte(nil), buf...)
	clear(singular[:enc])
	singular[0] = 2
	require.Zero(t, Decompress(p, isogeny.RoleB, singular, &out))
}

func requireSamePoints(t *testing.T, p *isogeny.Params, want, got *isogeny.PublicKey) {
	t.Helper()
	f := p.F
	require.Equal(t, uint64(1), f.Equal(&want.XP, &got.XP)&f.Equal(&want.XQ, &got.XQ)&f.Equal(&want.XR, &got.XR))
}

// Rejected keys go through the same reconstruction as accepted ones: a bad
// flag is read as its low bit, a large coefficient as its residue and a bad
// curve as the starting curve.
func TestDecompressRejectsAfterFullReconstruction(t *testing.T) {
	p, err := isogeny.ForLevel(434)
	require.NoError(t, err)
	side := p.Side(isogeny.RoleB)
	skA, _ := scalar(t, p.Side(isogeny.RoleA))
	pkA := p.GeneratePublicKey(isogeny.RoleA, skA)
	buf := make([]byte, p.CompressedLen())
	require.NoError(t, Compress(p, isogeny.RoleB, &pkA, buf))
	enc := p.F.EncodedLen()
	n := p.CoeffLen()

	t.Run("flag", func(t *testing.T) {
		bad := append([]byte(nil), buf...)
		bad[enc] = 2 | buf[enc]
		var got, want isogeny.PublicKey
		require.Zero(t, Decompress(p, isogeny.RoleB, bad, &got))
		require.Equal(t, uint64(1), Decompress(p, isogeny.RoleB, buf, &want))
		requireSamePoints(t, p, &want, &got)
	})

	t.Run("coefficient", func(t *testing.T) {
		bad := append([]byte(nil), buf...)
		c := getCoeff(buf[enc+1+n : enc+1+2*n])
		c.Add(c, side.Order)
		putCoeff(bad[enc+1+n:enc+1+2*n], c)
		var got, want isogeny.PublicKey
		require.Zero(t, Decompress(p, isogeny.RoleB, bad, &got))
		require.Equal(t, uint64(1), Decompress(p, isogeny.RoleB, buf, &want))
		requireSamePoints(t, p, &want, &got)
	})

	t.Run("curve", func(t *testing.T) {
		var a field.Fp2
		p.F.SetUint64(&a, 5, 7)
		require.Zero(t, p.InClass(&a))

		bad := append([]byte(nil), buf...)
		p.F.Encode(bad[:enc], &a)
		onStart := append([]byte(nil), buf...)
		start := p.StartCurve()
		p.F.Encode(onStart[:enc], &start)

		var got, want isogeny.PublicKey
		require.Zero(t, Decompress(p, isogeny.RoleB, bad, &got))
		Decompress(p, isogeny.RoleB, onStart, &want)
		requireSamePoints(t, p, &want, &got)
	})
}
