package isogeny

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/coinbase/sidh-go/internal/field"
)

// Role selects one of the two torsion subgroups. RoleA walks the 2-power
// torsion, RoleB the 3-power torsion.
type Role int

const (
	RoleA Role = iota
	RoleB
)

// Other returns the opposite role.
func (r Role) Other() Role { return 1 - r }

func (r Role) String() string {
	switch r {
	case RoleA:
		return "A"
	case RoleB:
		return "B"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Side is the data that distinguishes the two roles.
type Side struct {
	// Ell is the torsion prime and E its exponent.
	Ell, E int
	// Order is Ell^E, the bound on private scalars.
	Order *big.Int
	// Bits is the number of scalar bits the kernel ladder reads.
	Bits int
	// KeyLen is the length of an encoded private scalar.
	KeyLen int

	cofactor *big.Int
	orderLE  []byte
	strategy []int
}

// Params holds the curve data of one security level. It is built once and
// read-only afterwards.
type Params struct {
	Level  int
	EA, EB int
	F      *field.Field

	start field.Fp2
	order *big.Int // p + 1, the exponent of E(GF(p^2)) on the isogeny class
	sides [2]Side
	bases [2]Basis
}

// Side returns the role-specific parameters.
func (p *Params) Side(r Role) *Side { return &p.sides[r] }

// StartBasis returns the torsion basis of role on the starting curve.
func (p *Params) StartBasis(r Role) Basis { return p.bases[r] }

// StartCurve returns the Montgomery coefficient of the starting curve.
func (p *Params) StartCurve() field.Fp2 { return p.start }

// PublicKeyLen is the length of a public key in the normal encoding.
func (p *Params) PublicKeyLen() int { return 3 * p.F.EncodedLen() }

// SharedSecretLen is the length of an encoded j-invariant.
func (p *Params) SharedSecretLen() int { return p.F.EncodedLen() }

// CoeffLen is the length of one coefficient of a compressed public key.
func (p *Params) CoeffLen() int { return max(p.sides[RoleA].KeyLen, p.sides[RoleB].KeyLen) }

// CompressedLen is the length of a public key in the compressed encoding.
func (p *Params) CompressedLen() int { return p.F.EncodedLen() + 1 + 3*p.CoeffLen() }

type levelEntry struct {
	level, eA, eB int

	once   sync.Once
	params *Params
	err    error
}

var registry = []*levelEntry{
	{level: 434, eA: 216, eB: 137},
	{level: 503, eA: 250, eB: 159},
	{level: 610, eA: 305, eB: 192},
	{level: 751, eA: 372, eB: 239},
}

// Levels lists the supported security levels.
func Levels() []int {
	out := make([]int, len(registry))
	for i, e := range registry {
		out[i] = e.level
	}
	return out
}

// Sizes are the encoded lengths of one level. They follow from eA and eB
// alone, so computing them does not build the level's parameters.
type Sizes struct {
	FpBytes    int
	KeyLenA    int
	KeyLenB    int
	PublicKey  int
	Compressed int
	Secret     int
}

// SizesFor returns the encoded lengths of a security level.
func SizesFor(level int) (Sizes, error) {
	for _, e := range registry {
		if e.level != level {
			continue
		}
		orderB := new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(e.eB)), nil)
		prime := new(big.Int).Lsh(orderB, uint(e.eA))
		prime.Sub(prime, big.NewInt(1))

		s := Sizes{
			FpBytes: (prime.BitLen() + 7) / 8,
			KeyLenA: (e.eA + 7) / 8,
			KeyLenB: (orderB.BitLen() + 7) / 8,
		}
		s.Secret = 2 * s.FpBytes
		s.PublicKey = 3 * s.Secret
		s.Compressed = s.Secret + 1 + 3*max(s.KeyLenA, s.KeyLenB)
		return s, nil
	}
	return Sizes{}, fmt.Errorf("isogeny: unsupported security level %d", level)
}

// ForLevel returns the parameters of a security level, building them on
// first use.
func ForLevel(level int) (*Params, error) {
	for _, e := range registry {
		if e.level == level {
			e.once.Do(func() { e.params, e.err = build(e.level, e.eA, e.eB) })
			return e.params, e.err
		}
	}
	return nil, fmt.Errorf("isogeny: unsupported security level %d", level)
}

func build(level, eA, eB int) (*Params, error) {
	orderA := new(big.Int).Lsh(big.NewInt(1), uint(eA))
	orderB := new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(eB)), nil)
	prime := new(big.Int).Mul(orderA, orderB)
	prime.Sub(prime, big.NewInt(1))

	f, err := field.New(prime)
	if err != nil {
		return nil, fmt.Errorf("isogeny: level %d: %w", level, err)
	}

	p := &Params{Level: level, EA: eA, EB: eB, F: f, order: new(big.Int).Mul(orderA, orderB)}
	f.SetUint64(&p.start, 6, 0)

	p.sides[RoleA] = newSide(2, eA, orderA, orderB, eA, optimalStrategy(eA/2, fourMulCost, fourEvalCost))
	p.sides[RoleB] = newSide(3, eB, orderB, orderA, orderB.BitLen(), optimalStrategy(eB, threeMulCost, threeEvalCost))

	for _, r := range []Role{RoleA, RoleB} {
		b, ok := p.BasisOn(&p.start, r)
		if !ok {
			return nil, fmt.Errorf("isogeny: level %d: no %d-torsion basis on the starting curve", level, p.sides[r].Ell)
		}
		p.bases[r] = b
	}
	return p, nil
}

func newSide(ell, e int, order, cofactor *big.Int, bits int, strategy []int) Side {
	keyLen := (bits + 7) / 8
	le := make([]byte, keyLen+1)
	be := order.Bytes()
	for i := range be {
		le[i] = be[len(be)-1-i]
	}
	return Side{
		Ell:      ell,
		E:        e,
		Order:    order,
		Bits:     bits,
		KeyLen:   keyLen,
		cofactor: cofactor,
		orderLE:  le,
		strategy: strategy,
	}
}

// ScalarInRange returns 1 if the little-endian scalar sk is below the order
// of role's torsion subgroup and 0 otherwise. It runs in time that depends
// only on len(sk), which must equal the role's KeyLen.
func (p *Params) ScalarInRange(r Role, sk []byte) uint64 {
	order := p.sides[r].orderLE
	var borrow uint32
	for i := range order {
		var b uint32
		if i < len(sk) {
			b = uint32(sk[i])
		}
		d := b - uint32(order[i]) - borrow
		borrow = d >> 31
	}
	return uint64(borrow)
}

// repeatMul sets q to [ell^e]p on the curve with constants c.
func repeatMul(f *field.Field, ell int, q, p *point, c *curveConst, e int) {
	if ell == 2 {
		xDBLe(f, q, p, c, e)
		return
	}
	xTPLe(f, q, p, c, e)
}
