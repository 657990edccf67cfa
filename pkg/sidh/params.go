package sidh

import (
	"fmt"
	"strings"

	"github.com/coinbase/sidh-go/internal/isogeny"
)

// ParameterSet selects a security level and a public-key encoding. The ids
// are stable and part of the wire contract between peers.
type ParameterSet int

const (
	P434 ParameterSet = iota + 1
	P434Comp
	P503
	P503Comp
	P610
	P610Comp
	P751
	P751Comp
)

var setNames = map[ParameterSet]string{
	P434:     "P434",
	P434Comp: "P434Comp",
	P503:     "P503",
	P503Comp: "P503Comp",
	P610:     "P610",
	P610Comp: "P610Comp",
	P751:     "P751",
	P751Comp: "P751Comp",
}

// ParameterSets lists every supported set in id order.
func ParameterSets() []ParameterSet {
	return []ParameterSet{P434, P434Comp, P503, P503Comp, P610, P610Comp, P751, P751Comp}
}

func (s ParameterSet) valid() bool { return s >= P434 && s <= P751Comp }

func (s ParameterSet) String() string {
	if name, ok := setNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ParameterSet(%d)", int(s))
}

// Level returns the security level of s (434, 503, 610 or 751), or 0 for an
// unknown set.
func (s ParameterSet) Level() int {
	if !s.valid() {
		return 0
	}
	return [...]int{434, 503, 610, 751}[(s-1)/2]
}

// Compressed reports whether s uses the compressed public-key encoding.
func (s ParameterSet) Compressed() bool { return s.valid() && s%2 == 0 }

// ParseParameterSet accepts the names printed by String, case-insensitively,
// as well as the decimal ids.
func ParseParameterSet(name string) (ParameterSet, error) {
	for _, s := range ParameterSets() {
		if strings.EqualFold(name, s.String()) || name == fmt.Sprint(int(s)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedParameterSet, name)
}

// FieldLengths are the byte lengths of the buffers a parameter set uses.
// Callers must size buffers from these values rather than hard-coding them.
type FieldLengths struct {
	PrivateKeyA  int
	PrivateKeyB  int
	PublicKey    int
	SharedSecret int
}

// PrivateKey returns the private key length of role.
func (l FieldLengths) PrivateKey(role Role) int {
	if role == RoleB {
		return l.PrivateKeyB
	}
	return l.PrivateKeyA
}

// LengthsFor returns the buffer lengths of set. Unknown sets fail with
// ErrUnsupportedParameterSet. It is safe for concurrent use and does not
// build the level's curve parameters.
func LengthsFor(set ParameterSet) (FieldLengths, error) {
	if !set.valid() {
		return FieldLengths{}, errorf("LengthsFor", "%w: %d", ErrUnsupportedParameterSet, int(set))
	}
	sz, err := isogeny.SizesFor(set.Level())
	if err != nil {
		return FieldLengths{}, &Error{Op: "LengthsFor", Err: err}
	}
	l := FieldLengths{
		PrivateKeyA:  sz.KeyLenA,
		PrivateKeyB:  sz.KeyLenB,
		PublicKey:    sz.PublicKey,
		SharedSecret: sz.Secret,
	}
	if set.Compressed() {
		l.PublicKey = sz.Compressed
	}
	return l, nil
}

// params resolves set to the curve parameters of its level.
func (s ParameterSet) params() (*isogeny.Params, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedParameterSet, int(s))
	}
	return isogeny.ForLevel(s.Level())
}

// Role is one of the two asymmetric parties. RoleA works in the 2-power
// torsion and RoleB in the 3-power torsion; a key agreement always pairs one
// of each.
type Role uint8

const (
	RoleA Role = iota
	RoleB
)

func (r Role) valid() bool { return r == RoleA || r == RoleB }

// Peer returns the role on the other side of an exchange.
func (r Role) Peer() Role {
	if r == RoleA {
		return RoleB
	}
	return RoleA
}

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

func (r Role) internal() isogeny.Role {
	if r == RoleB {
		return isogeny.RoleB
	}
	return isogeny.RoleA
}

// ParseRole accepts "A", "B", "alice" and "bob" in any case.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(name) {
	case "a", "alice":
		return RoleA, nil
	case "b", "bob":
		return RoleB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, name)
}
