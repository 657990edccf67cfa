package isogeny

import (
	"math/big"

	"github.com/coinbase/sidh-go/internal/field"
)

// Point is an affine point on a Montgomery curve. Inf marks the identity.
type Point struct {
	X, Y field.Fp2
	Inf  bool
}

// Curve is the Montgomery curve y^2 = x^3 + A x^2 + x. Its methods branch on
// their inputs and must only be used with public points.
type Curve struct {
	F *field.Field
	A field.Fp2
}

// RHS returns x^3 + A x^2 + x.
func (c *Curve) RHS(x *field.Fp2) field.Fp2 {
	f := c.F
	var t, one field.Fp2
	one = f.One()
	f.Add(&t, x, &c.A)
	f.Mul(&t, &t, x)
	f.Add(&t, &t, &one)
	f.Mul(&t, &t, x)
	return t
}

// HasX reports whether x is the x-coordinate of a point on the curve rather
// than on its quadratic twist.
func (c *Curve) HasX(x *field.Fp2) bool {
	r := c.RHS(x)
	return c.F.IsSquare(&r)
}

// Lift returns the point with x-coordinate x and the canonical square root
// as y-coordinate.
func (c *Curve) Lift(x *field.Fp2) (Point, bool) {
	r := c.RHS(x)
	var y field.Fp2
	if !c.F.Sqrt(&y, &r) {
		return Point{}, false
	}
	return Point{X: *x, Y: y}, true
}

func (c *Curve) Neg(p Point) Point {
	if !p.Inf {
		c.F.Neg(&p.Y, &p.Y)
	}
	return p
}

func (c *Curve) Equal(p, q Point) bool {
	if p.Inf || q.Inf {
		return p.Inf == q.Inf
	}
	return c.F.Equal(&p.X, &q.X) == 1 && c.F.Equal(&p.Y, &q.Y) == 1
}

func (c *Curve) Double(p Point) Point {
	f := c.F
	if p.Inf || f.IsZero(&p.Y) == 1 {
		return Point{Inf: true}
	}
	// lambda = (3x^2 + 2Ax + 1) / 2y
	var num, den, t, lambda, one field.Fp2
	one = f.One()
	f.Sqr(&num, &p.X)
	f.Add(&t, &num, &num)
	f.Add(&num, &num, &t)
	f.Mul(&t, &c.A, &p.X)
	f.Add(&t, &t, &t)
	f.Add(&num, &num, &t)
	f.Add(&num, &num, &one)
	f.Add(&den, &p.Y, &p.Y)
	f.InvVartime(&den, &den)
	f.Mul(&lambda, &num, &den)
	return c.chord(&lambda, &p, &p)
}

func (c *Curve) Add(p, q Point) Point {
	f := c.F
	switch {
	case p.Inf:
		return q
	case q.Inf:
		return p
	case f.Equal(&p.X, &q.X) == 1:
		if f.Equal(&p.Y, &q.Y) == 1 {
			return c.Double(p)
		}
		return Point{Inf: true}
	}
	var num, den, lambda field.Fp2
	f.Sub(&num, &q.Y, &p.Y)
	f.Sub(&den, &q.X, &p.X)
	f.InvVartime(&den, &den)
	f.Mul(&lambda, &num, &den)
	return c.chord(&lambda, &p, &q)
}

// chord returns the third intersection of the line of slope lambda through
// p and q, reflected: x3 = lambda^2 - A - xp - xq, y3 = lambda (xp - x3) - yp.
func (c *Curve) chord(lambda *field.Fp2, p, q *Point) Point {
	f := c.F
	var r Point
	f.Sqr(&r.X, lambda)
	f.Sub(&r.X, &r.X, &c.A)
	f.Sub(&r.X, &r.X, &p.X)
	f.Sub(&r.X, &r.X, &q.X)
	f.Sub(&r.Y, &p.X, &r.X)
	f.Mul(&r.Y, &r.Y, lambda)
	f.Sub(&r.Y, &r.Y, &p.Y)
	return r
}

// ScalarMult returns [k]p for k >= 0.
func (c *Curve) ScalarMult(p Point, k *big.Int) Point {
	r := Point{Inf: true}
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if k.Bit(i) == 1 {
			r = c.Add(r, p)
		}
	}
	return r
}

// Sub returns p - q.
func (c *Curve) Sub(p, q Point) Point { return c.Add(p, c.Neg(q)) }
