// Package rational implements an exact, non-negative rational number with a
// 128-bit numerator and denominator, the arithmetic type the Phragmén kernel
// uses for candidate scores and voter loads.
//
// All operations saturate at the maximum 128-bit value instead of wrapping
// or panicking on overflow, mirroring the on-chain pallet's saturating
// arithmetic: a saturated value is treated as "infinite" and compares
// greater than every finite value. Comparison widens to 256 bits so that
// cross-multiplication of two saturated numerators never itself overflows.
package rational

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// maxU128 is the saturation ceiling for both numerator and denominator.
var maxU128 = func() *uint256.Int {
	v := uint256.NewInt(1)
	v.Lsh(v, 128)
	v.Sub(v, uint256.NewInt(1))
	return v
}()

// Rational128 is an exact non-negative rational n/d with d >= 1 (unless the
// zero value is used transiently before normalization). The zero value is
// not a valid Rational128; use Zero or FromUint64.
type Rational128 struct {
	n uint256.Int
	d uint256.Int
}

// Zero returns the rational 0/1.
func Zero() Rational128 {
	r := Rational128{}
	r.d.SetUint64(1)
	return r
}

// FromUint64 returns x/1.
func FromUint64(x uint64) Rational128 {
	r := Rational128{}
	r.n.SetUint64(x)
	r.d.SetUint64(1)
	return r
}

// FromUint256 returns x/1 for a value already widened to 128 bits or less.
// It panics if x exceeds the 128-bit range, which would indicate a caller
// bug rather than a legitimate saturation (saturation only ever happens as
// the *result* of an operation, never as an input).
func FromUint256(x *uint256.Int) Rational128 {
	if x.Gt(maxU128) {
		panic("rational: input exceeds 128 bits")
	}
	r := Rational128{}
	r.n.Set(x)
	r.d.SetUint64(1)
	return r
}

// infinity is the saturated sentinel: both numerator and denominator pinned
// to the 128-bit maximum.
func infinity() Rational128 {
	return Rational128{n: *maxU128, d: *maxU128}
}

// Infinity returns the saturated sentinel a candidate's score takes when
// its approval stake is zero (no amount of load ever elects it).
func Infinity() Rational128 {
	return infinity()
}

// IsInfinite reports whether r is the saturated "infinity" sentinel.
func (r Rational128) IsInfinite() bool {
	return r.n.Eq(maxU128) && r.d.Eq(maxU128)
}

// Numerator returns the numerator as a 256-bit integer (value always fits
// in 128 bits unless r.IsInfinite()).
func (r Rational128) Numerator() *uint256.Int {
	n := r.n
	return &n
}

// Denominator returns the denominator as a 256-bit integer.
func (r Rational128) Denominator() *uint256.Int {
	d := r.d
	return &d
}

// Add returns a+b under saturating 128-bit arithmetic: a/b' + c/d' =
// (a*d' + c*b')/(b'*d'), and if either resulting component would exceed the
// 128-bit range the whole result saturates to infinity.
func (r Rational128) Add(o Rational128) Rational128 {
	n1 := new(uint256.Int).Mul(&r.n, &o.d)
	n2 := new(uint256.Int).Mul(&o.n, &r.d)
	num := new(uint256.Int).Add(n1, n2)
	den := new(uint256.Int).Mul(&r.d, &o.d)
	if num.Gt(maxU128) || den.Gt(maxU128) {
		return infinity()
	}
	return Rational128{n: *num, d: *den}
}

// MulUint64 returns r*x, saturating at the 128-bit range.
func (r Rational128) MulUint64(x uint64) Rational128 {
	return r.mulUint256(uint256.NewInt(x))
}

// MulUint256 returns r*x for an x already widened to at most 128 bits,
// saturating at the 128-bit range.
func (r Rational128) MulUint256(x *uint256.Int) Rational128 {
	return r.mulUint256(x)
}

func (r Rational128) mulUint256(x *uint256.Int) Rational128 {
	num := new(uint256.Int).Mul(&r.n, x)
	if num.Gt(maxU128) {
		return infinity()
	}
	return Rational128{n: *num, d: r.d}
}

// Sub returns r-o, clamped to 0/1 if the subtraction would underflow (the
// kernel only ever subtracts a voter's prior load from a candidate's score
// under the invariant that the score is not smaller, but saturation effects
// elsewhere can make that invariant approximate, hence the clamp).
func (r Rational128) Sub(o Rational128) Rational128 {
	lhs := new(uint256.Int).Mul(&r.n, &o.d)
	rhs := new(uint256.Int).Mul(&o.n, &r.d)
	if lhs.Lt(rhs) {
		return Zero()
	}
	num := new(uint256.Int).Sub(lhs, rhs)
	den := new(uint256.Int).Mul(&r.d, &o.d)
	if num.Gt(maxU128) || den.Gt(maxU128) {
		return infinity()
	}
	return Rational128{n: *num, d: *den}
}

// Reciprocal returns d/n. It returns an error if r's numerator is zero.
func (r Rational128) Reciprocal() (Rational128, error) {
	if r.n.IsZero() {
		return Rational128{}, fmt.Errorf("rational: reciprocal of zero")
	}
	return Rational128{n: r.d, d: r.n}, nil
}

// Cmp compares r and o, widening the cross-multiplication to 256 bits so
// that two saturated (near-2^128) numerators never overflow the comparison
// itself. Infinities compare equal to each other and greater than any
// finite value.
func (r Rational128) Cmp(o Rational128) int {
	rInf, oInf := r.IsInfinite(), o.IsInfinite()
	switch {
	case rInf && oInf:
		return 0
	case rInf:
		return 1
	case oInf:
		return -1
	}
	lhs := new(uint256.Int).Mul(&r.n, &o.d)
	rhs := new(uint256.Int).Mul(&o.n, &r.d)
	return lhs.Cmp(rhs)
}

// LessThan reports whether r < o.
func (r Rational128) LessThan(o Rational128) bool { return r.Cmp(o) < 0 }

// IsZero reports whether r's numerator is zero (r is the rational 0,
// regardless of denominator).
func (r Rational128) IsZero() bool { return r.n.IsZero() }

// Mul returns r*o under saturating 128-bit arithmetic, used by stake
// back-assignment to compute a voter's proportional share of an edge.
func (r Rational128) Mul(o Rational128) Rational128 {
	num := new(uint256.Int).Mul(&r.n, &o.n)
	den := new(uint256.Int).Mul(&r.d, &o.d)
	if num.Gt(maxU128) || den.Gt(maxU128) {
		return infinity()
	}
	return Rational128{n: *num, d: *den}
}

// FloorUint256 returns floor(n/d) as a 256-bit integer. The kernel only
// ever calls this on shares that are provably at most a u64 stake, so the
// result always fits well within 128 bits.
func (r Rational128) FloorUint256() *uint256.Int {
	if r.d.IsZero() {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Div(&r.n, &r.d)
}

// ToPerbill converts r to a per-billion fraction (n/10^9), rounded to the
// nearest integer and clamped to [0, 1e9]. It never fails: an infinite or
// zero-denominator value saturates to 1e9 or 0 respectively.
func ToPerbill(r Rational128) uint64 {
	const billion = 1_000_000_000
	if r.d.IsZero() {
		return 0
	}
	if r.IsInfinite() {
		return billion
	}
	num := new(uint256.Int).Mul(&r.n, uint256.NewInt(billion))
	half := new(uint256.Int).Rsh(&r.d, 1)
	num.Add(num, half)
	q := new(uint256.Int).Div(num, &r.d)
	if q.Gt(uint256.NewInt(billion)) {
		return billion
	}
	return q.Uint64()
}

// String renders r as "n/d", or "inf" for the saturated sentinel.
func (r Rational128) String() string {
	if r.IsInfinite() {
		return "inf"
	}
	return fmt.Sprintf("%s/%s", r.n.Dec(), r.d.Dec())
}

// Float64 returns r as a 64-bit float, informational only (used for
// display; never for election decisions). The infinite sentinel has equal
// numerator and denominator, so it yields 1.
func (r Rational128) Float64() float64 {
	if r.d.IsZero() {
		return 0
	}
	n := new(big.Int).SetBytes(r.n.Bytes())
	d := new(big.Int).SetBytes(r.d.Bytes())
	q := new(big.Float).Quo(new(big.Float).SetInt(n), new(big.Float).SetInt(d))
	f, _ := q.Float64()
	return f
}

// Equal reports whether r and o have identical numerator and denominator
// (not merely equal value): used by trace-replay equality tests that
// assert bit-identical reconstruction, not just numeric equivalence.
func (r Rational128) Equal(o Rational128) bool {
	return r.n.Eq(&o.n) && r.d.Eq(&o.d)
}
