// Package numfmt renders numbers for the numeric format directives.
//
// The renderers cover decimal and radix integers, fixed, exponential and
// general floating point, money amounts, Roman numerals, and English
// cardinal and ordinal words. Locale-aware output goes through
// golang.org/x/text.
package numfmt

import (
	"errors"
	"math"
	"strconv"
)

// ErrCannotRepresent is returned when a number has no rendering in the
// requested style, such as a fractional value in radix 2.
var ErrCannotRepresent = errors.New("cannot represent number")

// Kind identifies the representation of a Number.
type Kind uint8

const (
	KindInt Kind = iota
	KindUint
	KindFloat
)

// Number is a tagged numeric value.
type Number struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
}

func Int(v int64) Number { return Number{kind: KindInt, i: v} }

func Uint(v uint64) Number { return Number{kind: KindUint, u: v} }

func Float(v float64) Number { return Number{kind: KindFloat, f: v} }

// Kind returns the representation of n.
func (n Number) Kind() Kind { return n.kind }

// IsInteger reports whether n is stored as an integer.
func (n Number) IsInteger() bool { return n.kind != KindFloat }

// Float64 returns n converted to a float64.
func (n Number) Float64() float64 {
	switch n.kind {
	case KindInt:
		return float64(n.i)
	case KindUint:
		return float64(n.u)
	default:
		return n.f
	}
}

// Negative reports whether n is below zero.
func (n Number) Negative() bool {
	switch n.kind {
	case KindInt:
		return n.i < 0
	case KindUint:
		return false
	default:
		return n.f < 0
	}
}

// EqualsInt reports whether n is an integer equal to v. Floats never
// compare equal, so 1.0 is plural.
func (n Number) EqualsInt(v int64) bool {
	switch n.kind {
	case KindInt:
		return n.i == v
	case KindUint:
		return v >= 0 && n.u == uint64(v)
	default:
		return false
	}
}

// magnitude returns |n| for integral values. Floats qualify when they have
// no fractional part and fit into a uint64.
func (n Number) magnitude() (uint64, bool) {
	switch n.kind {
	case KindInt:
		if n.i < 0 {
			return uint64(-(n.i + 1)) + 1, true
		}
		return uint64(n.i), true
	case KindUint:
		return n.u, true
	default:
		a := math.Abs(n.f)
		if math.IsInf(a, 0) || math.IsNaN(a) || a != math.Trunc(a) || a >= math.MaxUint64 {
			return 0, false
		}
		return uint64(a), true
	}
}

// String returns the plain rendering of n.
func (n Number) String() string {
	switch n.kind {
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindUint:
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}

func sign(neg, force bool) string {
	switch {
	case neg:
		return "-"
	case force:
		return "+"
	default:
		return ""
	}
}
