// Package bigint implements Directed's Integer primitive: an unbounded
// signed integer with truncated-toward-zero division, used for every
// accumulator, parameter, and literal value in the language.
package bigint

import (
	"fmt"
	"math/big"
)

// Integer is an arbitrary-precision signed integer. The zero value is 0.
type Integer struct {
	v big.Int
}

// Zero is the additive identity.
var Zero = Integer{}

// FromInt64 constructs an Integer from a small signed integer.
func FromInt64(n int64) Integer {
	var i Integer
	i.v.SetInt64(n)
	return i
}

// FromByte constructs an Integer from a single byte, as used when a
// source literal is a character constant.
func FromByte(b byte) Integer {
	return FromInt64(int64(b))
}

// FromString parses a decimal string (optionally signed) into an Integer.
// It is used both by the source loader for literal nodes and by the CLI
// to pack the program's input argument.
func FromString(s string) (Integer, error) {
	var i Integer
	if _, ok := i.v.SetString(s, 10); !ok {
		return Integer{}, fmt.Errorf("not a valid decimal integer: %q", s)
	}
	return i, nil
}

// String renders the Integer in decimal.
func (a Integer) String() string {
	return a.v.String()
}

func binop(a, b Integer, f func(z, x, y *big.Int) *big.Int) Integer {
	var r Integer
	f(&r.v, &a.v, &b.v)
	return r
}

// Add returns a + b.
func (a Integer) Add(b Integer) Integer { return binop(a, b, (*big.Int).Add) }

// Sub returns a - b.
func (a Integer) Sub(b Integer) Integer { return binop(a, b, (*big.Int).Sub) }

// Mul returns a * b.
func (a Integer) Mul(b Integer) Integer { return binop(a, b, (*big.Int).Mul) }

// And returns the bitwise AND of a and b (two's-complement semantics, per math/big).
func (a Integer) And(b Integer) Integer { return binop(a, b, (*big.Int).And) }

// Or returns the bitwise OR of a and b.
func (a Integer) Or(b Integer) Integer { return binop(a, b, (*big.Int).Or) }

// Xor returns the bitwise XOR of a and b.
func (a Integer) Xor(b Integer) Integer { return binop(a, b, (*big.Int).Xor) }

// ErrDivByZero is returned by Div and Mod when the divisor is zero. Callers
// in internal/nodetype translate it into the fatal runtime error mandated
// by §7 rather than propagating a Go error through Outcome.
var ErrDivByZero = fmt.Errorf("integer divide by zero")

// Div returns the truncated-toward-zero quotient a / b.
func (a Integer) Div(b Integer) (Integer, error) {
	if b.v.Sign() == 0 {
		return Integer{}, ErrDivByZero
	}
	var q, rem big.Int
	q.QuoRem(&a.v, &b.v, &rem)
	return Integer{v: q}, nil
}

// Mod returns the remainder of truncated-toward-zero division; its sign
// matches the dividend a, per §4.1.
func (a Integer) Mod(b Integer) (Integer, error) {
	if b.v.Sign() == 0 {
		return Integer{}, ErrDivByZero
	}
	var q, rem big.Int
	q.QuoRem(&a.v, &b.v, &rem)
	return Integer{v: rem}, nil
}

// Cmp returns -1, 0, or +1 as a is less than, equal to, or greater than b.
func (a Integer) Cmp(b Integer) int { return a.v.Cmp(&b.v) }

// Eq reports whether a == b.
func (a Integer) Eq(b Integer) bool { return a.Cmp(b) == 0 }

// Lt reports whether a < b.
func (a Integer) Lt(b Integer) bool { return a.Cmp(b) < 0 }

// Le reports whether a <= b.
func (a Integer) Le(b Integer) bool { return a.Cmp(b) <= 0 }

// Gt reports whether a > b.
func (a Integer) Gt(b Integer) bool { return a.Cmp(b) > 0 }

// Ge reports whether a >= b.
func (a Integer) Ge(b Integer) bool { return a.Cmp(b) >= 0 }

// Int64 reports whether a fits in an int64 and, if so, its value. Used to
// convert a Use node's selector parameter.
func (a Integer) Int64() (int64, bool) {
	if !a.v.IsInt64() {
		return 0, false
	}
	return a.v.Int64(), true
}

// Byte returns a mod 256 as a single byte, per §9's mandated interpretation
// of Out's output conversion.
func (a Integer) Byte() byte {
	var m big.Int
	m.Mod(&a.v, big.NewInt(256))
	return byte(m.Int64())
}
