// Package gf2 implements polynomial arithmetic over GF(2) modulo the CRC-32
// generator polynomial.
//
// A Poly holds one coefficient per bit: bit i is the coefficient of x^i.
// Addition and subtraction are both XOR. Values are kept in a uint64 so that
// the degree-32 generator and unreduced intermediate products fit without
// overflow.
//
// Reference: IEEE 802.3 CRC-32 generator
//
//	G(x) = x^32 + x^26 + x^23 + x^22 + x^16 + x^12 + x^11 + x^10 +
//	       x^8 + x^7 + x^5 + x^4 + x^2 + x + 1
package gf2

import (
	"errors"
	"fmt"
	"math/bits"
)

// Poly is a polynomial over GF(2).
type Poly uint64

const (
	// Generator is the CRC-32 generator polynomial including its x^32 term.
	Generator Poly = 0x1_04C1_1DB7

	// X is the polynomial x, the base used for shifting a value by n bits.
	X Poly = 2

	// One is the multiplicative identity.
	One Poly = 1

	// degreeBit is the coefficient that must never survive a reduction.
	degreeBit Poly = 1 << 32
)

var (
	// ErrDomain is the parent of every arithmetic failure in this package.
	ErrDomain = errors.New("gf2: domain error")

	// ErrDivisionByZero is returned when dividing by the zero polynomial.
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrDomain)

	// ErrNoReciprocal is returned when a polynomial shares a factor with
	// the generator. Zero and multiples of Generator never have an inverse;
	// powers of X always do.
	ErrNoReciprocal = fmt.Errorf("%w: reciprocal does not exist", ErrDomain)
)

// Degree returns the position of the highest set coefficient, or -1 for zero.
func Degree(x Poly) int {
	return bits.Len64(uint64(x)) - 1
}

// MultiplyMod returns x*y mod Generator.
// x must already be reduced (degree < 32); y may be any polynomial.
func MultiplyMod(x, y Poly) Poly {
	var z Poly
	for y != 0 {
		if y&1 != 0 {
			z ^= x
		}
		y >>= 1
		x <<= 1
		if x&degreeBit != 0 {
			x ^= Generator
		}
	}
	return z
}

// PowMod returns x^y mod Generator.
// y is a natural number (typically a bit count), not a polynomial.
func PowMod(x Poly, y uint64) Poly {
	z := One
	for y != 0 {
		if y&1 != 0 {
			z = MultiplyMod(z, x)
		}
		x = MultiplyMod(x, x)
		y >>= 1
	}
	return z
}

// Mod returns x mod Generator.
func Mod(x Poly) Poly {
	_, r, _ := DivideAndRemainder(x, Generator)
	return r
}

// DivideAndRemainder performs polynomial long division of x by y.
func DivideAndRemainder(x, y Poly) (q, r Poly, err error) {
	if y == 0 {
		return 0, 0, ErrDivisionByZero
	}
	if x == 0 {
		return 0, 0, nil
	}

	ydeg := Degree(y)
	for i := Degree(x) - ydeg; i >= 0; i-- {
		if x&(1<<uint(i+ydeg)) != 0 {
			x ^= y << uint(i)
			q |= 1 << uint(i)
		}
	}
	return q, x, nil
}

// ReciprocalMod returns the multiplicative inverse of x modulo Generator,
// computed with the extended Euclidean algorithm.
func ReciprocalMod(x Poly) (Poly, error) {
	y := x
	x = Generator
	var a, b Poly = 0, 1
	for y != 0 {
		q, r, err := DivideAndRemainder(x, y)
		if err != nil {
			return 0, err
		}
		c := a ^ MultiplyMod(q, b)
		x, y = y, r
		a, b = b, c
	}
	if x != One {
		return 0, ErrNoReciprocal
	}
	return a, nil
}
