// Package gf implements arithmetic in GF(2^8), the field the Rijndael
// S-box, MixColumns and round constants are defined over.
//
// Moduli are passed without their x^8 term: 0x1B stands for the AES
// polynomial x^8 + x^4 + x^3 + x + 1 (0x11B).
package gf

import (
	"errors"
	"fmt"
)

// Poly is the low byte of the AES reduction polynomial 0x11B.
const Poly byte = 0x1B

// ErrNoInverse is returned when asked for the multiplicative inverse of
// zero.
var ErrNoInverse = errors.New("gf: zero has no multiplicative inverse")

// ReducibleModulusError is returned when a field is requested over a
// polynomial that factors over GF(2).
type ReducibleModulusError struct {
	Modulus byte
}

func (e *ReducibleModulusError) Error() string {
	return fmt.Sprintf("gf: modulus 0x%02X (0x1%02X) is reducible over "+
		"GF(2)", e.Modulus, e.Modulus)
}

// Xtime multiplies b by x (that is, by 2) modulo the AES polynomial.
func Xtime(b byte) byte {
	return xtime(b, Poly)
}

// Mul multiplies a and b modulo the AES polynomial.
func Mul(a, b byte) byte {
	return mul(a, b, Poly)
}

// xtime shifts b left by one and reduces by modulus when the bit shifted
// out was set. The high bit is sampled before the shift.
func xtime(b, modulus byte) byte {
	hi := b & 0x80
	b <<= 1
	if hi != 0 {
		b ^= modulus
	}
	return b
}

// mul is Russian-peasant multiplication: a is doubled once per bit of b
// and accumulated wherever that bit is set.
func mul(a, b, modulus byte) byte {
	var p byte
	for b != 0 {
		if b&1 == 1 {
			p ^= a
		}
		a = xtime(a, modulus)
		b >>= 1
	}
	return p
}

// Field is GF(2^8) constructed over a particular irreducible modulus.
type Field struct {
	modulus byte
}

// AES is the field used by Rijndael.
var AES = &Field{modulus: Poly}

// NewField returns the field GF(2)[x] / (x^8 + modulus).
func NewField(modulus byte) (*Field, error) {
	if !IsIrreducible(modulus) {
		return nil, &ReducibleModulusError{Modulus: modulus}
	}

	return &Field{modulus: modulus}, nil
}

// Modulus returns the low byte of the field polynomial.
func (f *Field) Modulus() byte {
	return f.modulus
}

// Add adds two field elements.
func (f *Field) Add(a, b byte) byte {
	return a ^ b
}

// Mul multiplies two field elements.
func (f *Field) Mul(a, b byte) byte {
	return mul(a, b, f.modulus)
}

// Inverse returns the multiplicative inverse of a using the extended
// Euclidean algorithm over GF(2)[x].
func (f *Field) Inverse(a byte) (byte, error) {
	if a == 0 {
		return 0, ErrNoInverse
	}

	r0, r1 := uint16(f.modulus)|0x100, uint16(a)
	t0, t1 := uint16(0), uint16(1)

	for r1 != 0 {
		q := polyDiv(r0, r1)
		r0, r1 = r1, polyMod(r0, r1)
		t0, t1 = t1, t0^polyMul(q, t1)
	}

	// r0 is the gcd; it is always 1 for an irreducible modulus.
	if r0 != 1 {
		return 0, fmt.Errorf("gf: 0x%02X is not invertible mod 0x1%02X",
			a, f.modulus)
	}

	return byte(t0), nil
}

// IsIrreducible reports whether x^8 + modulus is irreducible over GF(2).
// A degree-8 polynomial is reducible iff it has a factor of degree at most
// 4, so trial division by every polynomial of degree 1..4 suffices.
func IsIrreducible(modulus byte) bool {
	poly := uint16(modulus) | 0x100
	for div := uint16(2); div < 0x20; div++ {
		if polyMod(poly, div) == 0 {
			return false
		}
	}
	return true
}

// Irreducibles returns the low bytes of every irreducible polynomial of
// degree 8, in ascending order.
func Irreducibles() []byte {
	var result []byte
	for m := 0; m < 256; m++ {
		if IsIrreducible(byte(m)) {
			result = append(result, byte(m))
		}
	}
	return result
}

func degree(poly uint16) int {
	deg := -1
	for poly > 0 {
		poly >>= 1
		deg++
	}
	return deg
}

// polyMul is carry-less multiplication without reduction.
func polyMul(a, b uint16) uint16 {
	var result uint16
	for b != 0 {
		if b&1 == 1 {
			result ^= a
		}
		a <<= 1
		b >>= 1
	}
	return result
}

func polyDiv(a, b uint16) uint16 {
	if b == 0 {
		return 0
	}

	degA, degB := degree(a), degree(b)

	var quotient uint16
	for degA >= degB && a != 0 {
		shift := degA - degB
		quotient ^= 1 << shift
		a ^= b << shift
		degA = degree(a)
	}

	return quotient
}

func polyMod(a, b uint16) uint16 {
	if b == 0 {
		return a
	}

	degA, degB := degree(a), degree(b)
	for degA >= degB && a != 0 {
		a ^= b << (degA - degB)
		degA = degree(a)
	}

	return a
}
