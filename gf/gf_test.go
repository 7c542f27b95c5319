package gf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestXtime checks doubling against the worked examples of FIPS-197
// section 4.2.1, including the reducing case where the high bit is set.
func TestXtime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   byte
		want byte
	}{
		{0x57, 0xae},
		{0xae, 0x47},
		{0x47, 0x8e},
		{0x8e, 0x07},
		{0x80, 0x1b},
		{0x00, 0x00},
		{0xff, 0xe5},
	}

	for _, test := range tests {
		require.Equalf(t, test.want, Xtime(test.in), "xtime(0x%02x)",
			test.in)
	}
}

func TestMul(t *testing.T) {
	t.Parallel()

	require.Equal(t, byte(0xc1), Mul(0x57, 0x83))
	require.Equal(t, byte(0xfe), Mul(0x57, 0x13))
	require.Equal(t, byte(0x00), Mul(0x00, 0xff))
	require.Equal(t, byte(0x53), Mul(0x53, 0x01))
	require.Equal(t, byte(0x01), Mul(0x53, 0xca))
}

// TestMulProperties checks that Mul is commutative, distributes over XOR
// and agrees with the field type on the AES modulus.
func TestMulProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Byte().Draw(rt, "a")
		b := rapid.Byte().Draw(rt, "b")
		c := rapid.Byte().Draw(rt, "c")

		require.Equal(rt, Mul(a, b), Mul(b, a))
		require.Equal(rt, Mul(a, b^c), Mul(a, b)^Mul(a, c))
		require.Equal(rt, Mul(a, 2), Xtime(a))
		require.Equal(rt, Mul(a, b), AES.Mul(a, b))
	})
}

func TestInverse(t *testing.T) {
	t.Parallel()

	inv, err := AES.Inverse(0x53)
	require.NoError(t, err)
	require.Equal(t, byte(0xca), inv)

	inv, err = AES.Inverse(0x01)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), inv)

	_, err = AES.Inverse(0)
	require.ErrorIs(t, err, ErrNoInverse)

	for a := 1; a < 256; a++ {
		inv, err := AES.Inverse(byte(a))
		require.NoError(t, err)
		require.Equalf(t, byte(1), AES.Mul(byte(a), inv),
			"0x%02x * inverse", a)
	}
}

func TestNewField(t *testing.T) {
	t.Parallel()

	f, err := NewField(0x1B)
	require.NoError(t, err)
	require.Equal(t, byte(0x1B), f.Modulus())
	require.Equal(t, byte(0x03), f.Add(0x01, 0x02))

	// x^8 + 1 = (x + 1)^8.
	_, err = NewField(0x01)
	var modErr *ReducibleModulusError
	require.True(t, errors.As(err, &modErr))
	require.Equal(t, byte(0x01), modErr.Modulus)

	// Every irreducible modulus gives a field in which all non-zero
	// elements are invertible.
	f, err = NewField(0x1D)
	require.NoError(t, err)
	for a := 1; a < 256; a++ {
		inv, err := f.Inverse(byte(a))
		require.NoError(t, err)
		require.Equal(t, byte(1), f.Mul(byte(a), inv))
	}
}

func TestIrreducibles(t *testing.T) {
	t.Parallel()

	irr := Irreducibles()
	require.Len(t, irr, 30)
	require.Contains(t, irr, Poly)
	require.Equal(t, byte(0x1B), irr[0])

	for _, m := range irr {
		require.True(t, IsIrreducible(m))
	}
	require.False(t, IsIrreducible(0x00))
}
