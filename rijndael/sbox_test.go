package rijndael

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/unitrium/02255-projects/gf"
)

// affine is the Rijndael affine map: bit i of the result is
// b_i ^ b_{i+4} ^ b_{i+5} ^ b_{i+6} ^ b_{i+7} ^ c_i with c = 0x63.
func affine(b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		bit := (b >> i) ^ (b >> ((i + 4) % 8)) ^ (b >> ((i + 5) % 8)) ^
			(b >> ((i + 6) % 8)) ^ (b >> ((i + 7) % 8))
		result |= (bit & 1) << i
	}
	return result ^ 0x63
}

// invAffine undoes affine: bit i is b_{i+2} ^ b_{i+5} ^ b_{i+7} ^ d_i
// with d = 0x05.
func invAffine(b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		bit := (b >> ((i + 2) % 8)) ^ (b >> ((i + 5) % 8)) ^
			(b >> ((i + 7) % 8))
		result |= (bit & 1) << i
	}
	return result ^ 0x05
}

func fieldInverse(t *testing.T, b byte) byte {
	if b == 0 {
		return 0
	}

	inv, err := gf.AES.Inverse(b)
	require.NoError(t, err)
	return inv
}

// TestSboxConstruction rebuilds both tables from the field inverse and the
// affine map and compares them with the static data.
func TestSboxConstruction(t *testing.T) {
	t.Parallel()

	for i := 0; i < 256; i++ {
		b := byte(i)
		require.Equalf(t, affine(fieldInverse(t, b)), sbox[i],
			"sbox[0x%02x]", i)
		require.Equalf(t, fieldInverse(t, invAffine(b)), invSbox[i],
			"invSbox[0x%02x]", i)
	}
}

func TestSboxInverse(t *testing.T) {
	t.Parallel()

	for i := 0; i < 256; i++ {
		b := byte(i)
		require.Equal(t, b, InvSubByte(SubByte(b)))
		require.Equal(t, b, SubByte(InvSubByte(b)))
	}

	// Row 0x5, column 0x3 of the table.
	require.Equal(t, byte(0xed), SubByte(0x53))
	require.Equal(t, byte(0x53), InvSubByte(0xed))

	// No fixed points and no opposite fixed points.
	for i := 0; i < 256; i++ {
		require.NotEqual(t, byte(i), sbox[i])
		require.NotEqual(t, ^byte(i), sbox[i])
	}
}
