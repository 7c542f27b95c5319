package rijndael

import "github.com/unitrium/02255-projects/gf"

// state is the 4x4 cipher state indexed [row][col]. Byte (row, col) holds
// input byte col*4 + row.
type state [4][4]byte

func loadState(b []byte) state {
	var s state
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			s[r][c] = b[c*4+r]
		}
	}
	return s
}

func (s *state) store(b []byte) {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			b[c*4+r] = s[r][c]
		}
	}
}

// addRoundKey XORs the round key into the state. It is its own inverse.
func (s *state) addRoundKey(rk *RoundKey) {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			s[r][c] ^= rk[c*4+r]
		}
	}
}

func (s *state) subBytes() {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s[r][c] = sbox[s[r][c]]
		}
	}
}

func (s *state) invSubBytes() {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s[r][c] = invSbox[s[r][c]]
		}
	}
}

// shiftRows rotates row r left by r positions.
func (s *state) shiftRows() {
	for r := 1; r < 4; r++ {
		var row [4]byte
		for c := 0; c < 4; c++ {
			row[c] = s[r][(c+r)%4]
		}
		s[r] = row
	}
}

// invShiftRows rotates row r right by r positions.
func (s *state) invShiftRows() {
	for r := 1; r < 4; r++ {
		var row [4]byte
		for c := 0; c < 4; c++ {
			row[(c+r)%4] = s[r][c]
		}
		s[r] = row
	}
}

func (s *state) column(c int) [4]byte {
	return [4]byte{s[0][c], s[1][c], s[2][c], s[3][c]}
}

func (s *state) setColumn(c int, col [4]byte) {
	s[0][c], s[1][c], s[2][c], s[3][c] = col[0], col[1], col[2], col[3]
}

// mixColumn multiplies a column by the circulant MDS matrix
// [02 03 01 01]. The output is built in full before being returned.
func mixColumn(a [4]byte) [4]byte {
	var d [4]byte
	for i := 0; i < 4; i++ {
		a0, a1, a2, a3 := a[i], a[(i+1)%4], a[(i+2)%4], a[(i+3)%4]
		d[i] = gf.Xtime(a0) ^ gf.Xtime(a1) ^ a1 ^ a2 ^ a3
	}
	return d
}

// invMixColumn multiplies a column by the inverse matrix [0e 0b 0d 09].
func invMixColumn(a [4]byte) [4]byte {
	var d [4]byte
	for i := 0; i < 4; i++ {
		a0, a1, a2, a3 := a[i], a[(i+1)%4], a[(i+2)%4], a[(i+3)%4]
		d[i] = gf.Mul(a0, 0x0e) ^ gf.Mul(a1, 0x0b) ^
			gf.Mul(a2, 0x0d) ^ gf.Mul(a3, 0x09)
	}
	return d
}

func (s *state) mixColumns() {
	for c := 0; c < 4; c++ {
		s.setColumn(c, mixColumn(s.column(c)))
	}
}

func (s *state) invMixColumns() {
	for c := 0; c < 4; c++ {
		s.setColumn(c, invMixColumn(s.column(c)))
	}
}

// encrypt runs the forward cipher. Round 0 is key whitening, rounds
// 1..n-1 are full rounds and round n skips MixColumns.
func (s *state) encrypt(ks *Schedule) {
	n := ks.rounds

	s.addRoundKey(&ks.keys[0])
	for round := 1; round < n; round++ {
		s.subBytes()
		s.shiftRows()
		s.mixColumns()
		s.addRoundKey(&ks.keys[round])
	}

	s.subBytes()
	s.shiftRows()
	s.addRoundKey(&ks.keys[n])
}

// decrypt runs the inverse cipher, consuming round keys from last to
// first.
func (s *state) decrypt(ks *Schedule) {
	n := ks.rounds

	s.addRoundKey(&ks.keys[n])
	s.invShiftRows()
	s.invSubBytes()

	for round := n - 1; round > 0; round-- {
		s.addRoundKey(&ks.keys[round])
		s.invMixColumns()
		s.invShiftRows()
		s.invSubBytes()
	}

	s.addRoundKey(&ks.keys[0])
}
