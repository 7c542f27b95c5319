package rijndael

import (
	"fmt"

	"github.com/unitrium/02255-projects/gf"
)

const (
	// BlockSize is the Rijndael/AES block size in bytes.
	BlockSize = 16

	// MaxRounds is the largest round count a schedule can hold.
	MaxRounds = 14

	wordsPerBlock = BlockSize / 4
)

// RoundKey is one block-shaped round key, in the same byte order as a
// block.
type RoundKey [BlockSize]byte

// Schedule is the expanded key: Rounds()+1 round keys, read-only once
// built. RoundKey 0 is the whitening key.
type Schedule struct {
	rounds int
	keys   [MaxRounds + 1]RoundKey
}

// Rounds returns the number of cipher rounds the schedule was built for.
func (ks *Schedule) Rounds() int {
	return ks.rounds
}

// RoundKey returns round key i for 0 <= i <= Rounds().
func (ks *Schedule) RoundKey(i int) RoundKey {
	if i < 0 || i > ks.rounds {
		panic(fmt.Sprintf("rijndael: round key %d out of range 0..%d",
			i, ks.rounds))
	}
	return ks.keys[i]
}

// RoundKeys returns a copy of all round keys in order.
func (ks *Schedule) RoundKeys() []RoundKey {
	keys := make([]RoundKey, ks.rounds+1)
	copy(keys, ks.keys[:ks.rounds+1])
	return keys
}

// Equal reports whether two schedules hold the same round keys.
func (ks *Schedule) Equal(other *Schedule) bool {
	return ks.rounds == other.rounds && ks.keys == other.keys
}

// roundsForKey maps a key length to the standard round count.
func roundsForKey(keyLen int) (int, error) {
	switch keyLen {
	case 16:
		return 10, nil
	case 24:
		return 12, nil
	case 32:
		return 14, nil
	default:
		return 0, &KeyLengthError{Length: keyLen}
	}
}

type word [4]byte

func rotWord(w word) word {
	return word{w[1], w[2], w[3], w[0]}
}

func subWord(w word) word {
	return word{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}

// expandKey fills ks with rounds+1 round keys derived from key. The key
// length must already be validated. The recurrence runs over 4-byte words
// and is parametrised by nk, the key length in words.
func expandKey(ks *Schedule, key []byte, rounds int) {
	nk := len(key) / 4
	total := wordsPerBlock * (rounds + 1)

	var w [wordsPerBlock * (MaxRounds + 1)]word
	for i := 0; i < nk && i < total; i++ {
		copy(w[i][:], key[i*4:])
	}

	rcon := byte(0x01)
	for i := nk; i < total; i++ {
		temp := w[i-1]
		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon
			rcon = gf.Xtime(rcon)

		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}

		for j := 0; j < 4; j++ {
			w[i][j] = w[i-nk][j] ^ temp[j]
		}
	}

	ks.rounds = rounds
	for i := 0; i < total; i++ {
		copy(ks.keys[i/wordsPerBlock][(i%wordsPerBlock)*4:], w[i][:])
	}
}

// rconAt returns the round constant used to derive round key round of a
// 128-bit schedule.
func rconAt(round int) byte {
	rc := byte(0x01)
	for i := 1; i < round; i++ {
		rc = gf.Xtime(rc)
	}
	return rc
}

// PreviousRoundKey inverts one step of the AES-128 key schedule: given
// round key number round it returns round key round-1. It panics if round
// is not in 1..MaxRounds.
func PreviousRoundKey(rk RoundKey, round int) RoundKey {
	if round < 1 || round > MaxRounds {
		panic(fmt.Sprintf("rijndael: round %d out of range 1..%d",
			round, MaxRounds))
	}

	var prev RoundKey

	// Words 1..3 of the previous key: w[i-1] = w'[i] ^ w'[i-1].
	for i := 3; i >= 1; i-- {
		for j := 0; j < 4; j++ {
			prev[i*4+j] = rk[i*4+j] ^ rk[(i-1)*4+j]
		}
	}

	var last word
	copy(last[:], prev[12:16])
	temp := subWord(rotWord(last))
	temp[0] ^= rconAt(round)

	for j := 0; j < 4; j++ {
		prev[j] = rk[j] ^ temp[j]
	}

	return prev
}

// RecoverKey walks the AES-128 key schedule back from round key number
// round to the 16-byte master key.
func RecoverKey(rk RoundKey, round int) []byte {
	for r := round; r > 0; r-- {
		rk = PreviousRoundKey(rk, r)
	}

	key := make([]byte, BlockSize)
	copy(key, rk[:])
	return key
}
