// Package square implements the integral ("square") chosen-plaintext attack
// on AES-128 reduced to four rounds.
//
// A Λ-set is 256 plaintexts that agree everywhere except in one active
// byte, which takes every value once. After three rounds every state byte
// is balanced over the set: its values XOR to zero. The fourth round has no
// MixColumns, so a guess for one byte of the last round key can be checked
// by peeling that round off a single ciphertext byte and testing the
// balance. Surviving guesses are intersected over several sets until one
// remains per byte, and the key schedule is then run backwards to the
// master key.
package square

import (
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/unitrium/02255-projects/rijndael"
)

const (
	// Rounds is the number of AES rounds the attack breaks.
	Rounds = 4

	// SetSize is the number of plaintexts in a Λ-set.
	SetSize = 256

	// MaxSets bounds how many Λ-sets are spent before giving up on
	// narrowing the candidates down.
	MaxSets = 8
)

var (
	// ErrAmbiguousKey is returned when MaxSets Λ-sets still leave more
	// than one candidate for some key byte.
	ErrAmbiguousKey = errors.New("square: key byte still ambiguous")

	// ErrNoCandidate is returned when every guess for some key byte has
	// been eliminated, meaning the oracle is not 4-round AES-128.
	ErrNoCandidate = errors.New("square: no key byte candidate survived")

	// ErrKeyMismatch is returned when the recovered key does not
	// reproduce the oracle's output.
	ErrKeyMismatch = errors.New("square: recovered key does not match " +
		"oracle")
)

// LambdaSet is a set of plaintexts with a single active byte.
type LambdaSet [SetSize][rijndael.BlockSize]byte

// NewLambdaSet returns the Λ-set whose byte at position active takes the
// values 0..255 while every other byte equals fill.
func NewLambdaSet(active int, fill byte) (*LambdaSet, error) {
	if active < 0 || active >= rijndael.BlockSize {
		return nil, fmt.Errorf("square: active byte %d out of range "+
			"0..%d", active, rijndael.BlockSize-1)
	}

	var set LambdaSet
	for v := range set {
		for i := range set[v] {
			set[v][i] = fill
		}
		set[v][active] = byte(v)
	}

	return &set, nil
}

// candidates tracks which guesses are still alive for every key byte.
type candidates [rijndael.BlockSize][256]bool

func newCandidates() *candidates {
	var c candidates
	for pos := range c {
		for g := range c[pos] {
			c[pos][g] = true
		}
	}
	return &c
}

func (c *candidates) count(pos int) int {
	n := 0
	for _, alive := range c[pos] {
		if alive {
			n++
		}
	}
	return n
}

// resolved returns the key byte at pos if exactly one guess is left.
func (c *candidates) resolved(pos int) fn.Option[byte] {
	if c.count(pos) != 1 {
		return fn.None[byte]()
	}

	for g, alive := range c[pos] {
		if alive {
			return fn.Some(byte(g))
		}
	}

	return fn.None[byte]()
}

// balanced reports whether peeling the last round off ciphertext byte pos
// under key guess g yields a balanced byte over the set.
func balanced(cts *LambdaSet, pos int, g byte) bool {
	var sum byte
	for i := range cts {
		sum ^= rijndael.InvSubByte(cts[i][pos] ^ g)
	}
	return sum == 0
}

// filter drops every guess that fails the balance test on cts.
func (c *candidates) filter(cts *LambdaSet) {
	for pos := range c {
		for g := range c[pos] {
			if c[pos][g] && !balanced(cts, pos, byte(g)) {
				c[pos][g] = false
			}
		}
	}
}

// Attack recovers the key behind an encryption oracle.
type Attack struct {
	oracle cipher.Block
}

// New returns an attack against oracle, which must encrypt under 4-round
// AES-128 with an unknown key.
func New(oracle cipher.Block) (*Attack, error) {
	if oracle.BlockSize() != rijndael.BlockSize {
		return nil, fmt.Errorf("square: oracle block size %d, want %d",
			oracle.BlockSize(), rijndael.BlockSize)
	}

	return &Attack{oracle: oracle}, nil
}

// encryptSet queries the oracle for every plaintext of set.
func (a *Attack) encryptSet(set *LambdaSet) *LambdaSet {
	var cts LambdaSet
	for i := range set {
		a.oracle.Encrypt(cts[i][:], set[i][:])
	}
	return &cts
}

// RecoverLastRoundKey recovers round key 4.
func (a *Attack) RecoverLastRoundKey() (rijndael.RoundKey, error) {
	var rk rijndael.RoundKey

	cands := newCandidates()
	for n := 0; n < MaxSets; n++ {
		// Vary both the active byte and the constant so each set
		// gives independent false positives.
		set, err := NewLambdaSet(n%rijndael.BlockSize, byte(n))
		if err != nil {
			return rk, err
		}

		cands.filter(a.encryptSet(set))

		done := true
		for pos := range cands {
			switch cands.count(pos) {
			case 0:
				return rk, fmt.Errorf("byte %d: %w", pos,
					ErrNoCandidate)
			case 1:
			default:
				done = false
			}
		}

		log.Debugf("After %d Λ-sets: %v", n+1, newLogClosure(
			func() string {
				return candidateCounts(cands)
			},
		))

		if !done {
			continue
		}

		for pos := range rk {
			rk[pos] = cands.resolved(pos).UnsafeFromSome()
		}

		return rk, nil
	}

	return rk, fmt.Errorf("after %d Λ-sets: %w", MaxSets, ErrAmbiguousKey)
}

// RecoverKey recovers the 16-byte master key and checks it against the
// oracle.
func (a *Attack) RecoverKey() ([]byte, error) {
	rk, err := a.RecoverLastRoundKey()
	if err != nil {
		return nil, err
	}

	key := rijndael.RecoverKey(rk, Rounds)

	c, err := rijndael.NewCipher(key, rijndael.WithRounds(Rounds))
	if err != nil {
		return nil, fmt.Errorf("unable to build cipher from recovered "+
			"key: %w", err)
	}

	var pt, want, got [rijndael.BlockSize]byte
	a.oracle.Encrypt(want[:], pt[:])
	c.Encrypt(got[:], pt[:])
	if want != got {
		return nil, ErrKeyMismatch
	}

	log.Debugf("Recovered key %x from last round key %x", key, rk[:])

	return key, nil
}

func candidateCounts(c *candidates) string {
	counts := make([]int, len(c))
	for pos := range c {
		counts[pos] = c.count(pos)
	}
	return fmt.Sprint(counts)
}
