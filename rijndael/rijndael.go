// Package rijndael implements the AES family of the Rijndael block cipher
// on 16-byte blocks: key expansion for 128, 192 and 256-bit keys and the
// forward and inverse round transformations.
//
// Chaining modes and padding are left to the caller. Cipher satisfies
// crypto/cipher.Block so the standard library modes can drive it.
//
// Table lookups are not constant time.
package rijndael

import (
	"crypto/cipher"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// config holds the optional parameters of a key schedule.
type config struct {
	rounds fn.Option[int]
}

// Option customises ExpandKey and NewCipher.
type Option func(*config)

// WithRounds overrides the round count implied by the key length. It
// exists for reduced-round analysis; a schedule built with it is not AES.
func WithRounds(rounds int) Option {
	return func(c *config) {
		c.rounds = fn.Some(rounds)
	}
}

// ExpandKey derives the round-key schedule for key, which must be 16, 24
// or 32 bytes long.
func ExpandKey(key []byte, opts ...Option) (*Schedule, error) {
	rounds, err := roundsForKey(len(key))
	if err != nil {
		return nil, err
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.rounds.IsSome() {
		override := cfg.rounds.UnwrapOr(rounds)
		if override < 1 || override > MaxRounds {
			return nil, &RoundsError{Rounds: override}
		}

		log.Debugf("Using %d rounds for %d-bit key instead of %d",
			override, len(key)*8, rounds)
		rounds = override
	}

	ks := &Schedule{}
	expandKey(ks, key, rounds)

	log.Tracef("Expanded %d-bit key into %d round keys: %v", len(key)*8,
		rounds+1, spewClosure(ks.RoundKeys()))

	return ks, nil
}

// EncryptBlock encrypts one block under ks and returns the ciphertext in a
// new slice. block is not modified. ks must come from ExpandKey.
func EncryptBlock(block []byte, ks *Schedule) ([]byte, error) {
	if ks == nil || ks.rounds == 0 {
		return nil, ErrNoSchedule
	}
	if len(block) != BlockSize {
		return nil, &BlockLengthError{Length: len(block)}
	}

	s := loadState(block)
	s.encrypt(ks)

	out := make([]byte, BlockSize)
	s.store(out)
	return out, nil
}

// DecryptBlock decrypts one block under ks and returns the plaintext in a
// new slice. block is not modified. ks must come from ExpandKey.
func DecryptBlock(block []byte, ks *Schedule) ([]byte, error) {
	if ks == nil || ks.rounds == 0 {
		return nil, ErrNoSchedule
	}
	if len(block) != BlockSize {
		return nil, &BlockLengthError{Length: len(block)}
	}

	s := loadState(block)
	s.decrypt(ks)

	out := make([]byte, BlockSize)
	s.store(out)
	return out, nil
}

// Cipher is a keyed block cipher instance.
type Cipher struct {
	ks *Schedule
}

// A compile-time check to ensure Cipher satisfies the cipher.Block
// interface.
var _ cipher.Block = (*Cipher)(nil)

// NewCipher expands key and returns a cipher bound to it.
func NewCipher(key []byte, opts ...Option) (*Cipher, error) {
	ks, err := ExpandKey(key, opts...)
	if err != nil {
		return nil, err
	}

	return &Cipher{ks: ks}, nil
}

// Schedule returns the cipher's round keys.
func (c *Cipher) Schedule() *Schedule {
	return c.ks
}

// BlockSize returns the cipher's block size.
func (c *Cipher) BlockSize() int {
	return BlockSize
}

// Encrypt encrypts the first block of src into dst. dst and src may
// overlap entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}

	s := loadState(src)
	s.encrypt(c.ks)
	s.store(dst)
}

// Decrypt decrypts the first block of src into dst. dst and src may
// overlap entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}

	s := loadState(src)
	s.decrypt(c.ks)
	s.store(dst)
}
