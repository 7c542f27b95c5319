package rijndael

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyLength is matched by every KeyLengthError.
	ErrInvalidKeyLength = errors.New("rijndael: invalid key length")

	// ErrInvalidBlockLength is matched by every BlockLengthError.
	ErrInvalidBlockLength = errors.New("rijndael: invalid block length")

	// ErrInvalidRounds is matched by every RoundsError.
	ErrInvalidRounds = errors.New("rijndael: invalid round count")

	// ErrNoSchedule is returned when a block operation is handed a nil
	// or zero-value Schedule instead of one built by ExpandKey.
	ErrNoSchedule = errors.New("rijndael: key schedule not expanded")
)

// KeyLengthError is returned when a key is not 16, 24 or 32 bytes long.
type KeyLengthError struct {
	Length int
}

func (e *KeyLengthError) Error() string {
	return fmt.Sprintf("rijndael: invalid key length %d, want 16, 24 or 32",
		e.Length)
}

// Is lets errors.Is match the error against ErrInvalidKeyLength.
func (e *KeyLengthError) Is(target error) bool {
	return target == ErrInvalidKeyLength
}

// BlockLengthError is returned when a block is not exactly BlockSize
// bytes long.
type BlockLengthError struct {
	Length int
}

func (e *BlockLengthError) Error() string {
	return fmt.Sprintf("rijndael: invalid block length %d, want %d",
		e.Length, BlockSize)
}

// Is lets errors.Is match the error against ErrInvalidBlockLength.
func (e *BlockLengthError) Is(target error) bool {
	return target == ErrInvalidBlockLength
}

// RoundsError is returned when a round count override is out of range.
type RoundsError struct {
	Rounds int
}

func (e *RoundsError) Error() string {
	return fmt.Sprintf("rijndael: invalid round count %d, want 1..%d",
		e.Rounds, MaxRounds)
}

// Is lets errors.Is match the error against ErrInvalidRounds.
func (e *RoundsError) Is(target error) bool {
	return target == ErrInvalidRounds
}
