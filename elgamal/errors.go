package elgamal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters indicates q or g does not satisfy the scheme's requirements.
	ErrInvalidParameters = errors.New("elgamal: invalid domain parameters")

	// ErrInvalidBlock indicates a plaintext block is not in [0, q-1].
	ErrInvalidBlock = errors.New("elgamal: plaintext block not below q")

	// ErrInvalidSecret indicates a private or ephemeral scalar is out of range.
	ErrInvalidSecret = errors.New("elgamal: secret scalar out of range")

	// ErrInvalidCiphertext indicates a ciphertext component is not in [0, q-1].
	ErrInvalidCiphertext = errors.New("elgamal: ciphertext component not below q")

	// ErrNoModularInverse indicates the shared mask is not invertible mod q,
	// which means q is not prime or the mask is zero.
	ErrNoModularInverse = errors.New("elgamal: shared mask has no inverse mod q")
)

// BlockError reports which block of a sequence failed.
type BlockError struct {
	Op    string // "encrypt" or "decrypt"
	Index int
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("elgamal.%s: block %d: %v", e.Op, e.Index, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
