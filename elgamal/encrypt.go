package elgamal

import (
	"fmt"
	"io"
	"math/big"

	"github.com/arvid220u/blockgamal/debug"
)

// EncryptBlock encrypts one block m < q under pubkey with a fresh ephemeral
// secret 1 <= k <= q-1 drawn from random.
func EncryptBlock(random io.Reader, pubkey *PublicKey, m *big.Int) (Ciphertext, error) {
	if err := checkBlock(pubkey, m); err != nil {
		return Ciphertext{}, err
	}
	k, err := EphemeralSecret(random, pubkey)
	if err != nil {
		return Ciphertext{}, err
	}
	return EncryptBlockWithSecret(pubkey, m, k)
}

// EphemeralSecret draws k uniformly from [1, q-1].
func EphemeralSecret(random io.Reader, pubkey *PublicKey) (*big.Int, error) {
	return randHelp(random, pubkey.Q)
}

// EncryptBlockWithSecret encrypts m with the caller-chosen ephemeral secret k.
// k must never be reused for another block.
func EncryptBlockWithSecret(pubkey *PublicKey, m, k *big.Int) (Ciphertext, error) {
	if err := checkBlock(pubkey, m); err != nil {
		return Ciphertext{}, err
	}
	if !inRange(k, one, new(big.Int).Sub(pubkey.Q, one)) {
		return Ciphertext{}, fmt.Errorf("%w: ephemeral secret not in [1, q-1]", ErrInvalidSecret)
	}
	c1 := new(big.Int).Exp(pubkey.G, k, pubkey.Q) // c1 = g^k mod q
	s := new(big.Int).Exp(pubkey.Y, k, pubkey.Q)  // shared mask
	c2 := s.Mul(s, m)
	c2.Mod(c2, pubkey.Q) // c2 = y^k * m mod q
	return Ciphertext{C1: c1, C2: c2}, nil
}

// EncryptSequence encrypts every block independently, in order, with a fresh
// ephemeral secret per block.
func EncryptSequence(random io.Reader, pubkey *PublicKey, blocks []*big.Int) ([]Ciphertext, error) {
	cts := make([]Ciphertext, len(blocks))
	for i, m := range blocks {
		ct, err := EncryptBlock(random, pubkey, m)
		if err != nil {
			return nil, &BlockError{Op: "encrypt", Index: i, Err: err}
		}
		cts[i] = ct
	}
	debug.Logf(debug.TEncrypt, "sequence", "encrypted %d blocks under %v", len(cts), pubkey.DomainParameters)
	debug.Dump("ciphertexts", cts)
	return cts, nil
}

func checkBlock(pubkey *PublicKey, m *big.Int) error {
	if m == nil || m.Sign() < 0 || m.Cmp(pubkey.Q) >= 0 {
		return fmt.Errorf("%w: m=%v, q=%v", ErrInvalidBlock, m, pubkey.Q)
	}
	return nil
}
