package elgamal

import (
	"fmt"
	"math/big"

	"github.com/arvid220u/blockgamal/blockcode"
	"github.com/arvid220u/blockgamal/debug"
)

// DecryptBlock recovers m = c2 * (c1^x)^-1 mod q.
func DecryptBlock(ct Ciphertext, x, q *big.Int) (*big.Int, error) {
	if q == nil || q.Cmp(two) < 0 {
		return nil, fmt.Errorf("%w: q=%v", ErrInvalidParameters, q)
	}
	if x == nil || x.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative private key", ErrInvalidSecret)
	}
	top := new(big.Int).Sub(q, one)
	if !inRange(ct.C1, big.NewInt(0), top) || !inRange(ct.C2, big.NewInt(0), top) {
		return nil, fmt.Errorf("%w: (%v, %v), q=%v", ErrInvalidCiphertext, ct.C1, ct.C2, q)
	}
	s := new(big.Int).Exp(ct.C1, x, q) // shared mask
	if s.ModInverse(s, q) == nil {
		return nil, fmt.Errorf("%w: gcd(%v^x mod %v, %v) != 1", ErrNoModularInverse, ct.C1, q, q)
	}
	m := s.Mul(s, ct.C2)
	return m.Mod(m, q), nil
}

// Decrypt decrypts one ciphertext with privkey.
func (privkey *PrivateKey) Decrypt(ct Ciphertext) (*big.Int, error) {
	return DecryptBlock(ct, privkey.X, privkey.Q)
}

// DecryptBlocks decrypts every ciphertext independently, preserving order.
// Either every block decrypts or an error is returned.
func DecryptBlocks(cts []Ciphertext, x, q *big.Int) ([]*big.Int, error) {
	blocks := make([]*big.Int, len(cts))
	for i, ct := range cts {
		m, err := DecryptBlock(ct, x, q)
		if err != nil {
			return nil, &BlockError{Op: "decrypt", Index: i, Err: err}
		}
		blocks[i] = m
	}
	debug.Logf(debug.TDecrypt, "sequence", "decrypted %d blocks", len(blocks))
	debug.Dump("recovered blocks", blocks)
	return blocks, nil
}

// DecryptSequence decrypts cts and reassembles the text with the greedy codec.
func DecryptSequence(cts []Ciphertext, x, q *big.Int) (string, error) {
	return DecryptSequenceWith(blockcode.Greedy{}, cts, x, q)
}

// DecryptSequenceWith decrypts cts and reassembles the text with codec.
func DecryptSequenceWith(codec blockcode.Codec, cts []Ciphertext, x, q *big.Int) (string, error) {
	blocks, err := DecryptBlocks(cts, x, q)
	if err != nil {
		return "", err
	}
	text, err := codec.Decode(blocks, q)
	if err != nil {
		return "", fmt.Errorf("elgamal: reassembling %d blocks with %s codec: %w", len(blocks), codec.Name(), err)
	}
	return text, nil
}
