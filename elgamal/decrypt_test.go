package elgamal

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvid220u/blockgamal/blockcode"
)

func TestDecryptCompositeModulus(t *testing.T) {
	// q = 15 is not prime: the mask 3^1 shares the factor 3 with q.
	ct := Ciphertext{C1: big.NewInt(3), C2: big.NewInt(7)}
	_, err := DecryptBlock(ct, big.NewInt(1), big.NewInt(15))
	assert.ErrorIs(t, err, ErrNoModularInverse)

	_, err = DecryptSequence([]Ciphertext{{C1: big.NewInt(2), C2: big.NewInt(1)}, ct}, big.NewInt(1), big.NewInt(15))
	require.ErrorIs(t, err, ErrNoModularInverse)
	var be *BlockError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "decrypt", be.Op)
	assert.Equal(t, 1, be.Index)
}

func TestDecryptZeroMask(t *testing.T) {
	_, err := DecryptBlock(Ciphertext{C1: big.NewInt(0), C2: big.NewInt(5)}, big.NewInt(5), big.NewInt(71))
	assert.ErrorIs(t, err, ErrNoModularInverse)
}

func TestDecryptInvalidCiphertext(t *testing.T) {
	q := big.NewInt(71)
	for _, ct := range []Ciphertext{
		{C1: big.NewInt(71), C2: big.NewInt(1)},
		{C1: big.NewInt(1), C2: big.NewInt(-1)},
		{C1: nil, C2: big.NewInt(1)},
	} {
		_, err := DecryptBlock(ct, big.NewInt(5), q)
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	}
	_, err := DecryptBlock(Ciphertext{C1: big.NewInt(1), C2: big.NewInt(1)}, big.NewInt(5), big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	params := preset(t, "modp2048")
	right, err := GenerateKey(seeded(t, "right"), params)
	require.NoError(t, err)
	wrong, err := GenerateKey(seeded(t, "wrong"), params)
	require.NoError(t, err)

	msg, err := blockcode.Encode("i am a squid", params.Q)
	require.NoError(t, err)
	C, err := EncryptSequence(seeded(t, "enc"), &right.PublicKey, msg)
	require.NoError(t, err)

	text, err := DecryptSequence(C, wrong.X, params.Q)
	if err == nil {
		assert.NotEqual(t, "i am a squid", text)
	}
}

func TestDecryptEmptySequence(t *testing.T) {
	text, err := DecryptSequence(nil, big.NewInt(5), big.NewInt(71))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestDecryptMalformedReconstruction(t *testing.T) {
	privkey, err := NewPrivateKey(preset(t, "demo71"), big.NewInt(5))
	require.NoError(t, err)

	// a lone 0 block can never come out of the encoder
	ct, err := EncryptBlockWithSecret(&privkey.PublicKey, big.NewInt(0), big.NewInt(3))
	require.NoError(t, err)
	_, err = DecryptSequence([]Ciphertext{ct}, privkey.X, privkey.Q)
	assert.ErrorIs(t, err, blockcode.ErrMalformedReconstruction)
}
