package elgamal

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvid220u/blockgamal/blockcode"
	"github.com/arvid220u/blockgamal/rng"
)

func preset(t *testing.T, name string) DomainParameters {
	params, err := Preset(name)
	require.NoError(t, err)
	return params
}

func seeded(t *testing.T, seed string) *rng.Deterministic {
	r, err := rng.NewDeterministic([]byte(seed))
	require.NoError(t, err)
	return r
}

func roundTrip(t *testing.T, params DomainParameters, codec blockcode.Codec, message string) {
	privkey, err := GenerateKey(rand.Reader, params)
	require.NoError(t, err)
	msg, err := codec.Encode(message, params.Q)
	require.NoError(t, err)
	C, err := EncryptSequence(rand.Reader, &privkey.PublicKey, msg)
	require.NoError(t, err)
	require.Len(t, C, len(msg))
	D, err := DecryptSequenceWith(codec, C, privkey.X, privkey.Q)
	require.NoError(t, err)
	assert.Equal(t, message, D)
}

func TestBasic(t *testing.T) {
	roundTrip(t, preset(t, "modp2048"), blockcode.Greedy{}, "i am a squid")
}

func TestBasicDemoParameters(t *testing.T) {
	roundTrip(t, preset(t, "demo71"), blockcode.Greedy{}, "This class is CSI4108")
}

func TestRoundTripMany(t *testing.T) {
	messages := []string{
		"d",
		"P",
		"i am a very purple squid",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua",
		"naïve café, 東京, ✓✓✓",
	}
	for _, name := range PresetNames() {
		for _, codec := range []blockcode.Codec{blockcode.Greedy{}, blockcode.FixedWidth{}} {
			for _, m := range messages {
				roundTrip(t, preset(t, name), codec, m)
			}
		}
	}
}

func TestZeroBlockEncryptsAndDecrypts(t *testing.T) {
	params := preset(t, "demo71")
	privkey, err := GenerateKey(seeded(t, "zero"), params)
	require.NoError(t, err)

	msg, err := blockcode.Encode("d", params.Q)
	require.NoError(t, err)
	require.Equal(t, []int64{10, 0}, []int64{msg[0].Int64(), msg[1].Int64()})

	C, err := EncryptSequence(seeded(t, "zero-enc"), &privkey.PublicKey, msg)
	require.NoError(t, err)
	D, err := DecryptSequence(C, privkey.X, params.Q)
	require.NoError(t, err)
	assert.Equal(t, "d", D)
}

func TestKnownVector(t *testing.T) {
	params := preset(t, "demo71")
	privkey, err := NewPrivateKey(params, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(48), privkey.Y.Int64()) // 12^5 mod 71

	ct, err := EncryptBlockWithSecret(&privkey.PublicKey, big.NewInt(13), big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(24), ct.C1.Int64()) // 12^3 mod 71
	assert.Equal(t, int64(17), ct.C2.Int64()) // (48^3 mod 71) * 13 mod 71

	m, err := privkey.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, int64(13), m.Int64())
}

func TestCiphertextShape(t *testing.T) {
	params := preset(t, "demo71")
	privkey, err := GenerateKey(seeded(t, "shape"), params)
	require.NoError(t, err)
	msg, err := blockcode.Encode("This class is CSI4108", params.Q)
	require.NoError(t, err)

	C, err := EncryptSequence(seeded(t, "shape-enc"), &privkey.PublicKey, msg)
	require.NoError(t, err)
	require.Len(t, C, len(msg))
	for _, ct := range C {
		assert.True(t, ct.C1.Sign() >= 0 && ct.C1.Cmp(params.Q) < 0)
		assert.True(t, ct.C2.Sign() >= 0 && ct.C2.Cmp(params.Q) < 0)
	}
}

func TestFreshEphemeralSecrets(t *testing.T) {
	params := preset(t, "modp2048")
	privkey, err := GenerateKey(rand.Reader, params)
	require.NoError(t, err)
	m := big.NewInt(424242)

	a, err := EncryptBlock(rand.Reader, &privkey.PublicKey, m)
	require.NoError(t, err)
	b, err := EncryptBlock(rand.Reader, &privkey.PublicKey, m)
	require.NoError(t, err)
	assert.NotEqual(t, 0, a.C1.Cmp(b.C1))
	assert.NotEqual(t, 0, a.C2.Cmp(b.C2))

	da, err := privkey.Decrypt(a)
	require.NoError(t, err)
	db, err := privkey.Decrypt(b)
	require.NoError(t, err)
	assert.Equal(t, 0, da.Cmp(m))
	assert.Equal(t, 0, db.Cmp(m))
}

func TestSeededEncryptionIsReproducible(t *testing.T) {
	params := preset(t, "demo71")
	k1, err := GenerateKey(seeded(t, "key"), params)
	require.NoError(t, err)
	k2, err := GenerateKey(seeded(t, "key"), params)
	require.NoError(t, err)
	require.Equal(t, 0, k1.X.Cmp(k2.X))

	msg, err := blockcode.Encode("i am a squid", params.Q)
	require.NoError(t, err)
	c1, err := EncryptSequence(seeded(t, "enc"), &k1.PublicKey, msg)
	require.NoError(t, err)
	c2, err := EncryptSequence(seeded(t, "enc"), &k2.PublicKey, msg)
	require.NoError(t, err)
	for i := range c1 {
		assert.Equal(t, 0, c1[i].C1.Cmp(c2[i].C1))
		assert.Equal(t, 0, c1[i].C2.Cmp(c2[i].C2))
	}
}

func TestEncryptRejectsOversizedBlock(t *testing.T) {
	params := preset(t, "demo71")
	privkey, err := GenerateKey(rand.Reader, params)
	require.NoError(t, err)

	_, err = EncryptBlock(rand.Reader, &privkey.PublicKey, big.NewInt(71))
	assert.ErrorIs(t, err, ErrInvalidBlock)
	_, err = EncryptBlock(rand.Reader, &privkey.PublicKey, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidBlock)

	_, err = EncryptSequence(rand.Reader, &privkey.PublicKey, []*big.Int{big.NewInt(3), big.NewInt(70), big.NewInt(99)})
	require.ErrorIs(t, err, ErrInvalidBlock)
	var be *BlockError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "encrypt", be.Op)
	assert.Equal(t, 2, be.Index)
}

func TestEncryptRejectsBadSecret(t *testing.T) {
	privkey, err := NewPrivateKey(preset(t, "demo71"), big.NewInt(5))
	require.NoError(t, err)
	for _, k := range []int64{0, 71, -3} {
		_, err = EncryptBlockWithSecret(&privkey.PublicKey, big.NewInt(13), big.NewInt(k))
		assert.ErrorIs(t, err, ErrInvalidSecret, "k=%d", k)
	}
}
