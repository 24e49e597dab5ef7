package session

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvid220u/blockgamal/blockcode"
	"github.com/arvid220u/blockgamal/elgamal"
	"github.com/arvid220u/blockgamal/rng"
)

func params(t *testing.T, name string) elgamal.DomainParameters {
	p, err := elgamal.Preset(name)
	require.NoError(t, err)
	return p
}

func seeded(t *testing.T, seed string) *rng.Deterministic {
	r, err := rng.NewDeterministic([]byte(seed))
	require.NoError(t, err)
	return r
}

func TestSealOpen(t *testing.T) {
	for _, name := range elgamal.PresetNames() {
		for _, codec := range []blockcode.Codec{blockcode.Greedy{}, blockcode.FixedWidth{}} {
			for _, workers := range []int{0, 1, 4} {
				s, err := New(rand.Reader, params(t, name), WithCodec(codec), WithWorkers(workers))
				require.NoError(t, err)

				env, err := s.Seal("message in round 3 from squid")
				require.NoError(t, err)
				assert.Equal(t, s.ID, env.SessionID)
				assert.Equal(t, codec.Name(), env.Codec)

				text, err := s.Open(env)
				require.NoError(t, err)
				assert.Equal(t, "message in round 3 from squid", text)
			}
		}
	}
}

func TestSenderToReceiver(t *testing.T) {
	receiver, err := New(rand.Reader, params(t, "demo71"))
	require.NoError(t, err)
	sender := NewSender(rand.Reader, receiver.PublicKey(), WithCodec(blockcode.FixedWidth{}))
	assert.NotEqual(t, receiver.ID, sender.ID)
	assert.Nil(t, sender.PrivateKey())

	env, err := sender.Seal("This class is CSI4108")
	require.NoError(t, err)

	_, err = sender.Open(env)
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	text, err := receiver.Open(env)
	require.NoError(t, err)
	assert.Equal(t, "This class is CSI4108", text)
}

func TestParallelMatchesSequential(t *testing.T) {
	privkey, err := elgamal.GenerateKey(seeded(t, "key"), params(t, "demo71"))
	require.NoError(t, err)

	seq := NewWithKey(seeded(t, "enc"), privkey)
	par := NewWithKey(seeded(t, "enc"), privkey, WithWorkers(8))

	msg := "Lorem ipsum dolor sit amet, consectetur adipiscing elit"
	a, err := seq.Seal(msg)
	require.NoError(t, err)
	b, err := par.Seal(msg)
	require.NoError(t, err)

	require.Len(t, b.Blocks, len(a.Blocks))
	for i := range a.Blocks {
		assert.Equal(t, 0, a.Blocks[i].C1.Cmp(b.Blocks[i].C1), "block %d", i)
		assert.Equal(t, 0, a.Blocks[i].C2.Cmp(b.Blocks[i].C2), "block %d", i)
	}

	ma, err := seq.OpenBlocks(b)
	require.NoError(t, err)
	mb, err := par.OpenBlocks(a)
	require.NoError(t, err)
	require.Len(t, mb, len(ma))
	for i := range ma {
		assert.Equal(t, 0, ma[i].Cmp(mb[i]))
	}
}

func TestProgress(t *testing.T) {
	for _, workers := range []int{1, 3} {
		var calls []int
		total := -1
		s, err := New(rand.Reader, params(t, "demo71"), WithWorkers(workers), WithProgress(func(done, n int) {
			calls = append(calls, done)
			total = n
		}))
		require.NoError(t, err)

		blocks, err := s.Encode("i am a squid")
		require.NoError(t, err)
		_, err = s.SealBlocks(blocks)
		require.NoError(t, err)

		assert.Equal(t, len(blocks), total)
		require.Len(t, calls, len(blocks))
		for i, d := range calls {
			assert.Equal(t, i+1, d)
		}
	}
}

func TestOpenRejectsBadEnvelopes(t *testing.T) {
	s, err := New(rand.Reader, params(t, "demo71"), WithWorkers(2))
	require.NoError(t, err)
	env, err := s.Seal("squid")
	require.NoError(t, err)

	unknown := *env
	unknown.Codec = "rot13"
	_, err = s.Open(&unknown)
	assert.ErrorIs(t, err, blockcode.ErrUnknownCodec)

	tampered := Envelope{SessionID: uuid.New(), Codec: env.Codec, Blocks: append([]elgamal.Ciphertext(nil), env.Blocks...)}
	tampered.Blocks[0] = elgamal.Ciphertext{C1: big.NewInt(71), C2: big.NewInt(1)}
	_, err = s.Open(&tampered)
	assert.ErrorIs(t, err, elgamal.ErrInvalidCiphertext)
}

func TestSealRejectsOversizedBlocks(t *testing.T) {
	for _, workers := range []int{1, 4} {
		s, err := New(rand.Reader, params(t, "demo71"), WithWorkers(workers))
		require.NoError(t, err)
		_, err = s.SealBlocks([]*big.Int{big.NewInt(1), big.NewInt(500)})
		assert.ErrorIs(t, err, elgamal.ErrInvalidBlock)
	}
}

func TestEmptyMessage(t *testing.T) {
	s, err := New(rand.Reader, params(t, "demo71"))
	require.NoError(t, err)
	env, err := s.Seal("")
	require.NoError(t, err)
	assert.Empty(t, env.Blocks)
	text, err := s.Open(env)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
