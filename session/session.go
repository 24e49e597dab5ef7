// Package session bundles the pieces of one encrypt/decrypt exchange: a key
// pair (or just a public key on the sending side), a block codec, the
// randomness source and an optional pool of workers for the per-block
// arithmetic.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arvid220u/blockgamal/blockcode"
	"github.com/arvid220u/blockgamal/debug"
	"github.com/arvid220u/blockgamal/elgamal"
)

// ErrNoPrivateKey is returned when a send-only session is asked to decrypt.
var ErrNoPrivateKey = errors.New("session: no private key")

// Envelope is an encrypted message as it travels between sessions.
type Envelope struct {
	SessionID uuid.UUID
	Codec     string
	Blocks    []elgamal.Ciphertext
}

// Session is safe for concurrent use only if its random source is.
type Session struct {
	// ID uniquely identifies this session. Immutable.
	ID uuid.UUID

	random  io.Reader
	pubkey  *elgamal.PublicKey
	privkey *elgamal.PrivateKey // nil for send-only sessions

	codec    blockcode.Codec
	workers  int
	progress func(done, total int)
}

type Option func(*Session)

// WithCodec selects the block codec used by Seal. Open always uses the codec
// named in the envelope.
func WithCodec(codec blockcode.Codec) Option {
	return func(s *Session) { s.codec = codec }
}

// WithWorkers runs block arithmetic on up to n goroutines. n <= 1 is sequential.
func WithWorkers(n int) Option {
	return func(s *Session) { s.workers = n }
}

// WithProgress registers a callback invoked after every encrypted block.
func WithProgress(f func(done, total int)) Option {
	return func(s *Session) { s.progress = f }
}

// New generates a fresh key pair for params and returns a session owning it.
func New(random io.Reader, params elgamal.DomainParameters, opts ...Option) (*Session, error) {
	privkey, err := elgamal.GenerateKey(random, params)
	if err != nil {
		return nil, err
	}
	return NewWithKey(random, privkey, opts...), nil
}

// NewWithKey returns a session owning privkey.
func NewWithKey(random io.Reader, privkey *elgamal.PrivateKey, opts ...Option) *Session {
	s := newSession(random, &privkey.PublicKey, opts)
	s.privkey = privkey
	return s
}

// NewSender returns a send-only session that can Seal but not Open.
func NewSender(random io.Reader, pubkey *elgamal.PublicKey, opts ...Option) *Session {
	return newSession(random, pubkey, opts)
}

func newSession(random io.Reader, pubkey *elgamal.PublicKey, opts []Option) *Session {
	s := &Session{
		ID:     uuid.New(),
		random: random,
		pubkey: pubkey,
		codec:  blockcode.Greedy{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logf(debug.TSession, "new session, codec=%s workers=%d key=%s", s.codec.Name(), s.workers, pubkey.FingerprintString())
	return s
}

func (s *Session) logHeader() string {
	return "session " + s.ID.String()[:8]
}

func (s *Session) logf(topic debug.Topic, format string, a ...interface{}) {
	debug.Logf(topic, s.logHeader(), format, a...)
}

func (s *Session) PublicKey() *elgamal.PublicKey {
	return s.pubkey
}

// PrivateKey returns nil for send-only sessions.
func (s *Session) PrivateKey() *elgamal.PrivateKey {
	return s.privkey
}

func (s *Session) Codec() blockcode.Codec {
	return s.codec
}

// Encode splits text into blocks with the session's codec.
func (s *Session) Encode(text string) ([]*big.Int, error) {
	return s.codec.Encode(text, s.pubkey.Q)
}

// Seal encodes and encrypts text.
func (s *Session) Seal(text string) (*Envelope, error) {
	blocks, err := s.Encode(text)
	if err != nil {
		return nil, err
	}
	return s.SealBlocks(blocks)
}

// SealBlocks encrypts already encoded blocks. Every block gets its own
// ephemeral secret.
func (s *Session) SealBlocks(blocks []*big.Int) (*Envelope, error) {
	var cts []elgamal.Ciphertext
	var err error
	if s.workers <= 1 {
		cts, err = s.encryptSequential(blocks)
	} else {
		cts, err = s.encryptParallel(blocks)
	}
	if err != nil {
		return nil, err
	}
	env := &Envelope{SessionID: s.ID, Codec: s.codec.Name(), Blocks: cts}
	s.logf(debug.TEncrypt, "sealed %d blocks", len(cts))
	debug.Dump(s.logHeader(), env)
	return env, nil
}

func (s *Session) encryptSequential(blocks []*big.Int) ([]elgamal.Ciphertext, error) {
	tick := s.ticker(len(blocks))
	cts := make([]elgamal.Ciphertext, len(blocks))
	for i, m := range blocks {
		ct, err := elgamal.EncryptBlock(s.random, s.pubkey, m)
		if err != nil {
			return nil, &elgamal.BlockError{Op: "encrypt", Index: i, Err: err}
		}
		cts[i] = ct
		tick()
	}
	return cts, nil
}

// encryptParallel draws all ephemeral secrets up front, in block order, so
// the random source is read from one goroutine and seeded runs match the
// sequential path.
func (s *Session) encryptParallel(blocks []*big.Int) ([]elgamal.Ciphertext, error) {
	secrets := make([]*big.Int, len(blocks))
	for i := range blocks {
		k, err := elgamal.EphemeralSecret(s.random, s.pubkey)
		if err != nil {
			return nil, err
		}
		secrets[i] = k
	}

	tick := s.ticker(len(blocks))
	cts := make([]elgamal.Ciphertext, len(blocks))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range blocks {
		i := i
		g.Go(func() error {
			ct, err := elgamal.EncryptBlockWithSecret(s.pubkey, blocks[i], secrets[i])
			secrets[i] = nil
			if err != nil {
				return &elgamal.BlockError{Op: "encrypt", Index: i, Err: err}
			}
			cts[i] = ct
			tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cts, nil
}

// Open decrypts env and decodes it with the codec named in the envelope.
func (s *Session) Open(env *Envelope) (string, error) {
	codec, err := blockcode.ByName(env.Codec)
	if err != nil {
		return "", err
	}
	blocks, err := s.OpenBlocks(env)
	if err != nil {
		return "", err
	}
	text, err := codec.Decode(blocks, s.pubkey.Q)
	if err != nil {
		return "", fmt.Errorf("session: opening envelope from %v: %w", env.SessionID, err)
	}
	s.logf(debug.TDecrypt, "opened envelope from %v (%d blocks)", env.SessionID, len(blocks))
	return text, nil
}

// OpenBlocks decrypts env without decoding it.
func (s *Session) OpenBlocks(env *Envelope) ([]*big.Int, error) {
	if s.privkey == nil {
		return nil, ErrNoPrivateKey
	}
	if s.workers <= 1 {
		return elgamal.DecryptBlocks(env.Blocks, s.privkey.X, s.privkey.Q)
	}
	blocks := make([]*big.Int, len(env.Blocks))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range env.Blocks {
		i := i
		g.Go(func() error {
			m, err := elgamal.DecryptBlock(env.Blocks[i], s.privkey.X, s.privkey.Q)
			if err != nil {
				return &elgamal.BlockError{Op: "decrypt", Index: i, Err: err}
			}
			blocks[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *Session) ticker(total int) func() {
	if s.progress == nil {
		return func() {}
	}
	var mu sync.Mutex
	done := 0
	return func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		s.progress(done, total)
	}
}
