// Package keyholder lets the decrypting party keep its private key to
// itself. The holder serves its public key and accepts encrypted envelopes
// over a network.ConnectionProvider; senders use a Client.
package keyholder

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/arvid220u/blockgamal/debug"
	"github.com/arvid220u/blockgamal/network"
	"github.com/arvid220u/blockgamal/session"
)

const ServiceName = "KeyHolder"

var (
	ErrInboxFull           = errors.New("keyholder: inbox full")
	ErrFingerprintMismatch = errors.New("keyholder: public key fingerprint mismatch")
)

// Delivery is a decrypted message received by the holder.
type Delivery struct {
	SessionID uuid.UUID
	Text      string
}

// Service holds a session with a private key. Its exported rpc methods are
// PublicKey and Deliver.
type Service struct {
	sess *session.Session

	mu        sync.Mutex
	delivered int
	inbox     chan Delivery
}

// NewService returns a holder for sess buffering up to inboxSize undelivered
// messages. sess must own a private key.
func NewService(sess *session.Session, inboxSize int) (*Service, error) {
	if sess.PrivateKey() == nil {
		return nil, session.ErrNoPrivateKey
	}
	return &Service{sess: sess, inbox: make(chan Delivery, inboxSize)}, nil
}

// Serve registers svc on cp under ServiceName.
func Serve(cp network.ConnectionProvider, svc *Service) error {
	return cp.RegisterName(ServiceName, svc)
}

func (s *Service) logHeader() string {
	return "keyholder " + s.sess.PublicKey().FingerprintString()
}

// Inbox returns the channel delivered messages are sent on. The same channel
// is always returned.
func (s *Service) Inbox() <-chan Delivery {
	return s.inbox
}

// Delivered counts messages accepted so far.
func (s *Service) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}

func (s *Service) PublicKey(ctx context.Context, args PublicKeyArgs, reply *PublicKeyReply) error {
	debug.Logf(debug.TNet, s.logHeader(), "public key requested by %q", args.Requester)
	*reply = publicKeyToWire(s.sess.PublicKey())
	return nil
}

// Deliver decrypts the envelope and queues the text on the inbox. A full
// inbox rejects the message instead of blocking the caller.
func (s *Service) Deliver(ctx context.Context, args DeliverArgs, reply *DeliverReply) error {
	env, err := envelopeFromWire(args.Envelope)
	if err != nil {
		return err
	}
	text, err := s.sess.Open(env)
	if err != nil {
		debug.Logf(debug.TNet, s.logHeader(), "rejecting envelope from %v: %v", env.SessionID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.inbox <- Delivery{SessionID: env.SessionID, Text: text}:
	default:
		return ErrInboxFull
	}
	s.delivered++
	reply.SessionID = env.SessionID.String()
	reply.Blocks = len(env.Blocks)
	debug.Logf(debug.TNet, s.logHeader(), "accepted %d blocks from %v", len(env.Blocks), env.SessionID)
	return nil
}
