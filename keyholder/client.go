package keyholder

import (
	"context"
	"fmt"
	"io"

	"github.com/arvid220u/blockgamal/elgamal"
	"github.com/arvid220u/blockgamal/network"
	"github.com/arvid220u/blockgamal/session"
)

// Client talks to the holder at Addr.
type Client struct {
	cp   network.ConnectionProvider
	Addr string
	// Pin, if nonzero, is the fingerprint the holder's public key must have.
	Pin uint64
}

func NewClient(cp network.ConnectionProvider, addr string) *Client {
	return &Client{cp: cp, Addr: addr}
}

// PublicKey fetches and checks the holder's public key.
func (c *Client) PublicKey(ctx context.Context) (*elgamal.PublicKey, error) {
	var reply PublicKeyReply
	if err := c.cp.Call(ctx, c.Addr, ServiceName, "PublicKey", PublicKeyArgs{Requester: c.cp.Me()}, &reply); err != nil {
		return nil, err
	}
	pubkey := publicKeyFromWire(reply)
	if err := pubkey.Validate(); err != nil {
		return nil, fmt.Errorf("keyholder: holder at %s sent bad parameters: %w", c.Addr, err)
	}
	fp := pubkey.Fingerprint()
	if fp != reply.Fingerprint {
		return nil, fmt.Errorf("%w: holder claims %016x, key hashes to %016x", ErrFingerprintMismatch, reply.Fingerprint, fp)
	}
	if c.Pin != 0 && fp != c.Pin {
		return nil, fmt.Errorf("%w: pinned %016x, got %016x", ErrFingerprintMismatch, c.Pin, fp)
	}
	return pubkey, nil
}

// Deliver sends an envelope sealed under the holder's public key.
func (c *Client) Deliver(ctx context.Context, env *session.Envelope) (*DeliverReply, error) {
	var reply DeliverReply
	if err := c.cp.Call(ctx, c.Addr, ServiceName, "Deliver", DeliverArgs{Envelope: envelopeToWire(env)}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Send fetches the holder's public key, seals text under it and delivers it.
func (c *Client) Send(ctx context.Context, random io.Reader, text string, opts ...session.Option) (*session.Envelope, error) {
	pubkey, err := c.PublicKey(ctx)
	if err != nil {
		return nil, err
	}
	env, err := session.NewSender(random, pubkey, opts...).Seal(text)
	if err != nil {
		return nil, err
	}
	if _, err := c.Deliver(ctx, env); err != nil {
		return nil, err
	}
	return env, nil
}
