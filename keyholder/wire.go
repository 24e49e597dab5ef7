package keyholder

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/arvid220u/blockgamal/elgamal"
	"github.com/arvid220u/blockgamal/session"
)

// Integers travel as big-endian bytes; every value on the wire is non-negative.

type PublicKeyArgs struct {
	Requester string
}

type PublicKeyReply struct {
	Q, G, Y     []byte
	Fingerprint uint64
}

type WireCiphertext struct {
	C1, C2 []byte
}

type WireEnvelope struct {
	SessionID string
	Codec     string
	Blocks    []WireCiphertext
}

type DeliverArgs struct {
	Envelope WireEnvelope
}

type DeliverReply struct {
	SessionID string
	Blocks    int
}

func publicKeyToWire(pubkey *elgamal.PublicKey) PublicKeyReply {
	return PublicKeyReply{
		Q:           pubkey.Q.Bytes(),
		G:           pubkey.G.Bytes(),
		Y:           pubkey.Y.Bytes(),
		Fingerprint: pubkey.Fingerprint(),
	}
}

func publicKeyFromWire(r PublicKeyReply) *elgamal.PublicKey {
	return &elgamal.PublicKey{
		DomainParameters: elgamal.DomainParameters{
			Q: new(big.Int).SetBytes(r.Q),
			G: new(big.Int).SetBytes(r.G),
		},
		Y: new(big.Int).SetBytes(r.Y),
	}
}

func envelopeToWire(env *session.Envelope) WireEnvelope {
	w := WireEnvelope{
		SessionID: env.SessionID.String(),
		Codec:     env.Codec,
		Blocks:    make([]WireCiphertext, len(env.Blocks)),
	}
	for i, ct := range env.Blocks {
		w.Blocks[i] = WireCiphertext{C1: ct.C1.Bytes(), C2: ct.C2.Bytes()}
	}
	return w
}

func envelopeFromWire(w WireEnvelope) (*session.Envelope, error) {
	id, err := uuid.Parse(w.SessionID)
	if err != nil {
		return nil, fmt.Errorf("keyholder: bad session id %q: %w", w.SessionID, err)
	}
	env := &session.Envelope{
		SessionID: id,
		Codec:     w.Codec,
		Blocks:    make([]elgamal.Ciphertext, len(w.Blocks)),
	}
	for i, b := range w.Blocks {
		env.Blocks[i] = elgamal.Ciphertext{
			C1: new(big.Int).SetBytes(b.C1),
			C2: new(big.Int).SetBytes(b.C2),
		}
	}
	return env, nil
}
