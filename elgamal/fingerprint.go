package elgamal

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/dchest/siphash"
)

// Fixed SipHash key; fingerprints are identifiers, not MACs.
const (
	fingerprintK0 = 0x626c6f636b67616d // "blockgam"
	fingerprintK1 = 0x616c2f6670727631 // "al/fprv1"
)

// Fingerprint is a short identifier for the public tuple (q, g, y).
func (pubkey *PublicKey) Fingerprint() uint64 {
	var buf []byte
	for _, v := range []*big.Int{pubkey.Q, pubkey.G, pubkey.Y} {
		b := v.Bytes()
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(b)))
		buf = append(buf, b...)
	}
	return siphash.Hash(fingerprintK0, fingerprintK1, buf)
}

// FingerprintString formats Fingerprint as 16 hex digits.
func (pubkey *PublicKey) FingerprintString() string {
	return fmt.Sprintf("%016x", pubkey.Fingerprint())
}
