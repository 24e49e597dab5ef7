// Package rng provides the randomness sources handed to key generation and
// encryption. Any io.Reader works; this package adds a seeded stream so
// runs can be reproduced.
package rng

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const deterministicInfo = "blockgamal/v1/rng"

// System returns the operating system's CSPRNG.
func System() io.Reader {
	return rand.Reader
}

// Deterministic is a seeded byte stream. Block i of the stream is
// HKDF-Expand(prk, info || i) with prk = HKDF-Extract(seed). It is demo
// grade and not safe for concurrent use.
type Deterministic struct {
	prk     []byte
	counter uint64
	buf     []byte
}

// NewDeterministic returns a stream seeded with seed.
func NewDeterministic(seed []byte) (*Deterministic, error) {
	if len(seed) == 0 {
		return nil, errors.New("rng: empty seed")
	}
	return &Deterministic{prk: hkdf.Extract(sha256.New, seed, nil)}, nil
}

func (d *Deterministic) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(d.buf) == 0 {
			if err := d.refill(); err != nil {
				return n, err
			}
		}
		c := copy(p[n:], d.buf)
		d.buf = d.buf[c:]
		n += c
	}
	return n, nil
}

func (d *Deterministic) refill() error {
	info := binary.BigEndian.AppendUint64([]byte(deterministicInfo), d.counter)
	d.counter++
	block := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, d.prk, info), block); err != nil {
		return err
	}
	d.buf = block
	return nil
}
