package elgamal

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// DomainParameters are the systemwide values: a prime Q and a generator G of
// a large subgroup of Z_Q^*. Treat as immutable.
type DomainParameters struct {
	Q, G *big.Int
}

type PublicKey struct { // shared freely
	DomainParameters
	Y *big.Int // Y = G^X mod Q
}

type PrivateKey struct { // owned by the decrypting party only
	PublicKey
	X *big.Int // 2 <= X <= Q - 1
}

// Ciphertext is the pair produced for one plaintext block.
type Ciphertext struct {
	C1, C2 *big.Int // C1 = G^k, C2 = Y^k * m (mod Q)
}

// Validate checks the mathematical requirements on the parameters. It does
// not check that G is a primitive root.
func (p DomainParameters) Validate() error {
	if p.Q == nil || p.G == nil {
		return fmt.Errorf("%w: missing q or g", ErrInvalidParameters)
	}
	if p.Q.Cmp(big.NewInt(3)) <= 0 || !p.Q.ProbablyPrime(40) {
		return fmt.Errorf("%w: q=%v is not a prime above 3", ErrInvalidParameters, p.Q)
	}
	if p.G.Cmp(one) <= 0 || p.G.Cmp(p.Q) >= 0 {
		return fmt.Errorf("%w: g=%v outside (1, q)", ErrInvalidParameters, p.G)
	}
	return nil
}

func (p DomainParameters) String() string {
	return fmt.Sprintf("(q=%v, g=%v)", p.Q, p.G)
}

// randRange draws uniformly from [lo, hi], inclusive.
func randRange(random io.Reader, lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, one)
	if span.Sign() <= 0 {
		return nil, fmt.Errorf("elgamal: empty range [%v, %v]", lo, hi)
	}
	r, err := rand.Int(random, span)
	if err != nil {
		return nil, err
	}
	return r.Add(r, lo), nil
}

// randHelp generates a number from 1 to Q - 1, inclusive.
func randHelp(random io.Reader, Q *big.Int) (*big.Int, error) {
	return randRange(random, one, new(big.Int).Sub(Q, one))
}

// inRange reports whether lo <= v <= hi.
func inRange(v, lo, hi *big.Int) bool {
	return v != nil && v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}
