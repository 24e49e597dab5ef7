package elgamal

import (
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/arvid220u/blockgamal/debug"
)

// RFC 3526 group 14, the 2048-bit MODP prime.
const modp2048Hex = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
	"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
	"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
	"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
	"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
	"3995497CEA956AE515D2261898FA051015728E5A8AACAA68FFFFFFFFFFFFFFFF"

var presets = map[string]func() DomainParameters{
	// q = 71 with primitive root 12
	"demo71": func() DomainParameters {
		return DomainParameters{Q: big.NewInt(71), G: big.NewInt(12)}
	},
	// g = 2 generates the subgroup of order (q-1)/2
	"modp2048": func() DomainParameters {
		q, _ := new(big.Int).SetString(modp2048Hex, 16)
		return DomainParameters{Q: q, G: big.NewInt(2)}
	},
}

// Preset returns a named set of domain parameters. Every call returns fresh
// big.Int values.
func Preset(name string) (DomainParameters, error) {
	p, ok := presets[name]
	if !ok {
		return DomainParameters{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidParameters, name)
	}
	return p(), nil
}

// PresetNames lists the names accepted by Preset.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateKey draws a private scalar 2 <= x <= q-1 and computes y = g^x mod q.
func GenerateKey(random io.Reader, params DomainParameters) (*PrivateKey, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	x, err := randRange(random, two, new(big.Int).Sub(params.Q, one))
	if err != nil {
		return nil, err
	}
	privkey := newPrivateKey(params, x)
	debug.Logf(debug.TKey, "keygen", "generated key for %v, y=%v", params, privkey.Y)
	return privkey, nil
}

// NewPrivateKey rebuilds a key pair from a known private scalar.
func NewPrivateKey(params DomainParameters, x *big.Int) (*PrivateKey, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !inRange(x, two, new(big.Int).Sub(params.Q, one)) {
		return nil, fmt.Errorf("%w: private key not in [2, q-1]", ErrInvalidSecret)
	}
	return newPrivateKey(params, new(big.Int).Set(x)), nil
}

func newPrivateKey(params DomainParameters, x *big.Int) *PrivateKey {
	return &PrivateKey{
		PublicKey: PublicKey{
			DomainParameters: params,
			Y:                new(big.Int).Exp(params.G, x, params.Q), // y = g^x mod q
		},
		X: x,
	}
}
