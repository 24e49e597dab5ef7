package blockcode

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/arvid220u/blockgamal/debug"
)

const FixedWidthName = "fixed"

// FixedWidth cuts the digit string into blocks of Width(q) digits after
// left-padding it with zeros. Every block is re-padded to the same width on
// decode, so block boundaries never depend on digit values.
type FixedWidth struct{}

func (FixedWidth) Name() string { return FixedWidthName }

// Width returns the number of decimal digits per block for modulus q: one
// less than the number of digits of q-1, so every block is below q.
func Width(q *big.Int) (int, error) {
	if err := checkModulus(q); err != nil {
		return 0, err
	}
	w := len(new(big.Int).Sub(q, big.NewInt(1)).String()) - 1
	if w < 1 {
		return 0, fmt.Errorf("%w: fixed-width blocks need q >= 11, got %v", ErrModulusTooSmall, q)
	}
	return w, nil
}

func (FixedWidth) Encode(text string, q *big.Int) ([]*big.Int, error) {
	w, err := Width(q)
	if err != nil {
		return nil, err
	}
	digits, err := textToDigits(text)
	if err != nil {
		return nil, err
	}
	if r := len(digits) % w; r != 0 {
		digits = strings.Repeat("0", w-r) + digits
	}
	debug.Logf(debug.TEncode, FixedWidthName, "padded decimal: %s (width %d)", digits, w)

	blocks := make([]*big.Int, 0, len(digits)/w)
	for i := 0; i < len(digits); i += w {
		b, ok := new(big.Int).SetString(digits[i:i+w], 10)
		debug.Assertf(ok, FixedWidthName, "non-decimal chunk %q", digits[i:i+w])
		blocks = append(blocks, b)
	}
	debug.Dump("fixed-width blocks", blocks)
	return blocks, nil
}

func (FixedWidth) Decode(blocks []*big.Int, q *big.Int) (string, error) {
	w, err := Width(q)
	if err != nil {
		return "", err
	}
	if len(blocks) == 0 {
		return "", nil
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(w)), nil)
	var sb strings.Builder
	sb.Grow(len(blocks) * w)
	for i, b := range blocks {
		if err := checkBlock(i, b, limit); err != nil {
			return "", err
		}
		s := b.String()
		sb.WriteString(strings.Repeat("0", w-len(s)))
		sb.WriteString(s)
	}
	digits := strings.TrimLeft(sb.String(), "0")
	if digits == "" {
		return "", fmt.Errorf("%w: all %d blocks are zero", ErrMalformedReconstruction, len(blocks))
	}
	debug.Logf(debug.TDecrypt, FixedWidthName, "recovered decimal: %s", digits)
	return digitsToText(digits)
}
