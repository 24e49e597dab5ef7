package blockcode

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/arvid220u/blockgamal/debug"
)

const GreedyName = "greedy"

// Greedy partitions the digit string left to right into the longest runs
// whose value stays below q. A run that starts at a 0 digit is closed
// immediately as the block 0, so no nonzero block ever carries a leading
// zero and concatenating the blocks' decimal forms restores the digits.
type Greedy struct{}

func (Greedy) Name() string { return GreedyName }

func (Greedy) Encode(text string, q *big.Int) ([]*big.Int, error) {
	if err := checkModulus(q); err != nil {
		return nil, err
	}
	digits, err := textToDigits(text)
	if err != nil {
		return nil, err
	}
	debug.Logf(debug.TEncode, GreedyName, "message as decimal: %s", digits)

	top := new(big.Int).Sub(q, big.NewInt(1))
	ten := big.NewInt(10)
	blocks := make([]*big.Int, 0, len(digits)/len(top.String())+1)
	for i := 0; i < len(digits); {
		if digits[i] == '0' {
			blocks = append(blocks, new(big.Int))
			i++
			continue
		}
		run := big.NewInt(int64(digits[i] - '0'))
		if run.Cmp(top) > 0 {
			return nil, fmt.Errorf("%w: digit %c at offset %d is not below q=%v", ErrModulusTooSmall, digits[i], i, q)
		}
		j := i + 1
		next := new(big.Int)
		for j < len(digits) {
			next.Mul(run, ten)
			next.Add(next, big.NewInt(int64(digits[j]-'0')))
			if next.Cmp(top) > 0 {
				break
			}
			run.Set(next)
			j++
		}
		blocks = append(blocks, run)
		i = j
	}
	debug.Dump("greedy blocks", blocks)
	return blocks, nil
}

func (Greedy) Decode(blocks []*big.Int, q *big.Int) (string, error) {
	if err := checkModulus(q); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, b := range blocks {
		if err := checkBlock(i, b, q); err != nil {
			return "", err
		}
		sb.WriteString(b.String())
	}
	digits := sb.String()
	debug.Logf(debug.TDecrypt, GreedyName, "recovered decimal: %s", digits)
	return digitsToText(digits)
}
