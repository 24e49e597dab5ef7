// Package blockcode turns text into integer blocks smaller than a modulus q
// and back again.
//
// Text is read as one big-endian unsigned integer (its UTF-8 bytes) and
// rendered in decimal. A Codec then cuts that digit string into blocks. Two
// codecs are provided: Greedy, which reproduces the classic longest-run
// partition, and FixedWidth, whose block boundaries do not depend on the
// digit values.
package blockcode

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"
)

var (
	// ErrDecode is returned when reconstructed bytes are not valid UTF-8.
	ErrDecode = errors.New("blockcode: reconstructed bytes are not valid text")
	// ErrMalformedReconstruction is returned when the recovered blocks cannot
	// be the output of an encoding.
	ErrMalformedReconstruction = errors.New("blockcode: malformed reconstruction")
	// ErrModulusTooSmall is returned when q cannot hold a single digit block.
	ErrModulusTooSmall = errors.New("blockcode: modulus too small for digit blocks")
	// ErrUnencodable is returned for text that cannot be encoded injectively.
	ErrUnencodable = errors.New("blockcode: text starts with a NUL byte")
	// ErrUnknownCodec is returned by ByName.
	ErrUnknownCodec = errors.New("blockcode: unknown codec")
)

// Codec converts between text and a sequence of blocks in [0, q-1].
type Codec interface {
	Name() string
	Encode(text string, q *big.Int) ([]*big.Int, error)
	Decode(blocks []*big.Int, q *big.Int) (string, error)
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case GreedyName, "":
		return Greedy{}, nil
	case FixedWidthName:
		return FixedWidth{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Encode splits text with the greedy codec.
func Encode(text string, q *big.Int) ([]*big.Int, error) {
	return Greedy{}.Encode(text, q)
}

// Decode reverses Encode.
func Decode(blocks []*big.Int, q *big.Int) (string, error) {
	return Greedy{}.Decode(blocks, q)
}

// textToDigits renders the bytes of text as a decimal integer.
func textToDigits(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	if text[0] == 0 {
		return "", ErrUnencodable
	}
	return new(big.Int).SetBytes([]byte(text)).String(), nil
}

// digitsToText reverses textToDigits. digits must not have leading zeros.
func digitsToText(digits string) (string, error) {
	if digits == "" {
		return "", nil
	}
	if digits[0] == '0' {
		return "", fmt.Errorf("%w: digit string %.16q has a leading zero", ErrMalformedReconstruction, digits)
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return "", fmt.Errorf("%w: %.16q is not a decimal integer", ErrMalformedReconstruction, digits)
	}
	b := n.Bytes()
	if !utf8.Valid(b) {
		return "", ErrDecode
	}
	return string(b), nil
}

func checkModulus(q *big.Int) error {
	if q == nil || q.Cmp(big.NewInt(2)) < 0 {
		return fmt.Errorf("%w: q=%v", ErrModulusTooSmall, q)
	}
	return nil
}

// checkBlock reports whether b lies in [0, limit).
func checkBlock(i int, b, limit *big.Int) error {
	if b == nil || b.Sign() < 0 || b.Cmp(limit) >= 0 {
		return fmt.Errorf("%w: block %d (%v) outside [0, %v)", ErrMalformedReconstruction, i, b, limit)
	}
	return nil
}
