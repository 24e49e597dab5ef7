package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fatih/color"

	"github.com/arvid220u/blockgamal/elgamal"
)

var (
	label = color.New(color.FgCyan, color.Bold)
	value = color.New(color.FgWhite)
	good  = color.New(color.FgGreen, color.Bold)
	bad   = color.New(color.FgRed, color.Bold)
)

func field(w io.Writer, name string, format string, a ...interface{}) {
	label.Fprintf(w, "%-12s", name+":")
	value.Fprintf(w, " "+format+"\n", a...)
}

func joinInts(xs []*big.Int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func joinCiphertexts(cts []elgamal.Ciphertext) string {
	parts := make([]string, len(cts))
	for i, ct := range cts {
		parts[i] = fmt.Sprintf("(%v, %v)", ct.C1, ct.C2)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// short elides the middle of long numbers so 2048-bit values fit on a line.
func short(x *big.Int) string {
	s := x.String()
	if len(s) <= 40 {
		return s
	}
	return s[:18] + "..." + s[len(s)-18:]
}
