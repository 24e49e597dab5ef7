package main

import (
	"github.com/spf13/cobra"

	"github.com/arvid220u/blockgamal/elgamal"
)

func newKeygenCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair for the configured domain parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := cfg.params()
			if err != nil {
				return err
			}
			random, err := cfg.random()
			if err != nil {
				return err
			}
			privkey, err := elgamal.GenerateKey(random, params)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			field(w, "q", "%v", privkey.Q)
			field(w, "g", "%v", privkey.G)
			field(w, "private x", "%v", privkey.X)
			field(w, "public y", "%v", privkey.Y)
			field(w, "fingerprint", "%s", privkey.FingerprintString())
			return nil
		},
	}
}
