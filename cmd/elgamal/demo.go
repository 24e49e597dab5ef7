package main

import (
	"github.com/spf13/cobra"

	"github.com/arvid220u/blockgamal/session"
)

func newDemoCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a key, encrypt a message and decrypt it again",
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
			opts, err := cfg.sessionOptions()
			if err != nil {
				return err
			}
			sess, err := session.New(random, params, opts...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			privkey := sess.PrivateKey()
			field(w, "q", "%s", short(params.Q))
			field(w, "g", "%s", short(params.G))
			field(w, "message", "%q", cfg.Message)
			field(w, "private x", "%s", short(privkey.X))
			field(w, "public y", "%s", short(privkey.Y))
			field(w, "fingerprint", "%s", privkey.FingerprintString())

			blocks, err := sess.Encode(cfg.Message)
			if err != nil {
				return err
			}
			field(w, "codec", "%s", sess.Codec().Name())
			field(w, "blocks", "%s", joinInts(blocks))

			env, err := sess.SealBlocks(blocks)
			if err != nil {
				return err
			}
			field(w, "ciphertext", "%s", joinCiphertexts(env.Blocks))

			text, err := sess.Open(env)
			if err != nil {
				return err
			}
			field(w, "decrypted", "%q", text)
			if text == cfg.Message {
				good.Fprintln(w, "round trip ok")
			} else {
				bad.Fprintln(w, "round trip mismatch")
			}
			return nil
		},
	}
	cmd.Flags().String("message", defaultMessage, "text to encrypt")
	return cmd
}
