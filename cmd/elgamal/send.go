package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/arvid220u/blockgamal/keyholder"
	"github.com/arvid220u/blockgamal/network"
	"github.com/arvid220u/blockgamal/session"
)

func newSendCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Encrypt a message under a key holder's public key and deliver it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Peer == "" {
				return fmt.Errorf("--peer is required")
			}
			random, err := cfg.random()
			if err != nil {
				return err
			}
			opts, err := cfg.sessionOptions()
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			opts = append(opts, session.WithProgress(func(done, total int) {
				if bar == nil {
					bar = progressbar.Default(int64(total), "encrypting")
				}
				_ = bar.Set(done)
			}))

			cp, err := network.NewLibp2p(cfg.Listen)
			if err != nil {
				return err
			}
			defer cp.Close()

			c := keyholder.NewClient(cp, cfg.Peer)
			if cfg.Fingerprint != "" {
				pin, err := strconv.ParseUint(cfg.Fingerprint, 16, 64)
				if err != nil {
					return fmt.Errorf("--fingerprint %q: %w", cfg.Fingerprint, err)
				}
				c.Pin = pin
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			env, err := c.Send(ctx, random, cfg.Message, opts...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			field(w, "session", "%v", env.SessionID)
			field(w, "blocks", "%d", len(env.Blocks))
			good.Fprintln(w, "delivered")
			return nil
		},
	}
	cmd.Flags().String("peer", "", "multiaddr of the key holder, including /p2p/<id>")
	cmd.Flags().String("fingerprint", "", "expected public key fingerprint (hex)")
	cmd.Flags().String("message", defaultMessage, "text to encrypt")
	cmd.Flags().String("listen", "/ip4/0.0.0.0/tcp/0", "multiaddr to dial from")
	return cmd
}
