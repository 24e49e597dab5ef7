package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arvid220u/blockgamal/keyholder"
	"github.com/arvid220u/blockgamal/network"
	"github.com/arvid220u/blockgamal/session"
)

func newServeCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Hold a private key and decrypt messages sent over libp2p",
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
			svc, err := keyholder.NewService(sess, cfg.Inbox)
			if err != nil {
				return err
			}

			cp, err := network.NewLibp2p(cfg.Listen)
			if err != nil {
				return err
			}
			defer cp.Close()
			if err := keyholder.Serve(cp, svc); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			field(w, "q", "%s", short(params.Q))
			field(w, "fingerprint", "%s", sess.PublicKey().FingerprintString())
			for _, addr := range cp.Addrs() {
				field(w, "listening", "%s", addr)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			for {
				select {
				case d := <-svc.Inbox():
					good.Fprintf(w, "%v ", d.SessionID)
					value.Fprintf(w, "%q\n", d.Text)
				case <-ctx.Done():
					field(w, "received", "%d", svc.Delivered())
					return nil
				}
			}
		},
	}
	cmd.Flags().String("listen", "/ip4/0.0.0.0/tcp/4108", "multiaddr to listen on")
	cmd.Flags().Int("inbox", 16, "messages buffered before senders are turned away")
	return cmd
}
