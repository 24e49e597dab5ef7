package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arvid220u/blockgamal/blockcode"
	"github.com/arvid220u/blockgamal/debug"
	"github.com/arvid220u/blockgamal/elgamal"
	"github.com/arvid220u/blockgamal/rng"
	"github.com/arvid220u/blockgamal/session"
)

const defaultMessage = "This class is CSI4108"

// config is filled from flags, BLOCKGAMAL_* environment variables and an
// optional config file, in that order of precedence.
type config struct {
	Preset      string `mapstructure:"preset"`
	Q           string `mapstructure:"q"`
	G           string `mapstructure:"g"`
	Message     string `mapstructure:"message"`
	Codec       string `mapstructure:"codec"`
	Workers     int    `mapstructure:"workers"`
	Seed        string `mapstructure:"seed"`
	Debug       bool   `mapstructure:"debug"`
	Dump        bool   `mapstructure:"dump"`
	Listen      string `mapstructure:"listen"`
	Peer        string `mapstructure:"peer"`
	Fingerprint string `mapstructure:"fingerprint"`
	Inbox       int    `mapstructure:"inbox"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BLOCKGAMAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfgFile string
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:           "elgamal",
		Short:         "ElGamal block encryption over a prime field",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config %s: %w", cfgFile, err)
				}
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := v.Unmarshal(cfg); err != nil {
				return err
			}
			debug.SetDebug(cfg.Debug || debug.IsDebug())
			debug.SetDump(cfg.Dump || debug.IsDump())
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("preset", "demo71", "named domain parameters: "+strings.Join(elgamal.PresetNames(), ", "))
	pf.String("q", "", "prime modulus, overrides --preset")
	pf.String("g", "", "generator mod q, required with --q")
	pf.String("codec", blockcode.GreedyName, "block codec: greedy or fixed")
	pf.Int("workers", 1, "goroutines for block arithmetic")
	pf.String("seed", "", "seed a deterministic random source (demo only)")
	pf.Bool("debug", false, "debug logging")
	pf.Bool("dump", false, "dump blocks and ciphertexts in debug logs")

	demo := newDemoCmd(cfg)
	rootCmd.AddCommand(demo, newKeygenCmd(cfg), newServeCmd(cfg), newSendCmd(cfg))
	rootCmd.Flags().AddFlagSet(demo.Flags())
	rootCmd.RunE = demo.RunE
	return rootCmd
}

func (c *config) params() (elgamal.DomainParameters, error) {
	var params elgamal.DomainParameters
	if c.Q == "" {
		p, err := elgamal.Preset(c.Preset)
		if err != nil {
			return params, err
		}
		params = p
	} else {
		q, ok := new(big.Int).SetString(c.Q, 0)
		if !ok {
			return params, fmt.Errorf("--q %q is not an integer", c.Q)
		}
		g, ok := new(big.Int).SetString(c.G, 0)
		if !ok {
			return params, fmt.Errorf("--g %q is not an integer", c.G)
		}
		params = elgamal.DomainParameters{Q: q, G: g}
	}
	return params, params.Validate()
}

func (c *config) random() (io.Reader, error) {
	if c.Seed == "" {
		return rng.System(), nil
	}
	return rng.NewDeterministic([]byte(c.Seed))
}

func (c *config) sessionOptions() ([]session.Option, error) {
	codec, err := blockcode.ByName(c.Codec)
	if err != nil {
		return nil, err
	}
	return []session.Option{session.WithCodec(codec), session.WithWorkers(c.Workers)}, nil
}
