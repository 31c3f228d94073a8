package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/config"
	"github.com/f3rmion/fairdice/dice"
)

const usageExample = "fairdice play 2,2,4,4,9,9 1,1,6,6,8,8 3,3,5,5,7,7"

// app is the state shared by every subcommand.
type app struct {
	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var (
		scheme   string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "fairdice",
		Short:         "Provably fair dice with commit-reveal rolls",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("scheme") {
				cfg.Scheme = scheme
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			lvl, err := cfg.Level()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cmd.ErrOrStderr(), lvl)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&scheme, "scheme", "", "commitment scheme: hmac-sha256, blake2b-256 or mimc-bn254 (env FAIRDICE_SCHEME)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (env FAIRDICE_LOG_LEVEL)")

	root.AddCommand(
		newPlayCmd(a),
		newOddsCmd(a),
		newVerifyCmd(a),
	)
	return root
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// parseDice validates the dice arguments, pointing at a working example
// when they are rejected.
func parseDice(args []string) (dice.Set, error) {
	set, err := dice.ParseSet(args)
	if err != nil {
		if errors.Is(err, dice.ErrMalformedDie) || errors.Is(err, dice.ErrInsufficientDice) {
			return dice.Set{}, fmt.Errorf("%w\nexample: %s", err, usageExample)
		}
		return dice.Set{}, err
	}
	return set, nil
}
