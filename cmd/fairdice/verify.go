package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/fair"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		key        string
		value      int64
		commitment string
		transcript string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a revealed key and host value against a commitment",
		Long: `Check a revealed round. Either pass --key, --value and --commitment as
printed during play, or pass --transcript with the hex transcript.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if transcript != "" {
				return verifyTranscript(cmd, transcript)
			}
			if key == "" || commitment == "" || !cmd.Flags().Changed("value") {
				return errors.New("--key, --value and --commitment are required without --transcript")
			}

			s, err := a.cfg.CommitScheme()
			if err != nil {
				return err
			}
			k, err := commit.ParseKey(key)
			if err != nil {
				return err
			}
			if !commit.Verify(s, k, value, commit.Commitment(commitment)) {
				return fair.ErrCommitmentMismatch
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %s commits to %d under %s\n", commitment, value, s.Name())
			return err
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "revealed key (hex)")
	cmd.Flags().Int64Var(&value, "value", 0, "revealed host value")
	cmd.Flags().StringVar(&commitment, "commitment", "", "published commitment (hex)")
	cmd.Flags().StringVar(&transcript, "transcript", "", "round transcript (hex)")
	return cmd
}

func verifyTranscript(cmd *cobra.Command, text string) error {
	data, err := hex.DecodeString(text)
	if err != nil {
		return fmt.Errorf("transcript is not hex: %w", err)
	}
	res, err := fair.DecodeTranscript(data)
	if err != nil {
		return err
	}
	if err := fair.Verify(res); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %s round, host %d + counterpart %d = %d (mod %d)\n",
		res.Purpose, res.HostValue, res.CounterpartValue, res.Combined, res.Range)
	return err
}
