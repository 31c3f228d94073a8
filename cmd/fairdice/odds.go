package main

import (
	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/odds"
)

func newOddsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "odds DIE DIE DIE...",
		Short: "Print the probability that each die beats each other die",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseDice(args)
			if err != nil {
				return err
			}
			a.log.Debug().Int("dice", set.Len()).Msg("computing odds")
			return odds.Compute(set).Render(cmd.OutOrStdout(), nil)
		},
	}
}
