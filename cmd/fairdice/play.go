package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/dice"
	"github.com/f3rmion/fairdice/entropy"
	"github.com/f3rmion/fairdice/fair"
	"github.com/f3rmion/fairdice/odds"
	"github.com/f3rmion/fairdice/textport"
)

// freshRounds bounds how many times a round is restarted after the
// counterpart exhausts its attempts.
const freshRounds = 3

var errExit = errors.New("exit requested")

func newPlayCmd(a *app) *cobra.Command {
	var transcripts bool

	cmd := &cobra.Command{
		Use:   "play DIE DIE DIE...",
		Short: "Play one game against the host",
		Long: `Play one game. A fair round decides who picks a die first, then each
player's roll is a fair round over the six faces. Every round publishes a
commitment before asking for your number and reveals the key afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseDice(args)
			if err != nil {
				return err
			}

			m, err := newMatch(a, set, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			m.transcripts = transcripts

			err = m.run(cmd.Context())
			if errors.Is(err, errExit) {
				fmt.Fprintln(cmd.OutOrStdout(), "bye")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&transcripts, "transcripts", false, "print a verifiable transcript after each round")
	return cmd
}

// match is one game between the host and the player on the port.
type match struct {
	app         *app
	set         dice.Set
	matrix      odds.Matrix
	gen         *fair.Generator
	port        *textport.Port
	src         *entropy.Source
	out         io.Writer
	transcripts bool
}

func newMatch(a *app, set dice.Set, in io.Reader, out io.Writer) (*match, error) {
	scheme, err := a.cfg.CommitScheme()
	if err != nil {
		return nil, err
	}

	m := &match{
		app:    a,
		set:    set,
		matrix: odds.Compute(set),
		src:    entropy.New(nil),
		out:    out,
	}
	m.gen = fair.NewGenerator(
		fair.WithScheme(scheme),
		fair.WithLogger(a.log),
		fair.WithMaxAttempts(a.cfg.MaxAttempts),
	)
	m.port = textport.New(in, out, textport.WithHelp(m.help))
	return m, nil
}

func (m *match) help(w io.Writer) error {
	if _, err := fmt.Fprintln(w, textport.DefaultHelp); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nChance that the row die beats the column die:"); err != nil {
		return err
	}
	return m.matrix.Render(w, nil)
}

func (m *match) run(ctx context.Context) error {
	first, err := m.round(ctx, 2, "first-move", "Deciding who picks first. Enter 0 or 1.")
	if err != nil {
		return err
	}

	var hostDie, playerDie int
	if first.Combined == 0 {
		pick, err := m.src.Intn(int64(m.set.Len()))
		if err != nil {
			return err
		}
		hostDie = int(pick)
		fmt.Fprintf(m.out, "I pick first: die %d [%s].\n", hostDie, m.set.Die(hostDie))

		if playerDie, err = m.chooseDie(ctx, hostDie); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(m.out, "You pick first.")
		if playerDie, err = m.chooseDie(ctx, -1); err != nil {
			return err
		}
		hostDie, _ = m.matrix.BestAgainst(playerDie)
		fmt.Fprintf(m.out, "I pick die %d [%s].\n", hostDie, m.set.Die(hostDie))
	}

	hostRoll, err := m.round(ctx, dice.Faces, "host-roll", "Rolling my die. Enter a number from 0 to 5.")
	if err != nil {
		return err
	}
	hostFace := m.set.Die(hostDie)[hostRoll.Combined]
	fmt.Fprintf(m.out, "My roll: %d.\n", hostFace)

	playerRoll, err := m.round(ctx, dice.Faces, "player-roll", "Rolling your die. Enter a number from 0 to 5.")
	if err != nil {
		return err
	}
	playerFace := m.set.Die(playerDie)[playerRoll.Combined]
	fmt.Fprintf(m.out, "Your roll: %d.\n", playerFace)

	switch {
	case playerFace > hostFace:
		fmt.Fprintf(m.out, "You win (%d > %d)!\n", playerFace, hostFace)
	case playerFace < hostFace:
		fmt.Fprintf(m.out, "I win (%d > %d)!\n", hostFace, playerFace)
	default:
		fmt.Fprintf(m.out, "Draw (%d = %d).\n", playerFace, hostFace)
	}
	return nil
}

// round plays one fair round, starting over with a fresh key when the
// player runs out of attempts.
func (m *match) round(ctx context.Context, rangeSize int64, purpose, intro string) (fair.Result, error) {
	for i := 0; i < freshRounds; i++ {
		fmt.Fprintln(m.out, intro)

		rctx, cancel := context.WithTimeout(ctx, m.app.cfg.RoundTimeout)
		res, sig, err := m.gen.Play(rctx, m.port, rangeSize, purpose)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			return fair.Result{}, fmt.Errorf("%s round timed out after %s", purpose, m.app.cfg.RoundTimeout)
		}
		if err != nil {
			return fair.Result{}, fmt.Errorf("%s round: %w", purpose, err)
		}

		switch sig {
		case fair.ExitRequested:
			return fair.Result{}, errExit
		case fair.Retry:
			fmt.Fprintln(m.out, "No valid number received. Starting a fresh round.")
			continue
		}

		if m.transcripts {
			data, err := fair.EncodeTranscript(res)
			if err != nil {
				return fair.Result{}, err
			}
			fmt.Fprintf(m.out, "transcript=%s\n", hex.EncodeToString(data))
		}
		return res, nil
	}
	return fair.Result{}, fmt.Errorf("%s round: no valid contribution after %d rounds", purpose, freshRounds)
}

// chooseDie asks the player for a die other than taken. A taken value of
// -1 means every die is available.
func (m *match) chooseDie(ctx context.Context, taken int) (int, error) {
	var b strings.Builder
	b.WriteString("Choose your die:")
	for i, d := range m.set.Dice() {
		if i == taken {
			continue
		}
		fmt.Fprintf(&b, "\n  %d: %s", i, d)
	}

	ctx, cancel := context.WithTimeout(ctx, m.app.cfg.RoundTimeout)
	defer cancel()

	for attempt := 0; attempt < m.app.cfg.MaxAttempts; attempt++ {
		in, err := m.port.Ask(ctx, b.String())
		if err != nil {
			return 0, fmt.Errorf("choose die: %w", err)
		}

		switch in.Kind {
		case fair.InputExit:
			return 0, errExit
		case fair.InputHelp:
			if err := m.help(m.out); err != nil {
				return 0, err
			}
			continue
		case fair.InputValue:
			i := int(in.Value)
			if in.Value >= 0 && i < m.set.Len() && i != taken {
				return i, nil
			}
		}
		fmt.Fprintf(m.out, "rejected: %q is not an available die\n", in.Raw)
	}
	return 0, fmt.Errorf("choose die: no valid choice after %d attempts", m.app.cfg.MaxAttempts)
}
