package fair

import (
	"context"
	"errors"
	"fmt"
)

// Signal tells the caller's loop what to do after [Generator.Play].
type Signal int

const (
	// Continue means the round was revealed and the result is valid.
	Continue Signal = iota
	// Retry means the counterpart never supplied a usable contribution
	// within the attempt budget. The round was abandoned; a new one may be
	// started.
	Retry
	// ExitRequested means the counterpart asked to stop. The round was
	// abandoned.
	ExitRequested
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Retry:
		return "retry"
	case ExitRequested:
		return "exit-requested"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// InputKind classifies a line received from the counterpart.
type InputKind int

const (
	// InputValue carries a number in Input.Value. It may still be out of
	// range.
	InputValue InputKind = iota
	// InputHelp asks for instructions.
	InputHelp
	// InputExit asks to stop playing.
	InputExit
	// InputInvalid is anything else. Input.Raw holds the text.
	InputInvalid
)

// Input is one response from the counterpart.
type Input struct {
	Kind  InputKind
	Value int64
	Raw   string
}

// Port is the transport between the protocol and the counterpart. The
// protocol calls it in a fixed order: Announce, then Solicit (possibly
// several times), then Reveal.
type Port interface {
	// Announce publishes the commitment to the counterpart.
	Announce(ctx context.Context, a Announcement) error
	// Solicit blocks until the counterpart responds or ctx is done.
	Solicit(ctx context.Context, a Announcement, attempt int) (Input, error)
	// Rejected tells the counterpart why its input was not accepted.
	Rejected(ctx context.Context, in Input, reason error) error
	// Help shows instructions when the counterpart asks for them.
	Help(ctx context.Context) error
	// Reveal discloses the key, host value and result.
	Reveal(ctx context.Context, res Result) error
}

// Play runs one complete round through port.
//
// The commitment is announced before the first solicitation. Solicitation
// is retried in a bounded loop: help requests and rejected inputs each use
// one attempt. The signal is meaningful only when err is nil.
//
// If ctx is cancelled or its deadline passes while waiting, the round is
// abandoned without revealing anything and ctx.Err() is returned.
func (g *Generator) Play(ctx context.Context, port Port, rangeSize int64, purpose string) (Result, Signal, error) {
	r, err := g.GenerateRange(rangeSize, purpose)
	if err != nil {
		return Result{}, Continue, err
	}
	// No-op once the round is revealed.
	defer r.Abandon()

	a, err := r.Announce()
	if err != nil {
		return Result{}, Continue, err
	}
	if err := port.Announce(ctx, a); err != nil {
		return Result{}, Continue, fmt.Errorf("announce: %w", err)
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, Continue, err
		}

		in, err := port.Solicit(ctx, a, attempt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, Continue, ctxErr
			}
			return Result{}, Continue, fmt.Errorf("solicit: %w", err)
		}

		switch in.Kind {
		case InputExit:
			g.log.Info().Str("purpose", purpose).Msg("counterpart requested exit")
			return Result{}, ExitRequested, nil

		case InputHelp:
			if err := port.Help(ctx); err != nil {
				return Result{}, Continue, fmt.Errorf("help: %w", err)
			}

		case InputValue:
			res, err := r.Contribute(in.Value)
			if errors.Is(err, ErrInvalidContribution) {
				if err := port.Rejected(ctx, in, err); err != nil {
					return Result{}, Continue, fmt.Errorf("reject: %w", err)
				}
				continue
			}
			if err != nil {
				return Result{}, Continue, err
			}
			if err := port.Reveal(ctx, res); err != nil {
				return res, Continue, fmt.Errorf("reveal: %w", err)
			}
			return res, Continue, nil

		default:
			reason := fmt.Errorf("%w: %q is not a number", ErrInvalidContribution, in.Raw)
			if err := port.Rejected(ctx, in, reason); err != nil {
				return Result{}, Continue, fmt.Errorf("reject: %w", err)
			}
		}
	}

	g.log.Warn().
		Str("purpose", purpose).
		Int("attempts", g.maxAttempts).
		Msg("no valid contribution, abandoning round")
	return Result{}, Retry, nil
}
