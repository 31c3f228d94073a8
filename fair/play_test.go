package fair

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakePort replays scripted inputs and records every call in order.
type fakePort struct {
	inputs    []Input
	calls     []string
	announced Announcement
	rejected  []error
	revealed  *Result
	block     bool
}

func (p *fakePort) Announce(_ context.Context, a Announcement) error {
	p.calls = append(p.calls, "announce")
	p.announced = a
	return nil
}

func (p *fakePort) Solicit(ctx context.Context, a Announcement, attempt int) (Input, error) {
	p.calls = append(p.calls, "solicit")
	if p.block {
		<-ctx.Done()
		return Input{}, ctx.Err()
	}
	if len(p.inputs) == 0 {
		return Input{}, errors.New("script exhausted")
	}
	in := p.inputs[0]
	p.inputs = p.inputs[1:]
	return in, nil
}

func (p *fakePort) Rejected(_ context.Context, _ Input, reason error) error {
	p.calls = append(p.calls, "rejected")
	p.rejected = append(p.rejected, reason)
	return nil
}

func (p *fakePort) Help(context.Context) error {
	p.calls = append(p.calls, "help")
	return nil
}

func (p *fakePort) Reveal(_ context.Context, res Result) error {
	p.calls = append(p.calls, "reveal")
	p.revealed = &res
	return nil
}

func TestPlayReveals(t *testing.T) {
	g := NewGenerator()
	port := &fakePort{inputs: []Input{{Kind: InputValue, Value: 3}}}

	res, sig, err := g.Play(context.Background(), port, 6, "roll")
	require.NoError(t, err)
	require.Equal(t, Continue, sig)
	require.Equal(t, []string{"announce", "solicit", "reveal"}, port.calls)
	require.Equal(t, res.Commitment, port.announced.Commitment)
	require.NotNil(t, port.revealed)
	require.Equal(t, res, *port.revealed)
	require.EqualValues(t, 3, res.CounterpartValue)
	require.NoError(t, Verify(res))
}

func TestPlayRecoversFromBadInput(t *testing.T) {
	g := NewGenerator()
	port := &fakePort{inputs: []Input{
		{Kind: InputInvalid, Raw: "seven"},
		{Kind: InputValue, Value: 9},
		{Kind: InputHelp},
		{Kind: InputValue, Value: 0},
	}}

	res, sig, err := g.Play(context.Background(), port, 6, "roll")
	require.NoError(t, err)
	require.Equal(t, Continue, sig)
	require.Equal(t, []string{
		"announce",
		"solicit", "rejected",
		"solicit", "rejected",
		"solicit", "help",
		"solicit", "reveal",
	}, port.calls)
	require.Len(t, port.rejected, 2)
	for _, reason := range port.rejected {
		require.ErrorIs(t, reason, ErrInvalidContribution)
	}
	require.EqualValues(t, 0, res.CounterpartValue)
}

func TestPlayExitRequested(t *testing.T) {
	g := NewGenerator()
	port := &fakePort{inputs: []Input{{Kind: InputExit}}}

	_, sig, err := g.Play(context.Background(), port, 2, "first")
	require.NoError(t, err)
	require.Equal(t, ExitRequested, sig)
	require.Nil(t, port.revealed)

	// The abandoned round no longer blocks the generator.
	r, err := g.GenerateRange(2, "again")
	require.NoError(t, err)
	r.Abandon()
}

func TestPlayRetryWhenAttemptsExhausted(t *testing.T) {
	g := NewGenerator(WithMaxAttempts(2))
	port := &fakePort{inputs: []Input{
		{Kind: InputValue, Value: -1},
		{Kind: InputValue, Value: 6},
		{Kind: InputValue, Value: 1},
	}}

	_, sig, err := g.Play(context.Background(), port, 6, "roll")
	require.NoError(t, err)
	require.Equal(t, Retry, sig)
	require.Nil(t, port.revealed)
	require.Len(t, port.inputs, 1, "loop must stop at the attempt bound")
}

func TestPlayCancellation(t *testing.T) {
	g := NewGenerator()
	port := &fakePort{block: true}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := g.Play(ctx, port, 6, "roll")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Nil(t, port.revealed)
	require.Equal(t, []string{"announce", "solicit"}, port.calls)

	r, err := g.GenerateRange(6, "after-timeout")
	require.NoError(t, err, "timed out round must be released")
	r.Abandon()
}

func TestPlayInvalidRange(t *testing.T) {
	g := NewGenerator()
	port := &fakePort{}
	_, _, err := g.Play(context.Background(), port, 0, "roll")
	require.Error(t, err)
	require.Empty(t, port.calls, "nothing may be announced for an invalid range")
}

func TestSignalString(t *testing.T) {
	require.Equal(t, "continue", Continue.String())
	require.Equal(t, "retry", Retry.String())
	require.Equal(t, "exit-requested", ExitRequested.String())
}
