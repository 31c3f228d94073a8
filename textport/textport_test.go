package textport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/fair"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		line string
		kind fair.InputKind
		val  int64
	}{
		{"3", fair.InputValue, 3},
		{"  5 \r", fair.InputValue, 5},
		{"-2", fair.InputValue, -2},
		{"?", fair.InputHelp, 0},
		{"HELP", fair.InputHelp, 0},
		{"x", fair.InputExit, 0},
		{"exit", fair.InputExit, 0},
		{"three", fair.InputInvalid, 0},
		{"", fair.InputInvalid, 0},
	}
	for _, tt := range tests {
		in := ParseInput(tt.line)
		require.Equal(t, tt.kind, in.Kind, "line %q", tt.line)
		require.Equal(t, tt.val, in.Value, "line %q", tt.line)
	}
}

func TestPlayOverText(t *testing.T) {
	var out bytes.Buffer
	helpCalled := false
	port := New(strings.NewReader("?\nseven\n9\n4\n"), &out,
		WithPrompt(""),
		WithHelp(func(w io.Writer) error {
			helpCalled = true
			_, err := io.WriteString(w, "help text\n")
			return err
		}),
	)

	g := fair.NewGenerator()
	res, sig, err := g.Play(context.Background(), port, 6, "roll")
	require.NoError(t, err)
	require.Equal(t, fair.Continue, sig)
	require.True(t, helpCalled)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "commitment="))
	require.Equal(t, "help text", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "rejected: "))
	require.True(t, strings.HasPrefix(lines[3], "rejected: "))

	a, err := ParseAnnouncement(lines[0])
	require.NoError(t, err)
	require.EqualValues(t, 6, a.Range)
	require.Equal(t, "roll", a.Purpose)
	require.Equal(t, res.Commitment, a.Commitment)

	rv, err := ParseReveal(lines[4])
	require.NoError(t, err)
	require.Equal(t, res.Key, rv.Key)
	require.Equal(t, res.HostValue, rv.HostValue)
	require.Equal(t, res.Combined, rv.Result)

	// The counterpart audits the round from the wire alone.
	require.True(t, commit.Verify(commit.Default(), rv.Key, rv.HostValue, a.Commitment))
	require.EqualValues(t, (rv.HostValue+4)%6, rv.Result)
}

func TestPlayOverTextExit(t *testing.T) {
	var out bytes.Buffer
	port := New(strings.NewReader("x\n"), &out, WithPrompt(""))

	_, sig, err := fair.NewGenerator().Play(context.Background(), port, 2, "first")
	require.NoError(t, err)
	require.Equal(t, fair.ExitRequested, sig)
	require.NotContains(t, out.String(), "key=")
}

func TestSolicitEOF(t *testing.T) {
	port := New(strings.NewReader(""), io.Discard)
	_, err := port.Solicit(context.Background(), fair.Announcement{Range: 6}, 1)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSolicitHonorsContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	port := New(pr, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := port.Solicit(ctx, fair.Announcement{Range: 6}, 1)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCancelledPromptDropsItsAnswer(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	port := New(pr, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := port.Solicit(ctx, fair.Announcement{Range: 6}, 1)
	require.ErrorIs(t, err, context.Canceled)

	go func() {
		// "1" answers the cancelled prompt; "2" answers the next one.
		_, _ = pw.Write([]byte("1\n2\n"))
	}()

	in, err := port.Solicit(context.Background(), fair.Announcement{Range: 6}, 1)
	require.NoError(t, err)
	require.Equal(t, fair.InputValue, in.Kind)
	require.EqualValues(t, 2, in.Value)
}

func TestDefaultHelpAndPrompt(t *testing.T) {
	var out bytes.Buffer
	port := New(strings.NewReader("1\n"), &out)

	require.NoError(t, port.Help(context.Background()))
	require.Contains(t, out.String(), "x  exit")

	out.Reset()
	in, err := port.Solicit(context.Background(), fair.Announcement{Range: 6}, 1)
	require.NoError(t, err)
	require.Equal(t, "> ", out.String())
	require.EqualValues(t, 1, in.Value)
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	port := New(strings.NewReader("2\nx\n"), &out, WithPrompt(""))

	in, err := port.Ask(context.Background(), "pick a die")
	require.NoError(t, err)
	require.Equal(t, fair.InputValue, in.Kind)
	require.EqualValues(t, 2, in.Value)
	require.Equal(t, "pick a die\n", out.String())

	in, err = port.Ask(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, fair.InputExit, in.Kind)
}

func TestParseAnnouncementErrors(t *testing.T) {
	bad := []string{
		"",
		"commitment=ab; range=0..5",
		"commitment=ab; range=1..5; purpose=roll",
		"commitment=ab; range=0..x; purpose=roll",
		"range=0..5; commitment=ab; purpose=roll",
	}
	for _, line := range bad {
		_, err := ParseAnnouncement(line)
		require.ErrorIs(t, err, ErrMalformedLine, "line %q", line)
	}

	a, err := ParseAnnouncement("commitment=ab; range=0..0; purpose=who goes first; really")
	require.NoError(t, err)
	require.EqualValues(t, 1, a.Range)
	require.Equal(t, "who goes first; really", a.Purpose)
}

func TestParseRevealErrors(t *testing.T) {
	key := strings.Repeat("ab", commit.KeySize)
	bad := []string{
		"key=zz; hostValue=1; result=2",
		"key=" + key + "; hostValue=one; result=2",
		"key=" + key + "; hostValue=1; result=two",
		"key=" + key + "; hostValue=1",
	}
	for _, line := range bad {
		_, err := ParseReveal(line)
		require.ErrorIs(t, err, ErrMalformedLine, "line %q", line)
	}
}
