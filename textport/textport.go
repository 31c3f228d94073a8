package textport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/fair"
)

// ErrMalformedLine indicates a protocol line that does not match its format.
var ErrMalformedLine = errors.New("malformed protocol line")

// DefaultHelp is shown when the counterpart asks for help and no help
// function is configured.
const DefaultHelp = `Enter a whole number in the announced range. It is added to the host's
committed value modulo the range. Check the revealed key and host value
against the commitment to confirm the host did not cheat.
  ?  show this help
  x  exit`

// Port implements [fair.Port] over a line-oriented reader and writer.
// A Port is not safe for concurrent use.
type Port struct {
	out    io.Writer
	prompt string
	help   func(io.Writer) error

	once  sync.Once
	in    *bufio.Scanner
	lines chan line

	// stale counts lines owed to cancelled questions. They are dropped
	// so an answer never carries over to a later round.
	stale int
}

var _ fair.Port = (*Port)(nil)

type line struct {
	text string
	err  error
}

// Option configures a [Port].
type Option func(*Port)

// WithPrompt sets the text written before each solicitation.
func WithPrompt(prompt string) Option {
	return func(p *Port) {
		p.prompt = prompt
	}
}

// WithHelp sets the function that renders help, for example instructions
// followed by a probability table.
func WithHelp(fn func(io.Writer) error) Option {
	return func(p *Port) {
		p.help = fn
	}
}

// New creates a port reading responses from in and writing messages to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Port {
	p := &Port{
		out:    out,
		prompt: "> ",
		in:     bufio.NewScanner(in),
		lines:  make(chan line),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Announce writes "commitment=<hex>; range=0..<range-1>; purpose=<label>".
func (p *Port) Announce(_ context.Context, a fair.Announcement) error {
	_, err := fmt.Fprintln(p.out, FormatAnnouncement(a))
	return err
}

// Solicit prompts for and reads one line. It returns early with ctx.Err()
// if ctx is done before a line arrives. The next line read answers the
// cancelled prompt and is discarded.
func (p *Port) Solicit(ctx context.Context, a fair.Announcement, _ int) (fair.Input, error) {
	return p.Ask(ctx, "")
}

// Ask writes question, if any, and reads one response line through the
// same reader Solicit uses.
func (p *Port) Ask(ctx context.Context, question string) (fair.Input, error) {
	if question != "" {
		if _, err := fmt.Fprintln(p.out, question); err != nil {
			return fair.Input{}, err
		}
	}
	if p.prompt != "" {
		if _, err := fmt.Fprintf(p.out, "%s", p.prompt); err != nil {
			return fair.Input{}, err
		}
	}

	p.once.Do(p.scan)

	for {
		select {
		case <-ctx.Done():
			p.stale++
			return fair.Input{}, ctx.Err()
		case l, ok := <-p.lines:
			if !ok {
				return fair.Input{}, io.ErrUnexpectedEOF
			}
			if l.err != nil {
				return fair.Input{}, l.err
			}
			if p.stale > 0 {
				p.stale--
				continue
			}
			return ParseInput(l.text), nil
		}
	}
}

// scan feeds lines to Solicit until the reader is exhausted.
func (p *Port) scan() {
	go func() {
		defer close(p.lines)
		for p.in.Scan() {
			p.lines <- line{text: p.in.Text()}
		}
		if err := p.in.Err(); err != nil {
			p.lines <- line{err: err}
		}
	}()
}

// Rejected writes the reason an input was refused.
func (p *Port) Rejected(_ context.Context, _ fair.Input, reason error) error {
	_, err := fmt.Fprintf(p.out, "rejected: %v\n", reason)
	return err
}

// Help renders the configured help, or [DefaultHelp].
func (p *Port) Help(context.Context) error {
	if p.help != nil {
		return p.help(p.out)
	}
	_, err := fmt.Fprintln(p.out, DefaultHelp)
	return err
}

// Reveal writes "key=<hex>; hostValue=<int>; result=<int>".
func (p *Port) Reveal(_ context.Context, res fair.Result) error {
	_, err := fmt.Fprintln(p.out, FormatReveal(res))
	return err
}

// ParseInput classifies a response line. Surrounding space is ignored.
func ParseInput(text string) fair.Input {
	raw := strings.TrimSpace(text)
	switch strings.ToLower(raw) {
	case "?", "help":
		return fair.Input{Kind: fair.InputHelp, Raw: raw}
	case "x", "exit", "quit":
		return fair.Input{Kind: fair.InputExit, Raw: raw}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fair.Input{Kind: fair.InputInvalid, Raw: raw}
	}
	return fair.Input{Kind: fair.InputValue, Value: v, Raw: raw}
}

// FormatAnnouncement renders an announcement as one protocol line.
func FormatAnnouncement(a fair.Announcement) string {
	return fmt.Sprintf("commitment=%s; range=0..%d; purpose=%s", a.Commitment, a.Range-1, a.Purpose)
}

// FormatReveal renders a revealed round as one protocol line.
func FormatReveal(res fair.Result) string {
	return fmt.Sprintf("key=%s; hostValue=%d; result=%d", res.Key, res.HostValue, res.Combined)
}

// ParseAnnouncement reads a line produced by [FormatAnnouncement]. The
// scheme is not part of the line and is left empty.
func ParseAnnouncement(text string) (fair.Announcement, error) {
	fields, err := parseFields(text, "commitment", "range", "purpose")
	if err != nil {
		return fair.Announcement{}, err
	}

	bounds, ok := strings.CutPrefix(fields["range"], "0..")
	if !ok {
		return fair.Announcement{}, fmt.Errorf("%w: range %q", ErrMalformedLine, fields["range"])
	}
	last, err := strconv.ParseInt(bounds, 10, 64)
	if err != nil || last < 0 {
		return fair.Announcement{}, fmt.Errorf("%w: range %q", ErrMalformedLine, fields["range"])
	}

	return fair.Announcement{
		Commitment: commit.Commitment(fields["commitment"]),
		Range:      last + 1,
		Purpose:    fields["purpose"],
	}, nil
}

// RevealLine is the content of a reveal line.
type RevealLine struct {
	Key       commit.Key
	HostValue int64
	Result    int64
}

// ParseReveal reads a line produced by [FormatReveal].
func ParseReveal(text string) (RevealLine, error) {
	fields, err := parseFields(text, "key", "hostValue", "result")
	if err != nil {
		return RevealLine{}, err
	}

	key, err := commit.ParseKey(fields["key"])
	if err != nil {
		return RevealLine{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	host, err := strconv.ParseInt(fields["hostValue"], 10, 64)
	if err != nil {
		return RevealLine{}, fmt.Errorf("%w: hostValue %q", ErrMalformedLine, fields["hostValue"])
	}
	result, err := strconv.ParseInt(fields["result"], 10, 64)
	if err != nil {
		return RevealLine{}, fmt.Errorf("%w: result %q", ErrMalformedLine, fields["result"])
	}
	return RevealLine{Key: key, HostValue: host, Result: result}, nil
}

// parseFields splits "a=1; b=2" into a map and checks the names appear in
// order. The last field takes the remainder of the line, so a purpose
// label may itself contain "; ".
func parseFields(text string, names ...string) (map[string]string, error) {
	parts := strings.SplitN(strings.TrimSpace(text), "; ", len(names))
	if len(parts) != len(names) {
		return nil, fmt.Errorf("%w: expected %d fields in %q", ErrMalformedLine, len(names), text)
	}

	fields := make(map[string]string, len(names))
	for i, part := range parts {
		name, value, ok := strings.Cut(part, "=")
		if !ok || name != names[i] {
			return nil, fmt.Errorf("%w: expected %s= in %q", ErrMalformedLine, names[i], part)
		}
		fields[name] = value
	}
	return fields, nil
}
