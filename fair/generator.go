package fair

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/entropy"
)

// DefaultMaxAttempts bounds how often [Generator.Play] asks for a
// contribution before giving up on a round.
const DefaultMaxAttempts = 5

// ErrRoundOutstanding indicates a new round was requested while the
// generator still has one open.
var ErrRoundOutstanding = errors.New("a round is already outstanding")

// Generator produces commit-reveal rounds for one logical session. A
// session owns its generator; generators share no key or value state.
//
// Create instances using [NewGenerator].
type Generator struct {
	mu          sync.Mutex
	rng         io.Reader
	src         *entropy.Source
	scheme      commit.Scheme
	log         zerolog.Logger
	maxAttempts int
	active      *Round
}

// Option configures a [Generator].
type Option func(*Generator)

// WithRand sets the secure source for keys and host values.
// A nil reader selects crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(g *Generator) {
		g.rng = r
		g.src = entropy.New(r)
	}
}

// WithScheme sets the commitment scheme. The default is HMAC-SHA256.
func WithScheme(s commit.Scheme) Option {
	return func(g *Generator) {
		g.scheme = s
	}
}

// WithLogger sets the lifecycle logger. Keys and host values are never
// logged before they are revealed.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithMaxAttempts bounds the number of solicitations in [Generator.Play].
// Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator creates a generator with the given options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		src:         entropy.New(nil),
		scheme:      commit.Default(),
		log:         zerolog.Nop(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Scheme returns the commitment scheme rounds are created with.
func (g *Generator) Scheme() commit.Scheme {
	return g.scheme
}

// GenerateRange opens a round over [0, rangeSize).
//
// This draws the host value, then a fresh key, and commits to the value
// under the key. The returned round is in [StateCommitted]; call
// [Round.Announce] to publish the commitment before asking the
// counterpart for a contribution.
//
// Only one round may be open per generator. Finish it with
// [Round.Contribute] or [Round.Abandon] before opening another.
func (g *Generator) GenerateRange(rangeSize int64, purpose string) (*Round, error) {
	if rangeSize < 1 {
		return nil, fmt.Errorf("%w: range must be at least 1, got %d", entropy.ErrInvalidRange, rangeSize)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != nil {
		return nil, ErrRoundOutstanding
	}

	host, err := g.src.Uniform(0, rangeSize-1)
	if err != nil {
		return nil, fmt.Errorf("draw host value: %w", err)
	}

	key, err := commit.GenerateKey(g.rng)
	if err != nil {
		return nil, err
	}

	r := &Round{
		gen:        g,
		scheme:     g.scheme,
		purpose:    purpose,
		rangeSize:  rangeSize,
		commitment: commit.Commit(g.scheme, key, host),
		key:        key,
		hostValue:  host,
		state:      StateCommitted,
	}
	g.active = r

	g.log.Debug().
		Str("purpose", purpose).
		Int64("range", rangeSize).
		Str("scheme", g.scheme.Name()).
		Str("commitment", string(r.commitment)).
		Msg("round committed")

	return r, nil
}

// release frees the outstanding slot once r is terminal.
func (g *Generator) release(r *Round) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == r {
		g.active = nil
	}
}
