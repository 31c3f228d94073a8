package fair

import (
	"errors"
	"fmt"
	"sync"

	"github.com/f3rmion/fairdice/commit"
)

var (
	// ErrInvalidContribution indicates a contribution outside [0, range).
	// The round stays open and the counterpart may be asked again.
	ErrInvalidContribution = errors.New("contribution out of range")

	// ErrRoundAlreadyFinalized indicates use of a round after its reveal.
	ErrRoundAlreadyFinalized = errors.New("round already finalized")

	// ErrRoundAbandoned indicates use of a round after it was abandoned.
	ErrRoundAbandoned = errors.New("round abandoned")

	// ErrNotAnnounced indicates a contribution was offered before the
	// commitment was published.
	ErrNotAnnounced = errors.New("commitment not announced")
)

// State is the position of a round in its lifecycle. Transitions only move
// forward; Revealed and Abandoned are terminal.
type State int

const (
	// StateIdle is the zero value. It precedes construction: a round
	// returned by [Generator.GenerateRange] has already drawn its key and
	// value, so no live round reports it.
	StateIdle State = iota
	// StateCommitted means the host value is fixed and hashed but the
	// commitment has not been announced.
	StateCommitted
	// StateAwaitingContribution means the commitment is public and the
	// round accepts one valid contribution.
	StateAwaitingContribution
	// StateRevealed means the round produced its result and disclosed its
	// key.
	StateRevealed
	// StateAbandoned means the round ended without a reveal. Its key and
	// host value were discarded.
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCommitted:
		return "committed"
	case StateAwaitingContribution:
		return "awaiting-contribution"
	case StateRevealed:
		return "revealed"
	case StateAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Announcement is what the counterpart sees before contributing.
type Announcement struct {
	Commitment commit.Commitment
	Range      int64
	Purpose    string
	Scheme     string
}

// Result is the revealed outcome of a round. It carries everything an
// auditor needs to recompute the commitment; see [Verify].
type Result struct {
	Scheme           string            `cbor:"1,keyasint"`
	Purpose          string            `cbor:"2,keyasint"`
	Range            int64             `cbor:"3,keyasint"`
	Commitment       commit.Commitment `cbor:"4,keyasint"`
	HostValue        int64             `cbor:"5,keyasint"`
	CounterpartValue int64             `cbor:"6,keyasint"`
	Combined         int64             `cbor:"7,keyasint"`
	Key              commit.Key        `cbor:"8,keyasint"`
}

// Round is a single commit-reveal exchange. It is created by
// [Generator.GenerateRange] with a freshly drawn key and host value, and
// can be revealed at most once.
type Round struct {
	mu         sync.Mutex
	gen        *Generator
	scheme     commit.Scheme
	purpose    string
	rangeSize  int64
	commitment commit.Commitment
	key        commit.Key
	hostValue  int64
	state      State
}

// State returns the current lifecycle state.
func (r *Round) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Commitment returns the published commitment.
func (r *Round) Commitment() commit.Commitment {
	return r.commitment
}

// Purpose returns the label given at creation.
func (r *Round) Purpose() string {
	return r.purpose
}

// Range returns the exclusive upper bound of the round's values.
func (r *Round) Range() int64 {
	return r.rangeSize
}

// Announce publishes the commitment and opens the round for a
// contribution. Calling it again while the round is open returns the same
// announcement.
func (r *Round) Announce() (Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateCommitted:
		r.state = StateAwaitingContribution
	case StateAwaitingContribution:
	case StateRevealed:
		return Announcement{}, ErrRoundAlreadyFinalized
	case StateAbandoned:
		return Announcement{}, ErrRoundAbandoned
	default:
		return Announcement{}, fmt.Errorf("announce in state %s", r.state)
	}

	r.gen.log.Debug().
		Str("purpose", r.purpose).
		Int64("range", r.rangeSize).
		Str("commitment", string(r.commitment)).
		Msg("commitment announced")

	return Announcement{
		Commitment: r.commitment,
		Range:      r.rangeSize,
		Purpose:    r.purpose,
		Scheme:     r.scheme.Name(),
	}, nil
}

// Contribute supplies the counterpart's value and reveals the round.
//
// A value outside [0, range) fails with [ErrInvalidContribution] and leaves
// the round open. Any call after a successful reveal fails with
// [ErrRoundAlreadyFinalized].
func (r *Round) Contribute(value int64) (Result, error) {
	res, err := r.reveal(value)
	if err != nil {
		return Result{}, err
	}
	r.gen.release(r)
	return res, nil
}

func (r *Round) reveal(value int64) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateAwaitingContribution:
	case StateCommitted:
		return Result{}, ErrNotAnnounced
	case StateRevealed:
		return Result{}, ErrRoundAlreadyFinalized
	case StateAbandoned:
		return Result{}, ErrRoundAbandoned
	default:
		return Result{}, fmt.Errorf("contribute in state %s", r.state)
	}

	if value < 0 || value >= r.rangeSize {
		return Result{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidContribution, value, r.rangeSize)
	}

	res := Result{
		Scheme:           r.scheme.Name(),
		Purpose:          r.purpose,
		Range:            r.rangeSize,
		Commitment:       r.commitment,
		HostValue:        r.hostValue,
		CounterpartValue: value,
		Combined:         combine(r.hostValue, value, r.rangeSize),
		Key:              r.key,
	}

	r.state = StateRevealed
	r.wipe()

	r.gen.log.Debug().
		Str("purpose", res.Purpose).
		Int64("range", res.Range).
		Int64("result", res.Combined).
		Msg("round revealed")

	return res, nil
}

// Abandon discards the key and host value without revealing them. It is a
// no-op on a round that is already terminal.
func (r *Round) Abandon() {
	if r.abandon() {
		r.gen.release(r)
	}
}

func (r *Round) abandon() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRevealed || r.state == StateAbandoned {
		return false
	}
	r.state = StateAbandoned
	r.wipe()

	r.gen.log.Debug().
		Str("purpose", r.purpose).
		Str("commitment", string(r.commitment)).
		Msg("round abandoned")
	return true
}

// wipe clears the round's secrets. Go gives no guarantee that copies made
// by the runtime are cleared as well.
func (r *Round) wipe() {
	r.key.Zero()
	r.hostValue = 0
}

// combine returns (host + counterpart) mod rangeSize. Both operands are in
// [0, rangeSize) so their unsigned sum cannot overflow.
func combine(host, counterpart, rangeSize int64) int64 {
	return int64((uint64(host) + uint64(counterpart)) % uint64(rangeSize))
}
