package fair

import (
	"errors"
	"fmt"

	"github.com/f3rmion/fairdice/commit"
)

var (
	// ErrCommitmentMismatch indicates the revealed key and host value do not
	// reproduce the published commitment.
	ErrCommitmentMismatch = errors.New("commitment does not match revealed key and value")

	// ErrInconsistentResult indicates a result whose values are out of
	// range or whose combined value does not follow from its inputs.
	ErrInconsistentResult = errors.New("inconsistent round result")
)

// Verify audits a revealed round. It recomputes the commitment from the
// revealed key and host value under the named scheme, then checks that
// every value lies in [0, range) and that the combined value is
// (host + counterpart) mod range.
//
// Returns nil if the round is sound.
func Verify(res Result) error {
	s, err := commit.SchemeByName(res.Scheme)
	if err != nil {
		return err
	}
	if !commit.Verify(s, res.Key, res.HostValue, res.Commitment) {
		return ErrCommitmentMismatch
	}
	if res.Range < 1 {
		return fmt.Errorf("%w: range %d", ErrInconsistentResult, res.Range)
	}
	for _, v := range []int64{res.HostValue, res.CounterpartValue, res.Combined} {
		if v < 0 || v >= res.Range {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrInconsistentResult, v, res.Range)
		}
	}
	if want := combine(res.HostValue, res.CounterpartValue, res.Range); want != res.Combined {
		return fmt.Errorf("%w: combined %d, expected %d", ErrInconsistentResult, res.Combined, want)
	}
	return nil
}

// Verify is shorthand for the package-level [Verify].
func (res Result) Verify() error {
	return Verify(res)
}
