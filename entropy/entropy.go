package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrEntropyUnavailable indicates the secure random source could not be read.
// Callers must treat it as fatal; it is never retried.
var ErrEntropyUnavailable = errors.New("secure entropy source unavailable")

// ErrInvalidRange indicates a sampling range with min greater than max.
var ErrInvalidRange = errors.New("invalid sampling range")

// Source draws uniformly distributed integers from a cryptographically
// secure reader.
type Source struct {
	r io.Reader
}

// New wraps r. A nil reader selects crypto/rand.Reader.
func New(r io.Reader) *Source {
	if r == nil {
		r = rand.Reader
	}
	return &Source{r: r}
}

// Read fills p completely from the underlying reader.
func (s *Source) Read(p []byte) (int, error) {
	n, err := io.ReadFull(s.r, p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return n, nil
}

// Uniform returns a value uniformly distributed over [min, max], inclusive.
//
// Each draw is a 64-bit sample. Samples below 2^64 mod span are rejected
// and redrawn, so the accepted space is an exact multiple of the span and
// the final reduction carries no modulo bias.
func (s *Source) Uniform(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, min, max)
	}
	if min == max {
		return min, nil
	}

	// span wraps to zero when the range covers all 2^64 values.
	span := uint64(max) - uint64(min) + 1
	if span == 0 {
		v, err := s.next()
		if err != nil {
			return 0, err
		}
		return int64(v), nil
	}

	threshold := -span % span
	for {
		v, err := s.next()
		if err != nil {
			return 0, err
		}
		if v >= threshold {
			return int64(uint64(min) + v%span), nil
		}
	}
}

// Intn returns a value uniformly distributed over [0, n).
func (s *Source) Intn(n int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: n=%d", ErrInvalidRange, n)
	}
	return s.Uniform(0, n-1)
}

func (s *Source) next() (uint64, error) {
	var buf [8]byte
	if _, err := s.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
