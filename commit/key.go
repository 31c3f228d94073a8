package commit

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/fairdice/entropy"
)

// KeySize is the length of a round key in bytes (256 bits).
const KeySize = 32

// ErrMalformedKey indicates a hex key of the wrong length or alphabet.
var ErrMalformedKey = errors.New("key must be 64 hex characters")

// Key is a per-round secret. It lives in memory only and is used for
// exactly one commitment.
type Key [KeySize]byte

// GenerateKey draws a fresh key from r. A nil reader selects
// crypto/rand.Reader. Keys are never derived from time, process ids or
// counters.
func GenerateKey(r io.Reader) (Key, error) {
	if r == nil {
		r = rand.Reader
	}
	var k Key
	if _, err := io.ReadFull(r, k[:]); err != nil {
		return Key{}, fmt.Errorf("%w: generate key: %v", entropy.ErrEntropyUnavailable, err)
	}
	return k, nil
}

// ParseKey decodes a key revealed as hex.
func ParseKey(s string) (Key, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != KeySize {
		return Key{}, ErrMalformedKey
	}
	var k Key
	copy(k[:], b)
	return k, nil
}

// String returns the lowercase hex encoding of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// IsZero reports whether every byte of the key is zero.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Zero overwrites the key in place.
func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}
