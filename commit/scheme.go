package commit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/blake2b"
)

// ErrUnknownScheme indicates a scheme name with no registered implementation.
var ErrUnknownScheme = errors.New("unknown commitment scheme")

// Scheme names.
const (
	NameHMACSHA256 = "hmac-sha256"
	NameBlake2b    = "blake2b-256"
	NameMiMC       = "mimc-bn254"
)

// Scheme is a keyed-hash construction used to bind a value to a key.
// Implementations must be deterministic, resistant to forgery without the
// key, and must not leak the key through digests.
type Scheme interface {
	// Name identifies the scheme in announcements and transcripts.
	Name() string
	// Digest computes the keyed digest of value.
	Digest(key Key, value int64) []byte
}

// Commitment is a hex-encoded digest published before the counterpart acts.
type Commitment string

// Commit computes the commitment to value under key.
func Commit(s Scheme, key Key, value int64) Commitment {
	return Commitment(hex.EncodeToString(s.Digest(key, value)))
}

// Verify reports whether c is the commitment to value under key.
// Malformed commitments never verify.
func Verify(s Scheme, key Key, value int64, c Commitment) bool {
	want, err := hex.DecodeString(string(c))
	if err != nil {
		return false
	}
	return hmac.Equal(s.Digest(key, value), want)
}

// SchemeByName returns the scheme registered under name.
func SchemeByName(name string) (Scheme, error) {
	switch name {
	case NameHMACSHA256:
		return HMACSHA256{}, nil
	case NameBlake2b:
		return Blake2b{}, nil
	case NameMiMC:
		return MiMC{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Default returns the default scheme, HMAC-SHA256.
func Default() Scheme {
	return HMACSHA256{}
}

// canonical is the byte form of a value fed to byte-oriented schemes.
func canonical(value int64) []byte {
	return []byte(strconv.FormatInt(value, 10))
}

// HMACSHA256 commits with HMAC-SHA256 over the decimal form of the value.
// It is the default scheme and can be checked with any HMAC tool.
type HMACSHA256 struct{}

// Name implements Scheme.
func (HMACSHA256) Name() string { return NameHMACSHA256 }

// Digest implements Scheme.
func (HMACSHA256) Digest(key Key, value int64) []byte {
	mac := hmac.New(sha256.New, key[:])
	mac.Write(canonical(value))
	return mac.Sum(nil)
}

// Blake2b commits with keyed BLAKE2b-256 over the decimal form of the value.
type Blake2b struct{}

// Name implements Scheme.
func (Blake2b) Name() string { return NameBlake2b }

// Digest implements Scheme.
func (Blake2b) Digest(key Key, value int64) []byte {
	// New256 only fails for keys longer than 64 bytes.
	h, err := blake2b.New256(key[:])
	if err != nil {
		panic(err)
	}
	h.Write(canonical(value))
	return h.Sum(nil)
}

// MiMC commits with the MiMC permutation over the BN254 scalar field.
// The key is absorbed as two 128-bit halves, each a canonical field
// element, followed by the value as a field element. A whole key would be
// reduced modulo the field order, so keys differing by that order would
// share every digest. The digest is friendly to verification inside a
// SNARK circuit.
type MiMC struct{}

// Name implements Scheme.
func (MiMC) Name() string { return NameMiMC }

// Digest implements Scheme.
func (MiMC) Digest(key Key, value int64) []byte {
	var hi, lo, v fr.Element
	hi.SetBytes(key[:KeySize/2])
	lo.SetBytes(key[KeySize/2:])
	v.SetInt64(value)

	// Writes of canonical field elements cannot fail.
	h := mimc.NewMiMC()
	for _, e := range []*fr.Element{&hi, &lo, &v} {
		b := e.Bytes()
		h.Write(b[:])
	}
	return h.Sum(nil)
}
