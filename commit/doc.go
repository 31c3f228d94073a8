// Package commit provides keyed-hash commitments to integer values and the
// per-round keys they are computed under.
//
// A commitment binds a party to a value without disclosing it. The value
// is revealed later together with its [Key], and anyone can recompute the
// digest with [Verify]:
//
//	key, err := commit.GenerateKey(rand.Reader)
//	if err != nil {
//		return err
//	}
//	c := commit.Commit(commit.Default(), key, 4)
//
//	// publish c; later reveal key and 4
//	ok := commit.Verify(commit.Default(), key, 4, c)
//
// # Schemes
//
// Three constructions implement [Scheme]:
//
//   - [HMACSHA256]: HMAC-SHA256 over the decimal value (default)
//   - [Blake2b]: keyed BLAKE2b-256 over the decimal value
//   - [MiMC]: MiMC over the BN254 scalar field, from gnark-crypto
//
// Schemes are selected by name with [SchemeByName] so a revealed round can
// be audited without knowing which implementation produced it.
//
// # Security Considerations
//
// A key must be used for exactly one commitment. Reusing a key across
// rounds lets a counterpart test candidate values against an old digest.
package commit
