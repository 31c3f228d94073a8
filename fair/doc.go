// Package fair implements a commit-reveal protocol that lets a host and a
// counterpart who do not trust each other draw an unbiased value in
// [0, range) together.
//
// The host commits to a secret value before the counterpart picks its
// own. The final value is (host + counterpart) mod range, which is uniform
// as long as either side picked uniformly. Because the commitment is
// published first, the counterpart cannot adapt to the host's value, and
// because it is binding, the host cannot change its value afterwards.
//
// # Rounds
//
// Each decision point is a one-shot [Round]:
//
//	g := fair.NewGenerator()
//
//	r, err := g.GenerateRange(6, "roll")
//	if err != nil {
//		return err
//	}
//
//	// Publish the commitment before asking for a contribution
//	a, err := r.Announce()
//	send(a.Commitment)
//
//	// Reveal with the counterpart's value (consumes the round)
//	res, err := r.Contribute(theirValue)
//
//	// Anyone can audit the round afterwards
//	err = fair.Verify(res)
//
// A round moves from committed to awaiting-contribution to revealed and
// never back. A contribution offered before [Round.Announce] fails with
// [ErrNotAnnounced]; any call after the reveal fails with
// [ErrRoundAlreadyFinalized]. [Round.Abandon] discards the key and host
// value without revealing them.
//
// A round can only be obtained from [Generator.GenerateRange], which draws
// its own key. There is no way to build a round around an existing key.
//
// # Ports
//
// [Generator.Play] drives a full round through a [Port], the interface the
// protocol uses to talk to the counterpart. It returns a [Signal] instead
// of exiting the process, so the caller's loop decides what happens on
// [Retry] or [ExitRequested].
//
// # Transport Agnostic
//
// This package does not handle network communication or terminal I/O.
// The textport package provides a line-oriented [Port] over any reader
// and writer.
package fair
