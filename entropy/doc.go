// Package entropy provides bias-free uniform integer sampling over a
// cryptographically secure byte source.
//
// The source is injected as an [io.Reader] so tests can substitute a
// deterministic stream; production code passes nil and gets
// crypto/rand.Reader.
//
// Mapping a fixed-width sample onto a range with a plain remainder skews
// the result whenever the range does not divide the sample space. [Source]
// uses rejection sampling instead: samples that fall in the short tail are
// discarded and redrawn.
package entropy
