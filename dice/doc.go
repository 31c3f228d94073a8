// Package dice models the six-faced dice used by fairdice and validates
// their textual specifications.
//
// A die is written as six comma-separated integers:
//
//	d, err := dice.ParseDie("2,2,4,4,9,9")
//
// A [Set] needs at least three dice. Both checks are meant to run once at
// startup; callers treat [ErrMalformedDie] and [ErrInsufficientDice] as
// fatal.
package dice
