package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Faces is the number of faces on every die.
const Faces = 6

// MinSetSize is the smallest number of dice a [Set] may hold.
const MinSetSize = 3

// ErrMalformedDie indicates a die specification is not exactly six integers.
var ErrMalformedDie = errors.New("die must be exactly 6 comma-separated integers")

// ErrInsufficientDice indicates fewer than [MinSetSize] dice were supplied.
var ErrInsufficientDice = errors.New("at least 3 dice must be provided")

// Die is a six-faced die. Face values are signed and may repeat.
type Die [Faces]int64

// ParseDie parses a comma-separated list of exactly six integers.
// Whitespace around each face is ignored.
func ParseDie(text string) (Die, error) {
	var d Die

	parts := strings.Split(text, ",")
	if len(parts) != Faces {
		return Die{}, fmt.Errorf("%w: got %d values in %q", ErrMalformedDie, len(parts), text)
	}
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Die{}, fmt.Errorf("%w: face %d is %q", ErrMalformedDie, i+1, strings.TrimSpace(p))
		}
		d[i] = v
	}
	return d, nil
}

// String renders the die in the same form ParseDie accepts.
func (d Die) String() string {
	var b strings.Builder
	for i, f := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(f, 10))
	}
	return b.String()
}

// Set is an ordered collection of at least three dice. The index of a die
// in the set is its identity for selection.
type Set struct {
	dice []Die
}

// ParseSet parses every text with [ParseDie]. It fails with
// [ErrInsufficientDice] before parsing when fewer than three are given.
func ParseSet(texts []string) (Set, error) {
	if len(texts) < MinSetSize {
		return Set{}, fmt.Errorf("%w: got %d", ErrInsufficientDice, len(texts))
	}

	dice := make([]Die, len(texts))
	for i, text := range texts {
		d, err := ParseDie(text)
		if err != nil {
			return Set{}, fmt.Errorf("die %d: %w", i+1, err)
		}
		dice[i] = d
	}
	return Set{dice: dice}, nil
}

// NewSet builds a set from already validated dice.
func NewSet(dice ...Die) (Set, error) {
	if len(dice) < MinSetSize {
		return Set{}, fmt.Errorf("%w: got %d", ErrInsufficientDice, len(dice))
	}
	cp := make([]Die, len(dice))
	copy(cp, dice)
	return Set{dice: cp}, nil
}

// Len returns the number of dice in the set.
func (s Set) Len() int {
	return len(s.dice)
}

// Die returns the die at index i. It panics if i is out of range.
func (s Set) Die(i int) Die {
	return s.dice[i]
}

// Dice returns a copy of the dice in order.
func (s Set) Dice() []Die {
	cp := make([]Die, len(s.dice))
	copy(cp, s.dice)
	return cp
}
