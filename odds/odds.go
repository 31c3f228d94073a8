// Package odds computes pairwise win probabilities across a set of dice.
//
// The matrix is advisory: it helps a player choose a die and never feeds
// back into the fair-value protocol.
package odds

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/f3rmion/fairdice/dice"
)

// Outcomes is the number of ordered face pairs between two dice.
const Outcomes = dice.Faces * dice.Faces

// NotApplicable is rendered in place of the diagonal.
const NotApplicable = "-"

// Matrix holds win counts for every ordered pair of dice in a set.
type Matrix struct {
	n    int
	wins []int
}

// Compute counts, for each ordered pair (i, j) with i != j, the face
// pairs where die i shows a strictly higher value than die j.
func Compute(set dice.Set) Matrix {
	n := set.Len()
	m := Matrix{n: n, wins: make([]int, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				m.wins[i*n+j] = -1
				continue
			}
			m.wins[i*n+j] = beats(set.Die(i), set.Die(j))
		}
	}
	return m
}

func beats(a, b dice.Die) int {
	count := 0
	for _, x := range a {
		for _, y := range b {
			if x > y {
				count++
			}
		}
	}
	return count
}

// Size returns the number of dice the matrix covers.
func (m Matrix) Size() int {
	return m.n
}

// Wins returns how many of the 36 face pairs die i wins against die j.
// ok is false on the diagonal or for indices out of range.
func (m Matrix) Wins(i, j int) (int, bool) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n || i == j {
		return 0, false
	}
	return m.wins[i*m.n+j], true
}

// At returns the probability that die i beats die j.
func (m Matrix) At(i, j int) (float64, bool) {
	w, ok := m.Wins(i, j)
	if !ok {
		return 0, false
	}
	return float64(w) / Outcomes, true
}

// BestAgainst returns the die with the highest chance of beating die j,
// preferring the lowest index on ties. It returns -1 when j is out of
// range or the set has a single die.
func (m Matrix) BestAgainst(j int) (int, float64) {
	best, bestP := -1, -1.0
	for i := 0; i < m.n; i++ {
		p, ok := m.At(i, j)
		if ok && p > bestP {
			best, bestP = i, p
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestP
}

// Render writes the matrix as an aligned table. Rows are the die that
// rolls, columns the die it rolls against. A nil labels slice labels dice
// by index.
func (m Matrix) Render(w io.Writer, labels []string) error {
	if labels == nil {
		labels = make([]string, m.n)
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}
	if len(labels) != m.n {
		return fmt.Errorf("got %d labels for %d dice", len(labels), m.n)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "win\\vs\t")
	for _, l := range labels {
		fmt.Fprintf(tw, "%s\t", l)
	}
	fmt.Fprintln(tw)

	for i := 0; i < m.n; i++ {
		fmt.Fprintf(tw, "%s\t", labels[i])
		for j := 0; j < m.n; j++ {
			if p, ok := m.At(i, j); ok {
				fmt.Fprintf(tw, "%.4f\t", p)
			} else {
				fmt.Fprintf(tw, "%s\t", NotApplicable)
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
