package odds

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/fairdice/dice"
)

func nonTransitive(t *testing.T) dice.Set {
	t.Helper()
	s, err := dice.ParseSet([]string{
		"2,2,4,4,9,9",
		"1,1,6,6,8,8",
		"3,3,5,5,7,7",
	})
	require.NoError(t, err)
	return s
}

func TestCompute(t *testing.T) {
	m := Compute(nonTransitive(t))
	require.Equal(t, 3, m.Size())

	t.Run("KnownPair", func(t *testing.T) {
		w, ok := m.Wins(0, 1)
		require.True(t, ok)
		require.Equal(t, 20, w)

		w, ok = m.Wins(1, 0)
		require.True(t, ok)
		require.Equal(t, 16, w)

		ab, _ := m.At(0, 1)
		ba, _ := m.At(1, 0)
		require.InDelta(t, 0.5556, ab, 1e-4)
		require.InDelta(t, 0.4444, ba, 1e-4)
		require.InDelta(t, 1.0, ab+ba, 1e-12)
	})

	t.Run("NonTransitive", func(t *testing.T) {
		// 0 beats 1, 1 beats 2, 2 beats 0.
		for _, pair := range [][2]int{{0, 1}, {1, 2}, {2, 0}} {
			p, ok := m.At(pair[0], pair[1])
			require.True(t, ok)
			require.Greater(t, p, 0.5, "die %d vs die %d", pair[0], pair[1])
		}
	})

	t.Run("Diagonal", func(t *testing.T) {
		for i := 0; i < m.Size(); i++ {
			_, ok := m.At(i, i)
			require.False(t, ok)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, ok := m.Wins(-1, 0)
		require.False(t, ok)
		_, ok = m.Wins(0, 3)
		require.False(t, ok)
	})
}

func TestComputeTies(t *testing.T) {
	s, err := dice.NewSet(
		dice.Die{1, 1, 1, 1, 1, 1},
		dice.Die{1, 1, 1, 1, 1, 1},
		dice.Die{0, 0, 0, 2, 2, 2},
	)
	require.NoError(t, err)
	m := Compute(s)

	w, _ := m.Wins(0, 1)
	require.Equal(t, 0, w, "equal faces are not wins")

	a, _ := m.At(0, 2)
	b, _ := m.At(2, 0)
	require.InDelta(t, 0.5, a, 1e-12)
	require.InDelta(t, 0.5, b, 1e-12)
}

func TestBestAgainst(t *testing.T) {
	m := Compute(nonTransitive(t))

	best, p := m.BestAgainst(0)
	require.Equal(t, 2, best)
	require.InDelta(t, 20.0/36, p, 1e-12)

	best, _ = m.BestAgainst(1)
	require.Equal(t, 0, best)

	best, _ = m.BestAgainst(7)
	require.Equal(t, -1, best)
}

func TestRender(t *testing.T) {
	m := Compute(nonTransitive(t))

	var buf bytes.Buffer
	require.NoError(t, m.Render(&buf, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "win\\vs")
	require.Contains(t, lines[1], "0.5556")
	require.Contains(t, lines[2], "0.4444")
	for i, line := range lines[1:] {
		fields := strings.Fields(line)
		require.Equal(t, NotApplicable, fields[i+1], "diagonal of row %d", i)
	}

	buf.Reset()
	require.NoError(t, m.Render(&buf, []string{"A", "B", "C"}))
	require.True(t, strings.HasPrefix(strings.TrimSpace(strings.Split(buf.String(), "\n")[1]), "A"))

	require.Error(t, m.Render(&buf, []string{"A"}))
}
