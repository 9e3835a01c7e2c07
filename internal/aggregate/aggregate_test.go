package aggregate

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCount_SumsToSequenceLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(200)
		seq := make([]string, n)
		for i := range seq {
			seq[i] = fmt.Sprintf("kw-%d", rng.Intn(15))
		}
		tbl := Count(seq)
		require.Equal(t, n, tbl.Total())
		sum := 0
		for _, e := range tbl.Entries() {
			require.Positive(t, e.Count)
			sum += e.Count
		}
		require.Equal(t, n, sum)
	}
}

func TestCount_FirstSeenOrderAndExactMatch(t *testing.T) {
	tbl := Count([]string{"b", "a", "b", "A", "a", "b"})
	require.Equal(t, []Entry{{"b", 3}, {"a", 2}, {"A", 1}}, tbl.Entries())
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, 0, tbl.Get("missing"))
}

func TestTopK_TieBreakKeepsInsertionOrder(t *testing.T) {
	tbl := &Table{}
	for _, e := range []Entry{{"a", 3}, {"b", 5}, {"c", 3}, {"d", 5}} {
		for i := 0; i < e.Count; i++ {
			tbl.Add(e.Keyword)
		}
	}
	got := TopK(tbl, DefaultTopK)
	require.Equal(t, []Entry{{"b", 5}, {"d", 5}, {"a", 3}, {"c", 3}}, got)
}

func TestTopK_LengthAndOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		seq := make([]string, rng.Intn(300))
		for i := range seq {
			seq[i] = fmt.Sprintf("kw-%d", rng.Intn(1+rng.Intn(30)))
		}
		tbl := Count(seq)
		got := TopK(tbl, DefaultTopK)
		want := tbl.Len()
		if want > DefaultTopK {
			want = DefaultTopK
		}
		require.Len(t, got, want)
		for i := 1; i < len(got); i++ {
			require.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
		}
	}
}

func TestTopK_Truncates(t *testing.T) {
	var seq []string
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			seq = append(seq, fmt.Sprintf("k%02d", i))
		}
	}
	got := TopK(Count(seq), 10)
	require.Len(t, got, 10)
	require.Equal(t, Entry{"k11", 12}, got[0])
	require.Equal(t, Entry{"k02", 3}, got[9])
}

func TestEmptyInput(t *testing.T) {
	tbl := Count(nil)
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, 0, tbl.Total())
	got := TopK(tbl, DefaultTopK)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestTopK_DoesNotMutateTable(t *testing.T) {
	tbl := Count([]string{"x", "y", "y"})
	_ = TopK(tbl, 1)
	require.Equal(t, []Entry{{"x", 1}, {"y", 2}}, tbl.Entries())
}
