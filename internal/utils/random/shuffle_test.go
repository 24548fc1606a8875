package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffle_PreservesElements(t *testing.T) {
	original := []int{1, 2, 3, 4, 5, 6, 7, 8}
	shuffled := append([]int(nil), original...)

	require.NoError(t, Shuffle(shuffled))

	assert.ElementsMatch(t, original, shuffled)
}

func TestShuffle_SmallSlices(t *testing.T) {
	require.NoError(t, Shuffle([]int{}))
	require.NoError(t, Shuffle([]int{42}))

	one := []int{42}
	require.NoError(t, Shuffle(one))
	assert.Equal(t, []int{42}, one)
}

func TestDraw_Bounds(t *testing.T) {
	items := []string{"a", "b", "c"}

	drawn, err := Draw(append([]string(nil), items...), 5)
	require.NoError(t, err)
	assert.Len(t, drawn, 3, "count is clamped to the slice length")

	drawn, err = Draw(append([]string(nil), items...), 0)
	require.NoError(t, err)
	assert.Empty(t, drawn)

	drawn, err = Draw([]string{}, 1)
	require.NoError(t, err)
	assert.Empty(t, drawn)
}

func TestDraw_Distinct(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	drawn, err := Draw(append([]int(nil), items...), 4)
	require.NoError(t, err)
	require.Len(t, drawn, 4)

	seen := make(map[int]bool)
	for _, v := range drawn {
		assert.False(t, seen[v], "draw must be without replacement")
		seen[v] = true
	}
}

// Chi-squared test over many single-winner draws from 8 candidates. With
// 80000 trials the expected count per bucket is 10000; the 99.9th percentile
// of chi-squared with 7 degrees of freedom is about 24.3, so a fair draw
// fails this roughly once per thousand runs.
func TestDraw_Uniformity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}

	const (
		candidates = 8
		trials     = 80000
	)

	counts := make([]int, candidates)
	for i := 0; i < trials; i++ {
		items := make([]int, candidates)
		for j := range items {
			items[j] = j
		}
		drawn, err := Draw(items, 1)
		require.NoError(t, err)
		counts[drawn[0]]++
	}

	expected := float64(trials) / float64(candidates)
	var chiSquared float64
	for _, c := range counts {
		diff := float64(c) - expected
		chiSquared += diff * diff / expected
	}

	assert.Less(t, chiSquared, 24.3, "draw distribution deviates from uniform: %v", counts)
}
