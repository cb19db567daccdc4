package prng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameStream(t *testing.T) {
	t.Parallel()

	a := New(42)
	b := New(42)

	for i := 0; i < 10000; i++ {
		require.Equal(t, a.Uint32(), b.Uint32(), "stream diverged at draw %d", i)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	t.Parallel()

	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 1000; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestFloat64Range(t *testing.T) {
	t.Parallel()

	s := New(7)
	for i := 0; i < 10000; i++ {
		v := s.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestNormFloat64Moments(t *testing.T) {
	t.Parallel()

	s := New(99)
	n := 50000
	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		z := s.NormFloat64()
		sum += z
		sumSq += z * z
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean

	assert.InDelta(t, 0.0, mean, 0.03)
	assert.InDelta(t, 1.0, variance, 0.05)
}

func TestNormFloat64Deterministic(t *testing.T) {
	t.Parallel()

	a := New(5)
	b := New(5)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.NormFloat64(), b.NormFloat64())
	}
}

func TestExpFloat64Positive(t *testing.T) {
	t.Parallel()

	s := New(11)
	sum := 0.0
	n := 20000
	for i := 0; i < n; i++ {
		v := s.ExpFloat64()
		require.Greater(t, v, 0.0)
		require.False(t, math.IsInf(v, 0))
		sum += v
	}
	assert.InDelta(t, 1.0, sum/float64(n), 0.05)
}

func TestParetoBounds(t *testing.T) {
	t.Parallel()

	s := New(3)
	for i := 0; i < 10000; i++ {
		v := s.Pareto(1.0, 1.5, 50.0)
		require.GreaterOrEqual(t, v, 1.0)
		require.LessOrEqual(t, v, 50.0)
	}

	// Degenerate parameters fall back to xm.
	assert.Equal(t, 0.0, s.Pareto(0, 1.5, 10))
	assert.Equal(t, 2.0, s.Pareto(2, 0, 10))
}

func TestIntN(t *testing.T) {
	t.Parallel()

	s := New(13)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.IntN(6)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, 0, s.IntN(0))
}
