package logits

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgMaxPicksHighest(t *testing.T) {
	s := NewSampler(SamplerConfig{Temperature: 0})
	id, err := s.Sample([]float32{0.1, 3.5, -2, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestArgMaxTieGoesToLowestIndex(t *testing.T) {
	s := NewSampler(SamplerConfig{Temperature: 0})
	id, err := s.Sample([]float32{1, 7, 7, 7})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestArgMaxSkipsNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	s := NewSampler(SamplerConfig{Temperature: 0})
	id, err := s.Sample([]float32{nan, inf, 2, 5})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestDegenerateLogits(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(-1))

	for _, how := range []SamplerConfig{
		{Temperature: 0},
		{Temperature: 0.8},
		{Temperature: 0.8, TopK: 2},
		{Temperature: 0.8, TopP: 0.9},
		{Temperature: 0.8, TopK: 2, TopP: 0.9},
	} {
		s := NewSampler(how)
		_, err := s.Sample([]float32{nan, inf, nan})
		assert.ErrorIs(t, err, ErrDegenerateLogits)

		_, err = s.Sample(nil)
		assert.ErrorIs(t, err, ErrDegenerateLogits)
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	logits := []float32{1, 2, 3, 2.5, 0.5}

	draw := func() []int {
		s := NewSampler(SamplerConfig{Seed: 7, Temperature: 1.0})
		out := make([]int, 20)
		for i := range out {
			id, err := s.Sample(logits)
			require.NoError(t, err)
			out[i] = id
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}

func TestDefaultSeedIsFixed(t *testing.T) {
	logits := []float32{1, 2, 3}
	a := NewSampler(SamplerConfig{Temperature: 1.0})
	b := NewSampler(SamplerConfig{Seed: DefaultSeed, Temperature: 1.0})
	for i := 0; i < 10; i++ {
		idA, err := a.Sample(logits)
		require.NoError(t, err)
		idB, err := b.Sample(logits)
		require.NoError(t, err)
		assert.Equal(t, idA, idB)
	}
}

func TestDifferentSeedsCanDiverge(t *testing.T) {
	// A near-uniform distribution; two seeds should disagree somewhere
	// within a modest number of draws.
	logits := []float32{1.0, 1.01, 0.99, 1.0}
	a := NewSampler(SamplerConfig{Seed: 1, Temperature: 1.0})
	b := NewSampler(SamplerConfig{Seed: 2, Temperature: 1.0})

	for i := 0; i < 200; i++ {
		idA, err := a.Sample(logits)
		require.NoError(t, err)
		idB, err := b.Sample(logits)
		require.NoError(t, err)
		if idA != idB {
			return
		}
	}
	t.Fatal("seeds 1 and 2 produced identical 200-draw sequences")
}

func TestTopKRestrictsCandidates(t *testing.T) {
	// ids 4 and 2 carry the two highest logits.
	logits := []float32{0, 1, 5, 2, 9}
	s := NewSampler(SamplerConfig{Temperature: 1.0, TopK: 2})
	for i := 0; i < 100; i++ {
		id, err := s.Sample(logits)
		require.NoError(t, err)
		assert.Contains(t, []int{2, 4}, id)
	}
}

func TestTopKLargerThanVocab(t *testing.T) {
	s := NewSampler(SamplerConfig{Temperature: 1.0, TopK: 100})
	id, err := s.Sample([]float32{1, 2})
	require.NoError(t, err)
	assert.Contains(t, []int{0, 1}, id)
}

func TestTopPKeepsNucleusOnly(t *testing.T) {
	// id 1 holds nearly all probability mass, so a tight nucleus
	// always selects it.
	logits := []float32{0, 20, 1, 2}
	s := NewSampler(SamplerConfig{Temperature: 1.0, TopP: 0.5})
	for i := 0; i < 100; i++ {
		id, err := s.Sample(logits)
		require.NoError(t, err)
		assert.Equal(t, 1, id)
	}
}

func TestTopKThenTopP(t *testing.T) {
	// Top-k keeps ids 3 and 0; the nucleus cut then drops id 0.
	logits := []float32{5, 1, 0, 25}
	s := NewSampler(SamplerConfig{Temperature: 1.0, TopK: 2, TopP: 0.9})
	for i := 0; i < 100; i++ {
		id, err := s.Sample(logits)
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	}
}

func TestZeroTemperatureIgnoresKnobs(t *testing.T) {
	// With temperature zero the strategy is argmax no matter what
	// top-k or top-p say.
	logits := []float32{1, 9, 3}
	s := NewSampler(SamplerConfig{Temperature: 0, TopK: 3, TopP: 0.5})
	for i := 0; i < 10; i++ {
		id, err := s.Sample(logits)
		require.NoError(t, err)
		assert.Equal(t, 1, id)
	}
}
