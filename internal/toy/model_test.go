package toy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapforge/forgellm/internal/model"
)

func newLM(t *testing.T) *LM {
	t.Helper()
	lm, err := New(Config{VocabSize: 64, Hidden: 8, ContextLength: 32, Seed: 1})
	require.NoError(t, err)
	return lm
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{VocabSize: 0})
	assert.Error(t, err)
}

func TestForwardDeterministic(t *testing.T) {
	lm := newLM(t)

	run := func() []float32 {
		cache, err := lm.NewCache(true, model.F32, model.DeviceCPU)
		require.NoError(t, err)
		out, err := lm.Forward([]int{1, 2, 3}, 0, cache)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, run(), run())
}

func TestIncrementalMatchesFullRecompute(t *testing.T) {
	lm := newLM(t)
	seq := []int{5, 9, 1, 30, 7}

	inc, err := lm.NewCache(true, model.F32, model.DeviceCPU)
	require.NoError(t, err)
	var incLogits []float32
	pos := 0
	for i, tok := range seq {
		slice := []int{tok}
		if i == 0 {
			slice = seq[:1]
		}
		incLogits, err = lm.Forward(slice, pos, inc)
		require.NoError(t, err)
		pos += len(slice)
	}

	full, err := lm.NewCache(false, model.F32, model.DeviceCPU)
	require.NoError(t, err)
	fullLogits, err := lm.Forward(seq, 0, full)
	require.NoError(t, err)

	require.Len(t, incLogits, len(fullLogits))
	for i := range fullLogits {
		assert.InDelta(t, fullLogits[i], incLogits[i], 1e-4)
	}
}

func TestForwardPositionValidation(t *testing.T) {
	lm := newLM(t)

	inc, err := lm.NewCache(true, model.F32, model.DeviceCPU)
	require.NoError(t, err)
	_, err = lm.Forward([]int{1}, 3, inc)
	assert.Error(t, err)

	full, err := lm.NewCache(false, model.F32, model.DeviceCPU)
	require.NoError(t, err)
	_, err = lm.Forward([]int{1}, 1, full)
	assert.Error(t, err)
}

func TestForwardRejectsBadTokens(t *testing.T) {
	lm := newLM(t)
	cache, err := lm.NewCache(true, model.F32, model.DeviceCPU)
	require.NoError(t, err)

	_, err = lm.Forward([]int{64}, 0, cache)
	assert.Error(t, err)
	_, err = lm.Forward(nil, 0, cache)
	assert.Error(t, err)
}

func TestEmbedTokens(t *testing.T) {
	lm := newLM(t)

	vec, err := lm.EmbedTokens([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, vec, 8)

	empty, err := lm.EmbedTokens(nil)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), empty)

	_, err = lm.EmbedTokens([]int{999})
	assert.Error(t, err)
}
