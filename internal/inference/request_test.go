package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapforge/forgellm/internal/logits"
)

func TestResolveRequestDefaults(t *testing.T) {
	req, err := ResolveRequest(RequestOptions{Prompt: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello", req.Prompt)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	assert.Equal(t, int64(logits.DefaultSeed), req.Seed)
	assert.Equal(t, 0.0, req.Temperature)
	assert.Equal(t, 0, req.TopK)
	assert.Equal(t, 0.0, req.TopP)
	assert.Equal(t, float32(DefaultRepeatPenalty), req.RepeatPenalty)
	assert.Equal(t, DefaultRepeatLastN, req.RepeatLastN)
}

func TestResolveRequestExplicitValues(t *testing.T) {
	mt, seed, temp, topK, topP := 8, int64(1), 0.5, 10, 0.9
	rp, rn := float32(1.0), 0

	req, err := ResolveRequest(RequestOptions{
		Prompt:        "p",
		MaxTokens:     &mt,
		Seed:          &seed,
		Temperature:   &temp,
		TopK:          &topK,
		TopP:          &topP,
		RepeatPenalty: &rp,
		RepeatLastN:   &rn,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, req.MaxTokens)
	assert.Equal(t, int64(1), req.Seed)
	assert.Equal(t, 0.5, req.Temperature)
	assert.Equal(t, 10, req.TopK)
	assert.Equal(t, 0.9, req.TopP)
	// An explicit 1.0 disables the penalty and must survive the
	// defaulting pass.
	assert.Equal(t, float32(1.0), req.RepeatPenalty)
	assert.Equal(t, 0, req.RepeatLastN)
}

func TestResolveRequestRejectsInvalid(t *testing.T) {
	bad := []RequestOptions{
		{MaxTokens: intPtr(0)},
		{MaxTokens: intPtr(-1)},
		{Temperature: floatPtr(-0.1)},
		{TopK: intPtr(-1)},
		{TopP: floatPtr(-0.5)},
		{TopP: floatPtr(1.5)},
		{RepeatPenalty: f32Ptr(0)},
		{RepeatPenalty: f32Ptr(-1)},
		{RepeatLastN: intPtr(-1)},
	}
	for _, opts := range bad {
		_, err := ResolveRequest(opts)
		assert.Error(t, err)
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func f32Ptr(v float32) *float32   { return &v }
