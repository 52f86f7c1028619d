package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapforge/forgellm/internal/tokenizer"
)

func feed(t *testing.T, s *TokenStream, text string) []string {
	t.Helper()
	var chunks []string
	for i := 0; i < len(text); i++ {
		chunk, err := s.NextToken(int(text[i]))
		require.NoError(t, err)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func TestStreamEmitsOnAlphanumericBoundary(t *testing.T) {
	s := NewTokenStream(tokenizer.NewByteTokenizer())

	chunks := feed(t, s, "hi there")
	// Whitespace is held back until the next alphanumeric rune lands.
	assert.Equal(t, []string{"h", "i", " t", "h", "e", "r", "e"}, chunks)

	rest, err := s.DecodeRest()
	require.NoError(t, err)
	assert.Equal(t, "", rest)
}

func TestStreamHoldsPartialRune(t *testing.T) {
	s := NewTokenStream(tokenizer.NewByteTokenizer())

	// "é" is 0xC3 0xA9; the first byte alone is not valid UTF-8.
	chunk, err := s.NextToken(0xC3)
	require.NoError(t, err)
	assert.Equal(t, "", chunk)

	chunk, err = s.NextToken(0xA9)
	require.NoError(t, err)
	assert.Equal(t, "é", chunk)
}

func TestStreamFlushesTrailingPunctuation(t *testing.T) {
	s := NewTokenStream(tokenizer.NewByteTokenizer())

	chunks := feed(t, s, "ok!")
	assert.Equal(t, []string{"o", "k"}, chunks)

	rest, err := s.DecodeRest()
	require.NoError(t, err)
	assert.Equal(t, "!", rest)

	// A second flush returns nothing new.
	rest, err = s.DecodeRest()
	require.NoError(t, err)
	assert.Equal(t, "", rest)
}

func TestStreamRoundTrip(t *testing.T) {
	const text = "héllo, wörld! 42"
	s := NewTokenStream(tokenizer.NewByteTokenizer())

	var out string
	for _, c := range feed(t, s, text) {
		out += c
	}
	rest, err := s.DecodeRest()
	require.NoError(t, err)
	out += rest

	assert.Equal(t, text, out)

	all, err := s.DecodeAll()
	require.NoError(t, err)
	assert.Equal(t, text, all)
}

func TestStreamReset(t *testing.T) {
	s := NewTokenStream(tokenizer.NewByteTokenizer())
	feed(t, s, "abc")
	s.Reset()

	assert.Empty(t, s.Tokens())
	chunk, err := s.NextToken('x')
	require.NoError(t, err)
	assert.Equal(t, "x", chunk)
}
