package inference

import (
	"unicode"
	"unicode/utf8"

	"github.com/synapforge/forgellm/internal/tokenizer"
)

// TokenStream turns token ids into visible text incrementally. Byte
// pair vocabularies split multi-byte runes across tokens, so a chunk is
// only released once the tail of the pending text ends in a complete
// alphanumeric rune; everything else stays buffered until DecodeRest.
type TokenStream struct {
	tok          tokenizer.Tokenizer
	tokens       []int
	prevIndex    int
	currentIndex int
}

func NewTokenStream(tok tokenizer.Tokenizer) *TokenStream {
	return &TokenStream{tok: tok}
}

// NextToken appends one token and returns the newly visible text, or
// the empty string when nothing can be released yet.
func (s *TokenStream) NextToken(id int) (string, error) {
	prevText := ""
	if len(s.tokens) > 0 {
		t, err := s.tok.Decode(s.tokens[s.prevIndex:s.currentIndex])
		if err != nil {
			return "", err
		}
		prevText = t
	}

	s.tokens = append(s.tokens, id)
	text, err := s.tok.Decode(s.tokens[s.prevIndex:])
	if err != nil {
		return "", err
	}

	// Compare byte lengths: a new token may extend a pending rune
	// without adding visible characters yet.
	if len(text) > len(prevText) && endsAlphanumeric(text) {
		chunk := text[len(prevText):]
		s.prevIndex = s.currentIndex
		s.currentIndex = len(s.tokens)
		return chunk, nil
	}
	return "", nil
}

// DecodeRest flushes whatever text is still buffered, regardless of
// how it ends. Indices are left untouched so a subsequent call is a
// no-op.
func (s *TokenStream) DecodeRest() (string, error) {
	prevText := ""
	if s.currentIndex > s.prevIndex {
		t, err := s.tok.Decode(s.tokens[s.prevIndex:s.currentIndex])
		if err != nil {
			return "", err
		}
		prevText = t
	}
	text, err := s.tok.Decode(s.tokens[s.prevIndex:])
	if err != nil {
		return "", err
	}
	if len(text) > len(prevText) {
		return text[len(prevText):], nil
	}
	return "", nil
}

// DecodeAll decodes every token seen so far in one pass.
func (s *TokenStream) DecodeAll() (string, error) {
	return s.tok.Decode(s.tokens)
}

// Tokens exposes the accumulated token ids.
func (s *TokenStream) Tokens() []int {
	return s.tokens
}

// Reset clears the stream for reuse within a new generation.
func (s *TokenStream) Reset() {
	s.tokens = s.tokens[:0]
	s.prevIndex = 0
	s.currentIndex = 0
}

func endsAlphanumeric(text string) bool {
	r, size := utf8.DecodeLastRuneInString(text)
	if r == utf8.RuneError && size <= 1 {
		// Trailing bytes of an unfinished rune. Hold.
		return false
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
