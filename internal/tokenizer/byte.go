package tokenizer

import "fmt"

// Byte-level vocabulary layout: ids 0..255 are raw bytes, specials
// follow.
const (
	byteVocabSize = 256

	// EndOfText is the terminal special token of the byte tokenizer.
	EndOfText = "<|endoftext|>"
)

// ByteTokenizer is a minimal byte-level tokenizer: every byte of the
// input is one token, plus a single end-of-text special. It exists so
// the decode path can run without an external vocabulary, and so tests
// can exercise multi-byte UTF-8 sequences that span several tokens.
type ByteTokenizer struct {
	specials map[string]int
	names    []string
}

func NewByteTokenizer() *ByteTokenizer {
	t := &ByteTokenizer{
		specials: make(map[string]int),
	}
	t.addSpecial(EndOfText)
	return t
}

func (t *ByteTokenizer) addSpecial(name string) int {
	id := byteVocabSize + len(t.names)
	t.specials[name] = id
	t.names = append(t.names, name)
	return id
}

// VocabSize reports the total vocabulary size including specials.
func (t *ByteTokenizer) VocabSize() int {
	return byteVocabSize + len(t.names)
}

// EOSID returns the id of the end-of-text token.
func (t *ByteTokenizer) EOSID() int {
	return t.specials[EndOfText]
}

func (t *ByteTokenizer) Encode(text string) ([]int, error) {
	ids := make([]int, 0, len(text))
	for i := 0; i < len(text); i++ {
		ids = append(ids, int(text[i]))
	}
	return ids, nil
}

// Decode concatenates the raw bytes of the given ids. Special tokens
// are skipped, matching a decode with special tokens stripped.
func (t *ByteTokenizer) Decode(ids []int) (string, error) {
	buf := make([]byte, 0, len(ids))
	for _, id := range ids {
		switch {
		case id >= 0 && id < byteVocabSize:
			buf = append(buf, byte(id))
		case id >= byteVocabSize && id < t.VocabSize():
			// special token, not visible text
		default:
			return "", fmt.Errorf("tokenizer: id %d out of range [0, %d)", id, t.VocabSize())
		}
	}
	return string(buf), nil
}

func (t *ByteTokenizer) TokenToID(token string) (int, bool) {
	if id, ok := t.specials[token]; ok {
		return id, true
	}
	if len(token) == 1 {
		return int(token[0]), true
	}
	return 0, false
}
