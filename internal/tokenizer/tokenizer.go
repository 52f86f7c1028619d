package tokenizer

// Tokenizer is the text encoding capability consumed by the inference
// core. Implementations must be deterministic and stateless across
// calls; the same text always encodes to the same ids.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
	// TokenToID reports the id for a literal token string, such as a
	// special marker like "</s>". The second result is false when the
	// token is not part of the vocabulary.
	TokenToID(token string) (int, bool)
}
