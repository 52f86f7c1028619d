package inference

import (
	"fmt"

	"github.com/synapforge/forgellm/internal/logits"
)

// Generation defaults, applied when a request leaves a knob unset.
const (
	DefaultMaxTokens     = 64
	DefaultRepeatPenalty = 1.1
	DefaultRepeatLastN   = 64
)

// RequestOptions is the wire-facing shape of a generation request:
// every knob is optional and nil means "use the default". Pointer
// fields distinguish an explicit zero from an omitted value.
type RequestOptions struct {
	Prompt        string
	MaxTokens     *int
	Seed          *int64
	Temperature   *float64
	TopK          *int
	TopP          *float64
	RepeatPenalty *float32
	RepeatLastN   *int
}

// ResolveRequest validates the options and fills in defaults,
// producing the concrete Request the decode loop runs with.
func ResolveRequest(opts RequestOptions) (*Request, error) {
	req := &Request{
		Prompt:        opts.Prompt,
		MaxTokens:     DefaultMaxTokens,
		Seed:          logits.DefaultSeed,
		RepeatPenalty: DefaultRepeatPenalty,
		RepeatLastN:   DefaultRepeatLastN,
	}

	if opts.MaxTokens != nil {
		if *opts.MaxTokens <= 0 {
			return nil, fmt.Errorf("max_tokens must be positive, got %d", *opts.MaxTokens)
		}
		req.MaxTokens = *opts.MaxTokens
	}
	if opts.Seed != nil {
		req.Seed = *opts.Seed
	}
	if opts.Temperature != nil {
		if *opts.Temperature < 0 {
			return nil, fmt.Errorf("temperature must be non-negative, got %g", *opts.Temperature)
		}
		req.Temperature = *opts.Temperature
	}
	if opts.TopK != nil {
		if *opts.TopK < 0 {
			return nil, fmt.Errorf("top_k must be non-negative, got %d", *opts.TopK)
		}
		req.TopK = *opts.TopK
	}
	if opts.TopP != nil {
		if *opts.TopP < 0 || *opts.TopP > 1 {
			return nil, fmt.Errorf("top_p must be in [0, 1], got %g", *opts.TopP)
		}
		req.TopP = *opts.TopP
	}
	if opts.RepeatPenalty != nil {
		if *opts.RepeatPenalty <= 0 {
			return nil, fmt.Errorf("repeat_penalty must be positive, got %g", *opts.RepeatPenalty)
		}
		req.RepeatPenalty = *opts.RepeatPenalty
	}
	if opts.RepeatLastN != nil {
		if *opts.RepeatLastN < 0 {
			return nil, fmt.Errorf("repeat_last_n must be non-negative, got %d", *opts.RepeatLastN)
		}
		req.RepeatLastN = *opts.RepeatLastN
	}
	return req, nil
}
