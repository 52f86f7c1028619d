package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/synapforge/forgellm/internal/logger"
	"github.com/synapforge/forgellm/internal/logits"
	"github.com/synapforge/forgellm/internal/model"
	"github.com/synapforge/forgellm/internal/tokenizer"
)

// Generator runs one generation: it owns the token history and the
// cache cursor, and wires the sampler, the repeat penalty and the
// incremental detokenizer around the backend's forward pass. A
// Generator is single use.
type Generator struct {
	Model     model.Model
	Tokenizer tokenizer.Tokenizer
	Sampler   *logits.Sampler
	Stream    *TokenStream
	Eos       EosSpec
	Cache     model.Cache

	RepeatPenalty float32
	RepeatLastN   int

	Log logger.Logger
}

// Run decodes up to maxTokens tokens after the prompt, emitting visible
// text through emit as it becomes available. The returned Result
// carries the full text and throughput stats. A cancelled context ends
// the generation cleanly with FinishCancelled rather than an error.
func (g *Generator) Run(ctx context.Context, prompt string, maxTokens int, emit StreamFunc) (*Result, error) {
	tokens, err := safeEncode(g.Tokenizer, prompt)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("inference: prompt encoded to zero tokens")
	}

	cfg := g.Model.Config()
	promptTokens := len(tokens)
	if promptTokens >= cfg.ContextLength {
		return nil, fmt.Errorf("inference: prompt is %d tokens, context window holds %d", promptTokens, cfg.ContextLength)
	}
	if room := cfg.ContextLength - promptTokens; maxTokens > room {
		maxTokens = room
	}

	var out strings.Builder
	push := func(chunk string) error {
		if chunk == "" {
			return nil
		}
		out.WriteString(chunk)
		if emit != nil {
			return emit(chunk)
		}
		return nil
	}

	var (
		cursor    int
		generated int
		finish    string
		startGen  = time.Now()
	)

	for index := 0; generated < maxTokens; index++ {
		if ctx.Err() != nil {
			finish = FinishCancelled
			break
		}

		// Incremental caches only need the newest token after the
		// first step; otherwise every step recomputes the full history
		// from position zero.
		var (
			ctxSlice []int
			pos      int
		)
		if g.Cache.Incremental() && index > 0 {
			ctxSlice = tokens[len(tokens)-1:]
			pos = cursor
		} else {
			ctxSlice = tokens
			pos = 0
		}

		lv, err := g.Model.Forward(ctxSlice, pos, g.Cache)
		if err != nil {
			return nil, fmt.Errorf("forward pass at position %d: %w", pos, err)
		}
		if g.Cache.Incremental() {
			cursor += len(ctxSlice)
		}
		if index == 1 {
			// First step is dominated by prompt processing. Time the
			// steady state only.
			startGen = time.Now()
		}

		if g.RepeatPenalty != 1.0 && g.RepeatLastN > 0 {
			window := len(tokens) - g.RepeatLastN
			if window < 0 {
				window = 0
			}
			logits.ApplyRepeatPenalty(lv, g.RepeatPenalty, tokens[window:])
		}

		next, err := g.Sampler.Sample(lv)
		if err != nil {
			return nil, fmt.Errorf("sampling token %d: %w", generated+1, err)
		}
		tokens = append(tokens, next)
		generated++

		isEos := g.Eos.Contains(next)
		if !isEos {
			chunk, err := g.Stream.NextToken(next)
			if err != nil {
				return nil, fmt.Errorf("decoding token %d: %w", next, err)
			}
			if err := push(chunk); err != nil {
				return nil, err
			}
		}

		if generated >= maxTokens {
			finish = FinishLength
			break
		}
		if isEos {
			finish = FinishStop
			break
		}
	}

	rest, err := g.Stream.DecodeRest()
	if err != nil {
		return nil, fmt.Errorf("flushing decode buffer: %w", err)
	}
	if err := push(rest); err != nil {
		return nil, err
	}

	dt := time.Since(startGen)
	var tps float64
	if generated > 1 && dt > 0 {
		tps = float64(generated-1) / dt.Seconds()
	}
	if g.Log != nil {
		g.Log.Debug("generation finished",
			"finish_reason", finish,
			"prompt_tokens", promptTokens,
			"tokens_generated", generated,
			"tps", tps,
		)
	}

	return &Result{
		Text:         out.String(),
		FinishReason: finish,
		Stats: Stats{
			PromptTokens:    promptTokens,
			TokensGenerated: generated,
			Duration:        dt,
			TPS:             tps,
		},
	}, nil
}

// safeEncode guards against tokenizer panics on malformed input.
func safeEncode(tok tokenizer.Tokenizer, text string) (ids []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()
	ids, err = tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encoding prompt: %w", err)
	}
	return ids, nil
}
