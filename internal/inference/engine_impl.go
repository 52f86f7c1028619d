package inference

import (
	"context"
	"fmt"
	"sync"

	"github.com/synapforge/forgellm/internal/logger"
	"github.com/synapforge/forgellm/internal/logits"
	"github.com/synapforge/forgellm/internal/model"
	"github.com/synapforge/forgellm/internal/tokenizer"
)

// modelEngine binds a loaded model and tokenizer into an Engine.
// Generations are serialized with a mutex: the backends make no
// reentrancy promise for Forward, and one attention cache belongs to
// one generation anyway.
type modelEngine struct {
	mu sync.Mutex

	model     model.Model
	tokenizer tokenizer.Tokenizer
	log       logger.Logger

	incremental bool
	closed      bool
}

// NewEngine wraps a model and tokenizer. incremental selects whether
// generations allocate a state-retaining cache or recompute the full
// history each step.
func NewEngine(m model.Model, tok tokenizer.Tokenizer, incremental bool, log logger.Logger) Engine {
	if log == nil {
		log = logger.Default()
	}
	return &modelEngine{
		model:       m,
		tokenizer:   tok,
		log:         log,
		incremental: incremental,
	}
}

func (e *modelEngine) Generate(ctx context.Context, req *Request, stream StreamFunc) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, fmt.Errorf("inference: engine is closed")
	}

	cfg := e.model.Config()
	eos, err := ResolveEos(cfg, e.tokenizer)
	if err != nil {
		return nil, err
	}

	cache, err := e.model.NewCache(e.incremental, cfg.DType, cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("allocating cache: %w", err)
	}

	gen := &Generator{
		Model:     e.model,
		Tokenizer: e.tokenizer,
		Sampler: logits.NewSampler(logits.SamplerConfig{
			Seed:        req.Seed,
			Temperature: req.Temperature,
			TopK:        req.TopK,
			TopP:        req.TopP,
		}),
		Stream:        NewTokenStream(e.tokenizer),
		Eos:           eos,
		Cache:         cache,
		RepeatPenalty: req.RepeatPenalty,
		RepeatLastN:   req.RepeatLastN,
		Log:           e.log,
	}
	return gen.Run(ctx, req.Prompt, req.MaxTokens, stream)
}

// Embed produces an embedding vector when the backend supports it.
func (e *modelEngine) Embed(ctx context.Context, input string) ([]float32, error) {
	emb, ok := e.model.(model.Embedder)
	if !ok {
		return nil, ErrNotSupported
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, fmt.Errorf("inference: engine is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := safeEncode(e.tokenizer, input)
	if err != nil {
		return nil, err
	}
	return emb.EmbedTokens(ids)
}

func (e *modelEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
