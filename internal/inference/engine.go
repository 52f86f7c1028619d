// Package inference drives the autoregressive decode loop: it owns the
// token history, the cache cursor, sampling-policy dispatch and the
// incremental detokenizer, and turns a prompt plus generation settings
// into streamed text chunks and a final result.
package inference

import (
	"context"
	"errors"
	"time"
)

// ErrNotSupported is returned by optional capabilities the loaded
// backend does not implement.
var ErrNotSupported = errors.New("inference: operation not supported by this backend")

// StreamFunc receives visible text chunks as the generation produces
// them. A nil StreamFunc disables streaming; the full text is still
// available on the Result. Returning an error aborts the generation.
type StreamFunc func(chunk string) error

// Finish reasons reported on a Result.
const (
	FinishStop      = "stop"
	FinishLength    = "length"
	FinishCancelled = "cancelled"
)

// Stats carries the throughput accounting of one generation. TPS
// excludes the first generated token, whose latency is dominated by
// prompt processing.
type Stats struct {
	PromptTokens    int
	TokensGenerated int
	Duration        time.Duration
	TPS             float64
}

// Result is the outcome of one completed generation.
type Result struct {
	Text         string
	FinishReason string
	Stats        Stats
}

// Request is a fully resolved generation request. Build one with
// ResolveRequest so defaults are applied consistently.
type Request struct {
	Prompt        string
	MaxTokens     int
	Seed          int64
	Temperature   float64
	TopK          int
	TopP          float64
	RepeatPenalty float32
	RepeatLastN   int
}

// Engine is one loaded model ready to generate. Generate may be called
// from multiple goroutines; implementations serialize internally.
type Engine interface {
	Generate(ctx context.Context, req *Request, stream StreamFunc) (*Result, error)
	Close() error
}

// Embedder is the optional embeddings capability of an engine.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float32, error)
}
