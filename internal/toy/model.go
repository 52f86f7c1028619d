// Package toy provides a deterministic, dependency-free backend that
// implements the model capability. It is a single linear layer over a
// decaying bag of token embeddings: useful for exercising the full
// decode path in tests, benchmarks and smoke deployments, useless for
// actual language modeling.
package toy

import (
	"fmt"
	"math/rand"

	"github.com/synapforge/forgellm/internal/model"
)

const stateDecay = 0.9

type Config struct {
	VocabSize     int
	Hidden        int
	ContextLength int
	EOSTokenIDs   []int
	// Seed drives the pseudo-random weight fill; fixed seed, fixed
	// model.
	Seed int64
}

// LM is a toy language model. Weights are filled deterministically
// from the seed and never mutated, so one instance may serve any
// number of concurrent generations.
type LM struct {
	cfg    model.Config
	hidden int
	emb    [][]float32 // [vocab][hidden]
	w      [][]float32 // [hidden][vocab]
}

func New(cfg Config) (*LM, error) {
	if cfg.VocabSize <= 0 {
		return nil, fmt.Errorf("toy: vocab size must be positive, got %d", cfg.VocabSize)
	}
	if cfg.Hidden <= 0 {
		cfg.Hidden = 32
	}
	if cfg.ContextLength <= 0 {
		cfg.ContextLength = 4096
	}

	m := &LM{
		cfg: model.Config{
			VocabSize:     cfg.VocabSize,
			ContextLength: cfg.ContextLength,
			EOSTokenIDs:   append([]int(nil), cfg.EOSTokenIDs...),
			DType:         model.F32,
			Device:        model.DeviceCPU,
		},
		hidden: cfg.Hidden,
		emb:    fillRand(cfg.VocabSize, cfg.Hidden, cfg.Seed+11),
		w:      fillRand(cfg.Hidden, cfg.VocabSize, cfg.Seed+23),
	}
	return m, nil
}

func fillRand(rows, cols int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, rows)
	for i := range out {
		row := make([]float32, cols)
		for j := range row {
			row[j] = rng.Float32()*2 - 1
		}
		out[i] = row
	}
	return out
}

func (m *LM) Config() model.Config {
	return m.cfg
}

// cacheState is the toy attention-cache analogue: a decaying sum of
// token embeddings plus the count of tokens already folded in.
type cacheState struct {
	incremental bool
	pos         int
	h           []float32
}

func (c *cacheState) Incremental() bool {
	return c.incremental
}

func (m *LM) NewCache(incremental bool, dtype model.DType, device model.Device) (model.Cache, error) {
	switch device {
	case model.DeviceCPU, model.DeviceAuto, "":
	default:
		return nil, fmt.Errorf("toy: device %q not supported", device)
	}
	return &cacheState{
		incremental: incremental,
		h:           make([]float32, m.hidden),
	}, nil
}

// Forward folds the context slice into the cache state and projects it
// to vocabulary logits. With an incremental cache the slice extends
// the retained state and pos must equal the number of tokens already
// folded; without one, the full history is recomputed from scratch and
// pos must be zero.
func (m *LM) Forward(tokens []int, pos int, cache model.Cache) ([]float32, error) {
	c, ok := cache.(*cacheState)
	if !ok || c == nil {
		return nil, fmt.Errorf("toy: cache handle of wrong type %T", cache)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("toy: empty context slice")
	}

	h := c.h
	if c.incremental {
		if pos != c.pos {
			return nil, fmt.Errorf("toy: cache position mismatch: got %d, cache holds %d tokens", pos, c.pos)
		}
	} else {
		if pos != 0 {
			return nil, fmt.Errorf("toy: non-incremental cache requires position 0, got %d", pos)
		}
		for i := range h {
			h[i] = 0
		}
		c.pos = 0
	}

	for _, tok := range tokens {
		if tok < 0 || tok >= m.cfg.VocabSize {
			return nil, fmt.Errorf("toy: token id %d out of range [0, %d)", tok, m.cfg.VocabSize)
		}
		row := m.emb[tok]
		for i := range h {
			h[i] = h[i]*stateDecay + row[i]
		}
	}
	c.pos += len(tokens)

	logits := make([]float32, m.cfg.VocabSize)
	for i, hv := range h {
		if hv == 0 {
			continue
		}
		wrow := m.w[i]
		for j := range logits {
			logits[j] += hv * wrow[j]
		}
	}
	return logits, nil
}

// EmbedTokens mean-pools the token embeddings, backing the embeddings
// endpoint.
func (m *LM) EmbedTokens(ids []int) ([]float32, error) {
	out := make([]float32, m.hidden)
	if len(ids) == 0 {
		return out, nil
	}
	n := 0
	for _, id := range ids {
		if id < 0 || id >= m.cfg.VocabSize {
			return nil, fmt.Errorf("toy: token id %d out of range [0, %d)", id, m.cfg.VocabSize)
		}
		row := m.emb[id]
		for i := range out {
			out[i] += row[i]
		}
		n++
	}
	inv := float32(1) / float32(n)
	for i := range out {
		out[i] *= inv
	}
	return out, nil
}

var _ model.Model = (*LM)(nil)
var _ model.Embedder = (*LM)(nil)
