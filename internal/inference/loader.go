package inference

import (
	"fmt"

	"github.com/synapforge/forgellm/internal/logger"
	"github.com/synapforge/forgellm/internal/model"
	"github.com/synapforge/forgellm/internal/tokenizer"
	"github.com/synapforge/forgellm/internal/toy"
)

// LoadOptions selects and configures a backend.
type LoadOptions struct {
	// Backend names the implementation to load. "toy" is the built-in
	// deterministic backend.
	Backend       string
	Device        string
	ContextLength int
	Hidden        int
	Seed          int64

	// NoCache disables the incremental attention cache, forcing a full
	// history recompute on every step.
	NoCache bool

	Log logger.Logger
}

// Load constructs an engine for the named backend.
func Load(opts LoadOptions) (Engine, error) {
	switch opts.Backend {
	case "", "toy":
		return loadToy(opts)
	default:
		return nil, fmt.Errorf("inference: unknown backend %q", opts.Backend)
	}
}

func loadToy(opts LoadOptions) (Engine, error) {
	device, err := model.ParseDevice(opts.Device)
	if err != nil {
		return nil, err
	}
	if device != model.DeviceAuto && device != model.DeviceCPU {
		return nil, fmt.Errorf("inference: toy backend runs on cpu only, got %q", device)
	}

	tok := tokenizer.NewByteTokenizer()
	lm, err := toy.New(toy.Config{
		VocabSize:     tok.VocabSize(),
		Hidden:        opts.Hidden,
		ContextLength: opts.ContextLength,
		EOSTokenIDs:   []int{tok.EOSID()},
		Seed:          opts.Seed,
	})
	if err != nil {
		return nil, err
	}
	return NewEngine(lm, tok, !opts.NoCache, opts.Log), nil
}
