package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/synapforge/forgellm/internal/inference"
)

// EngineProvider hands a handler exclusive use of an engine for the
// duration of one request.
type EngineProvider interface {
	WithEngine(ctx context.Context, modelID string, fn func(engine inference.Engine) error) error
	ListModels() ([]string, error)
}

// SingleEngineProvider serves one preloaded engine under one model id.
// Requests naming a different model are rejected; an empty model id
// selects the default.
type SingleEngineProvider struct {
	name   string
	mu     sync.Mutex
	engine inference.Engine
	closed bool
}

func NewSingleEngineProvider(name string, engine inference.Engine) *SingleEngineProvider {
	return &SingleEngineProvider{name: name, engine: engine}
}

func (p *SingleEngineProvider) WithEngine(ctx context.Context, modelID string, fn func(engine inference.Engine) error) error {
	modelID = strings.TrimSpace(modelID)
	if modelID != "" && modelID != p.name {
		return newInvalidRequest(fmt.Sprintf("model %q not found; loaded model is %q", modelID, p.name))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("engine provider is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(p.engine)
}

func (p *SingleEngineProvider) ListModels() ([]string, error) {
	return []string{p.name}, nil
}

func (p *SingleEngineProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.engine.Close()
}
