package hooks

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	BeforeCommand = "command:before"
	AfterCommand  = "command:after"
	InfoGather    = "info:gather"
)

// Func is a hook callback. Its result is collected by Fire.
type Func func(ctx context.Context, args map[string]any) (any, error)

type hook struct {
	source string
	fn     Func
}

// Engine lets plugins attach callbacks to named lifecycle points.
type Engine struct {
	mu    sync.RWMutex
	hooks map[string][]hook
}

func NewEngine() *Engine {
	return &Engine{hooks: map[string][]hook{}}
}

func (e *Engine) Register(source, name string, fn Func) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks[name] = append(e.hooks[name], hook{source: source, fn: fn})
}

// Sources lists who registered for name, in registration order.
func (e *Engine) Sources(name string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.hooks[name]))
	for _, h := range e.hooks[name] {
		out = append(out, h.source)
	}
	return out
}

// Fire runs every hook registered for name in order. Non-nil results are
// collected; every hook runs even if an earlier one fails, and the failures
// are joined. A nil Engine fires nothing.
func (e *Engine) Fire(ctx context.Context, name string, args map[string]any) ([]any, error) {
	if e == nil {
		return nil, nil
	}
	e.mu.RLock()
	registered := append([]hook(nil), e.hooks[name]...)
	e.mu.RUnlock()

	var (
		results []any
		errs    []error
	)
	for _, h := range registered {
		result, err := h.fn(ctx, args)
		if err != nil {
			errs = append(errs, fmt.Errorf("hook %s (%s): %w", name, h.source, err))
			continue
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, errors.Join(errs...)
}
