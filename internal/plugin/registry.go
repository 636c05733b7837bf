package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/MrJJimenez/ionctl/internal/hooks"
)

var (
	ErrNotFound  = errors.New("plugin not found")
	ErrDuplicate = errors.New("plugin already registered")
)

// Plugin is an extension compiled into the binary. RegisterHooks is called
// once when the plugin is added to a registry.
type Plugin interface {
	Name() string
	Version() string
	RegisterHooks(engine *hooks.Engine)
}

type Registry struct {
	mu      sync.RWMutex
	engine  *hooks.Engine
	plugins map[string]Plugin
}

func NewRegistry(engine *hooks.Engine) *Registry {
	return &Registry{engine: engine, plugins: map[string]Plugin{}}
}

func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[p.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.Name())
	}
	r.plugins[p.Name()] = p
	if r.engine != nil {
		p.RegisterHooks(r.engine)
	}
	return nil
}

func (r *Registry) Load(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// List returns plugins sorted by name.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
