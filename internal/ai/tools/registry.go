package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Registry holds the tools workers may call. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a tool. Registering a name twice is an error.
func (r *Registry) Register(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if def.Handler == nil {
		return fmt.Errorf("register tool %q: nil handler", name)
	}
	def.Name = name
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("register tool %q: already registered", name)
	}
	r.defs[name] = def
	return nil
}

func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.defs, strings.TrimSpace(name))
}

// Definitions returns the named tools in the order requested, skipping
// unknown names. With no arguments it returns nothing: workers opt in to
// tools explicitly.
func (r *Registry) Definitions(names ...string) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(names))
	for _, name := range names {
		if def, ok := r.defs[strings.TrimSpace(name)]; ok {
			out = append(out, def)
		}
	}
	return out
}

// Invoke runs the named tool. Unknown names and handler failures come back as
// *ToolError; handlers never panic the caller.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (out string, err error) {
	r.mu.RLock()
	def, ok := r.defs[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return "", newToolError(ErrorCodeNotFound, fmt.Sprintf("unknown tool %q", name))
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = newToolError(ErrorCodeUnknown, fmt.Sprintf("tool %q panicked: %v", name, rec))
		}
	}()
	out, err = def.Handler(ctx, args)
	if err != nil {
		if _, ok := err.(*ToolError); ok {
			return "", err
		}
		return "", newToolError(ErrorCodeUnknown, err.Error())
	}
	return out, nil
}
