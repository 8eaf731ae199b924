package agents

import (
	"fmt"
	"sort"
	"sync"
)

// Tool is a named agent capability. Concrete tools expose typed Execute
// methods with structured request/response types; the registry provides
// lookup and enumeration by capability name.
type Tool interface {
	// Name returns the capability name used for registry lookup.
	Name() string

	// Description returns a short human-readable capability summary.
	Description() string
}

// UnknownToolError is returned when a capability name is not registered.
type UnknownToolError struct {
	Capability string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool capability: %s", e.Capability)
}

// Registry holds the agent toolset keyed by capability name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Registering a duplicate name is an error.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = tool
	return nil
}

// Get returns the tool for a capability name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Capability: name}
	}
	return tool, nil
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
