// Package dispatch owns the tool registry and the dispatch pipeline that
// every tool invocation passes through: argument validation, response
// caching, rate limiting, bounded retry and response shaping.
package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/veranek/workspace-mcp/internal/schema"
)

// Annotations carry the MCP behavior hints for a tool.
type Annotations struct {
	Title       string
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
	OpenWorld   bool
}

// Handler executes a tool against already-validated arguments and returns
// the rendered response text.
type Handler func(ctx context.Context, args schema.Values) (string, error)

// Registration describes a single tool: its wire name, the Google service
// it talks to, its argument schema and its handler.
type Registration struct {
	Name        string
	Description string
	Service     string
	Annotations Annotations
	Schema      *schema.Schema
	Handler     Handler
}

// Registry is an immutable, name-indexed set of tool registrations.
type Registry struct {
	byName map[string]Registration
	names  []string
}

// NewRegistry builds a registry from the given registrations. Duplicate
// or empty tool names are rejected.
func NewRegistry(regs ...Registration) (*Registry, error) {
	byName := make(map[string]Registration, len(regs))
	names := make([]string, 0, len(regs))
	for _, reg := range regs {
		if reg.Name == "" {
			return nil, fmt.Errorf("tool registration with empty name")
		}
		if reg.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", reg.Name)
		}
		if reg.Schema == nil {
			return nil, fmt.Errorf("tool %q has no schema", reg.Name)
		}
		if _, exists := byName[reg.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", reg.Name)
		}
		byName[reg.Name] = reg
		names = append(names, reg.Name)
	}
	sort.Strings(names)
	return &Registry{byName: byName, names: names}, nil
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	reg, ok := r.byName[name]
	return reg, ok
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns every registration in sorted name order.
func (r *Registry) All() []Registration {
	out := make([]Registration, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
