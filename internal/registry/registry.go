package registry

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

// ToolHandler executes a tool call. Args is never nil; a call without
// arguments receives an empty map. The returned content is sent to the
// caller in order.
type ToolHandler func(ctx context.Context, args map[string]any) ([]mcp.Content, error)

// ResourceHandler reads the raw payload of a resource.
type ResourceHandler func(ctx context.Context, uri string) ([]byte, error)

// Registry is an ordered collection of tools and resources with their handlers.
//
// The set of listed tool names always equals the set of handler keys, and
// the same holds for resource URIs. Registration order is preserved.
type Registry struct {
	tools        []*mcp.Tool
	toolHandlers map[string]ToolHandler

	resources        []*mcp.Resource
	resourceHandlers map[string]ResourceHandler

	frozen atomic.Bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		toolHandlers:     make(map[string]ToolHandler, 8),
		resourceHandlers: make(map[string]ResourceHandler, 4),
	}
}

// Register adds a tool and its handler.
//
// Registering a name twice fails with *errors.DuplicateToolNameError and
// leaves the registry unchanged.
func (r *Registry) Register(tool *mcp.Tool, handler ToolHandler) error {
	if r.frozen.Load() {
		return errors.ErrRegistryFrozen
	}

	if tool == nil || tool.Name == "" {
		return fmt.Errorf("%w: tool name is required", errors.ErrInvalidRegistration)
	}

	if handler == nil {
		return fmt.Errorf("%w: tool %q has no handler", errors.ErrInvalidRegistration, tool.Name)
	}

	if _, exists := r.toolHandlers[tool.Name]; exists {
		return &errors.DuplicateToolNameError{Name: tool.Name}
	}

	r.tools = append(r.tools, tool)
	r.toolHandlers[tool.Name] = handler

	return nil
}

// MustRegister is like Register but panics on error.
// It is intended for provider init functions where a failure is a
// programming error.
func (r *Registry) MustRegister(tool *mcp.Tool, handler ToolHandler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// RegisterResource adds a resource and its handler. The URI must be absolute.
func (r *Registry) RegisterResource(resource *mcp.Resource, handler ResourceHandler) error {
	if r.frozen.Load() {
		return errors.ErrRegistryFrozen
	}

	if resource == nil || resource.URI == "" {
		return fmt.Errorf("%w: resource uri is required", errors.ErrInvalidRegistration)
	}

	if handler == nil {
		return fmt.Errorf("%w: resource %q has no handler", errors.ErrInvalidRegistration, resource.URI)
	}

	u, err := url.Parse(resource.URI)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: resource uri %q must be absolute", errors.ErrInvalidRegistration, resource.URI)
	}

	if _, exists := r.resourceHandlers[resource.URI]; exists {
		return &errors.DuplicateResourceURIError{URI: resource.URI}
	}

	r.resources = append(r.resources, resource)
	r.resourceHandlers[resource.URI] = handler

	return nil
}

// List returns the tool descriptors in registration order.
// The returned slice is a copy; the descriptors are shared.
func (r *Registry) List() []*mcp.Tool {
	out := make([]*mcp.Tool, len(r.tools))
	copy(out, r.tools)

	return out
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		names = append(names, t.Name)
	}

	return names
}

// Resolve returns the handler registered for name.
func (r *Registry) Resolve(name string) (ToolHandler, error) {
	h, ok := r.toolHandlers[name]
	if !ok {
		return nil, &errors.ToolNotFoundError{Name: name}
	}

	return h, nil
}

// ListResources returns the resource descriptors in registration order.
func (r *Registry) ListResources() []*mcp.Resource {
	out := make([]*mcp.Resource, len(r.resources))
	copy(out, r.resources)

	return out
}

// ResolveResource returns the handler registered for the exact uri.
func (r *Registry) ResolveResource(uri string) (ResourceHandler, error) {
	h, ok := r.resourceHandlers[uri]
	if !ok {
		return nil, &errors.ResourceNotFoundError{URI: uri}
	}

	return h, nil
}

// Resource returns the descriptor registered for uri, or nil.
func (r *Registry) Resource(uri string) *mcp.Resource {
	for _, res := range r.resources {
		if res.URI == uri {
			return res
		}
	}

	return nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// HasResources reports whether any resource is registered.
func (r *Registry) HasResources() bool {
	return len(r.resources) > 0
}

// Freeze makes the registry read-only. Freezing twice is a no-op.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}
