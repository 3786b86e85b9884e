package odmcp

import (
	"context"
	"fmt"

	"github.com/wagiedev/opendata-mcp-go/internal/dispatch"
)

// Server serves one or more registries over MCP.
type Server = dispatch.Server

// ServerState is the lifecycle position of a Server.
type ServerState = dispatch.State

// Server lifecycle states.
const (
	StateUninitialized = dispatch.StateUninitialized
	StateInitialized   = dispatch.StateInitialized
	StateServing       = dispatch.StateServing
	StateClosed        = dispatch.StateClosed
)

// Wire error codes reported to clients, besides the JSON-RPC standard ones.
const (
	// CodeUpstreamFailure marks a failed data source call or an unclassified handler error.
	CodeUpstreamFailure = dispatch.CodeUpstreamFailure
)

// NewServer creates a server exposing regs. Registries are merged in order
// and frozen; duplicate tool names across them fail construction.
func NewServer(regs []*Registry, opts ...Option) (*Server, error) {
	options := applyOptions(opts)

	return dispatch.NewServer(options.dispatchOptions(), regs...)
}

// Serve exposes reg over t until the client disconnects or ctx is cancelled.
//
// Example:
//
//	err := odmcp.Serve(ctx, reg, &odmcp.StdioTransport{},
//	    odmcp.WithServerName("weather"),
//	    odmcp.WithLogger(log),
//	)
func Serve(ctx context.Context, reg *Registry, t Transport, opts ...Option) error {
	srv, err := NewServer([]*Registry{reg}, opts...)
	if err != nil {
		return err
	}

	return srv.Serve(ctx, t)
}

// ServeProvider builds the named provider from the catalog and serves it
// over t. The server name defaults to the provider name.
func ServeProvider(ctx context.Context, name string, t Transport, opts ...Option) error {
	srv, err := NewProviderServer(ctx, name, opts...)
	if err != nil {
		return err
	}

	return srv.Serve(ctx, t)
}

// NewProviderServer builds the named provider and wraps it in a Server
// without connecting a transport.
func NewProviderServer(ctx context.Context, name string, opts ...Option) (*Server, error) {
	options := applyOptions(opts)

	reg, err := options.Catalog.Build(ctx, name, options.providerSettings())
	if err != nil {
		return nil, err
	}

	dopts := options.dispatchOptions()
	if dopts.Name == "" {
		dopts.Name = name
	}

	srv, err := dispatch.NewServer(dopts, reg)
	if err != nil {
		return nil, fmt.Errorf("serve provider %q: %w", name, err)
	}

	return srv, nil
}

// DecodeError converts an error returned by an MCP client call against a
// Server back into one of ToolNotFoundError, ResourceNotFoundError,
// ValidationError or UpstreamError. Other errors are returned unchanged.
func DecodeError(err error) error {
	return dispatch.DecodeError(err)
}
