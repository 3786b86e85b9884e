package odmcp

import "github.com/wagiedev/opendata-mcp-go/internal/errors"

// Re-export error types from internal package

// ODMCPError is the base interface for all server errors.
type ODMCPError = errors.ODMCPError

// DuplicateToolNameError indicates two tools were registered under one name.
type DuplicateToolNameError = errors.DuplicateToolNameError

// DuplicateResourceURIError indicates two resources were registered under one URI.
type DuplicateResourceURIError = errors.DuplicateResourceURIError

// DuplicateProviderError indicates two providers share a name in one catalog.
type DuplicateProviderError = errors.DuplicateProviderError

// ToolNotFoundError indicates a call named a tool that is not registered.
type ToolNotFoundError = errors.ToolNotFoundError

// ResourceNotFoundError indicates a read named a resource that is not registered.
type ResourceNotFoundError = errors.ResourceNotFoundError

// ValidationError indicates tool arguments did not satisfy the input schema.
type ValidationError = errors.ValidationError

// UpstreamError indicates the remote data source call failed.
type UpstreamError = errors.UpstreamError

// Re-export sentinel errors from internal package.
var (
	// ErrRegistryFrozen indicates a registration after serving started.
	ErrRegistryFrozen = errors.ErrRegistryFrozen

	// ErrInvalidRegistration indicates an unusable descriptor or handler.
	ErrInvalidRegistration = errors.ErrInvalidRegistration

	// ErrServerClosed indicates the server was closed while Connect was
	// still binding its transport.
	ErrServerClosed = errors.ErrServerClosed

	// ErrAlreadyConnected indicates the server is already bound to a transport.
	ErrAlreadyConnected = errors.ErrAlreadyConnected

	// ErrUnknownProvider indicates no provider with the requested name exists.
	ErrUnknownProvider = errors.ErrUnknownProvider

	// ErrUnsupportedPlatform indicates desktop setup is unavailable on this OS.
	ErrUnsupportedPlatform = errors.ErrUnsupportedPlatform

	// ErrDesktopNotInstalled indicates the desktop client configuration is missing.
	ErrDesktopNotInstalled = errors.ErrDesktopNotInstalled
)
