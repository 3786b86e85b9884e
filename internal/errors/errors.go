package errors

import (
	"errors"
	"fmt"
)

// ODMCPError is the base interface for all server errors.
type ODMCPError interface {
	error
	IsODMCPError() bool
}

// Compile-time verification that all error types implement ODMCPError.
var (
	_ ODMCPError = (*DuplicateToolNameError)(nil)
	_ ODMCPError = (*DuplicateResourceURIError)(nil)
	_ ODMCPError = (*DuplicateProviderError)(nil)
	_ ODMCPError = (*ToolNotFoundError)(nil)
	_ ODMCPError = (*ResourceNotFoundError)(nil)
	_ ODMCPError = (*ValidationError)(nil)
	_ ODMCPError = (*UpstreamError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrRegistryFrozen indicates a registration was attempted after the
	// registry was handed to a server.
	ErrRegistryFrozen = errors.New("registry frozen: no registrations after serving starts")

	// ErrInvalidRegistration indicates a descriptor or handler is unusable
	// (empty name or URI, nil handler).
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrServerClosed indicates the server was closed while Connect was
	// still binding its transport.
	ErrServerClosed = errors.New("server closed")

	// ErrAlreadyConnected indicates the server is already bound to a transport.
	// Servers are single-use, create a new one with NewServer().
	ErrAlreadyConnected = errors.New("server already connected to a transport")

	// ErrUnknownProvider indicates no provider with the requested name is known.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnsupportedPlatform indicates the desktop client configuration is
	// not available on the current operating system.
	ErrUnsupportedPlatform = errors.New("unsupported platform: only macOS and Windows are supported")

	// ErrDesktopNotInstalled indicates the desktop client configuration
	// directory or file does not exist.
	ErrDesktopNotInstalled = errors.New("claude desktop configuration not found")
)

// DuplicateToolNameError indicates two tools were registered under one name.
type DuplicateToolNameError struct {
	Name string
}

func (e *DuplicateToolNameError) Error() string {
	return fmt.Sprintf("duplicate tool name %q", e.Name)
}

// IsODMCPError implements ODMCPError.
func (e *DuplicateToolNameError) IsODMCPError() bool { return true }

// DuplicateResourceURIError indicates two resources were registered under one URI.
type DuplicateResourceURIError struct {
	URI string
}

func (e *DuplicateResourceURIError) Error() string {
	return fmt.Sprintf("duplicate resource uri %q", e.URI)
}

// IsODMCPError implements ODMCPError.
func (e *DuplicateResourceURIError) IsODMCPError() bool { return true }

// DuplicateProviderError indicates two providers share a name in one catalog.
type DuplicateProviderError struct {
	Name string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("duplicate provider name %q", e.Name)
}

// IsODMCPError implements ODMCPError.
func (e *DuplicateProviderError) IsODMCPError() bool { return true }

// ToolNotFoundError indicates a call named a tool that is not registered.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// IsODMCPError implements ODMCPError.
func (e *ToolNotFoundError) IsODMCPError() bool { return true }

// ResourceNotFoundError indicates a read named a resource that is not registered.
type ResourceNotFoundError struct {
	URI string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found", e.URI)
}

// IsODMCPError implements ODMCPError.
func (e *ResourceNotFoundError) IsODMCPError() bool { return true }

// ValidationError indicates tool arguments did not satisfy the input schema.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
	}

	return "invalid arguments: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsODMCPError implements ODMCPError.
func (e *ValidationError) IsODMCPError() bool { return true }

// UpstreamError indicates the remote data source call failed.
// StatusCode is zero when no HTTP response was received.
type UpstreamError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("upstream %s returned %d: %v", e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream %s returned %d", e.URL, e.StatusCode)
	case e.URL != "":
		return fmt.Sprintf("upstream %s failed: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("upstream failure: %v", e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsODMCPError implements ODMCPError.
func (e *UpstreamError) IsODMCPError() bool { return true }
