// Package errors defines error types for the open data MCP server.
//
// This package provides structured error types for the failure scenarios
// of tool registration and request dispatch. All error types support
// error unwrapping and can be checked using errors.Is and errors.As.
package errors
