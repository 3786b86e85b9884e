// Package config provides configuration for the odmcp server.
package config

import "fmt"

// Transport is the channel the MCP server is exposed on.
type Transport string

const (
	// TransportStdio serves a single client over stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves clients over the streamable HTTP transport.
	TransportHTTP Transport = "http"
)

// DefaultHTTPAddr is the listen address used by the HTTP transport when none is configured.
const DefaultHTTPAddr = "127.0.0.1:8080"

// Validate reports whether t names a supported transport.
func (t Transport) Validate() error {
	switch t {
	case TransportStdio, TransportHTTP:
		return nil
	default:
		return fmt.Errorf("unsupported transport %q: must be %q or %q", string(t), TransportStdio, TransportHTTP)
	}
}

func (t Transport) String() string {
	return string(t)
}
