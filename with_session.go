package odmcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientSession is an MCP client connection to a Server.
type ClientSession = mcp.ClientSession

// WithSession connects an in-process MCP client to srv, runs fn, and closes
// both ends when fn returns.
//
// The client and server talk over in-memory transports, so fn exercises
// exactly the request path a remote client would: initialize handshake,
// routing, argument validation and error translation.
//
// If Close fails, a warning is logged but does not override fn's error.
//
// Example usage:
//
//	err := odmcp.WithSession(ctx, srv, func(cs *odmcp.ClientSession) error {
//	    res, err := cs.CallTool(ctx, &mcp.CallToolParams{
//	        Name:      "railway-lines",
//	        Arguments: map[string]any{"limit": 5},
//	    })
//	    if err != nil {
//	        return odmcp.DecodeError(err)
//	    }
//	    // process res.Content...
//	    return nil
//	})
func WithSession(ctx context.Context, srv *Server, fn func(*ClientSession) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)
	log := options.Logger

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	if err := srv.Connect(ctx, serverTransport); err != nil {
		return fmt.Errorf("failed to connect server: %w", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "odmcp-client", Version: options.Version}, nil)

	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		_ = srv.Close()

		return fmt.Errorf("failed to connect client: %w", err)
	}

	defer func() {
		if closeErr := cs.Close(); closeErr != nil {
			log.Warn("failed to close client session", "error", closeErr)
		}

		if waitErr := srv.Wait(); waitErr != nil {
			log.Warn("server session ended with error", "error", waitErr)
		}
	}()

	return fn(cs)
}

// CallTool serves reg in-process, calls one tool and returns its content.
// Failures are decoded into the package's error types.
func CallTool(ctx context.Context, reg *Registry, name string, args map[string]any, opts ...Option) ([]Content, error) {
	srv, err := NewServer([]*Registry{reg}, opts...)
	if err != nil {
		return nil, err
	}

	var content []Content

	err = WithSession(ctx, srv, func(cs *ClientSession) error {
		content, err = CallSession(ctx, cs, name, args)

		return err
	}, opts...)

	return content, err
}

// CallSession calls one tool over an open session and returns its content.
// Failures are decoded into the package's error types.
func CallSession(ctx context.Context, cs *ClientSession, name string, args map[string]any) ([]Content, error) {
	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, DecodeError(err)
	}

	return res.Content, nil
}
