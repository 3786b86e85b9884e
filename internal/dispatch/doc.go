// Package dispatch serves a tool registry over the Model Context Protocol.
//
// A Server binds one or more frozen registries to a go-sdk mcp.Server and
// answers list and call requests for tools, and list and read requests for
// resources when any are registered. It knows nothing about what the tools
// do: its only logic is lookup, invoke, and translate failures into
// structured JSON-RPC errors.
//
// The Server handles:
//   - Truthful capability advertisement during the initialize handshake
//   - Listing tools and resources in registration order
//   - Per-call correlation ids (ULID) for logging
//   - Isolation of handler failures and panics to a single request
//   - Lifecycle tracking (Uninitialized, Initialized, Serving, Closed)
//
// Example usage:
//
//	reg := registry.New()
//	reg.MustRegister(registry.NewTool("echo", "Echo", nil), echoHandler)
//
//	srv, err := dispatch.NewServer(dispatch.Options{Name: "demo", Logger: log}, reg)
//	if err != nil {
//	    return err
//	}
//
//	return srv.Serve(ctx, &mcp.StdioTransport{})
package dispatch
