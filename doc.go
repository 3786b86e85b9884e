// Package odmcp serves open data APIs to language model clients over the
// Model Context Protocol (MCP).
//
// A server exposes a fixed registry of tools (and optionally resources).
// Clients list the tools with their input schemas and call them by name;
// the server validates arguments, invokes the handler, and returns its
// content. Handler failures are isolated to the request and reported as
// structured JSON-RPC errors, so one bad call never stops the server.
//
// # Serving a Provider
//
// Providers package the tools for one data source. The built-in catalog
// contains the Swiss Federal Railways data ("ch_sbb") and a demo "echo"
// provider:
//
//	ctx := context.Background()
//	err := odmcp.ServeProvider(ctx, "ch_sbb", &odmcp.StdioTransport{},
//	    odmcp.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
//	)
//
// Never log to stdout when serving over stdio: stdout carries the protocol.
//
// # Custom Tools
//
// Build a registry, register tools in the order they should be listed, and
// serve it. Registration closes when the server is created.
//
//	type weatherArgs struct {
//	    City string `json:"city" jsonschema:"City name"`
//	    Days int    `json:"days,omitempty" jsonschema:"Forecast length"`
//	}
//
//	binder, _ := odmcp.NewBinder[weatherArgs](map[string]odmcp.Constraint{
//	    "days": {Min: odmcp.Float(1), Max: odmcp.Float(7), Default: 3},
//	})
//
//	reg := odmcp.NewRegistry()
//	reg.MustRegister(
//	    odmcp.NewTool("forecast", "Weather forecast for a city", binder.Schema()),
//	    func(ctx context.Context, args map[string]any) ([]odmcp.Content, error) {
//	        in, err := binder.Bind(args)
//	        if err != nil {
//	            return nil, err // reported as a validation error
//	        }
//	        return []odmcp.Content{odmcp.Text(forecast(in.City, in.Days))}, nil
//	    },
//	)
//
//	err := odmcp.Serve(ctx, reg, &odmcp.StdioTransport{})
//
// # Errors
//
// Handlers signal failures by returning errors. ValidationError and
// UpstreamError are reported with their own wire codes; anything else is
// reported as an upstream failure. Clients can recover the typed error
// with DecodeError.
//
// # In-process Sessions
//
// WithSession and CallTool drive a Server through a real MCP client over
// in-memory transports, which is convenient for tests and command line
// tooling.
package odmcp
