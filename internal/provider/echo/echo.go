// Package echo is a self-contained demo provider with no upstream data
// source. It is useful for checking that a client can reach the server.
package echo

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/opendata-mcp-go/internal/provider"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
	"github.com/wagiedev/opendata-mcp-go/internal/schema"
)

// Name is the provider identifier.
const Name = "echo"

// Args are the arguments of the echo tool.
type Args struct {
	Text   string `json:"text" jsonschema:"Text to send back"`
	Repeat int    `json:"repeat,omitempty" jsonschema:"How many times to repeat the text (1-10)"`
}

// Provider returns the provider descriptor for the catalog.
func Provider() provider.Provider {
	return provider.Provider{
		Name:        Name,
		Title:       "Echo",
		Description: "Demo provider that echoes its input, for testing client connectivity",
		Build:       NewRegistry,
	}
}

// NewRegistry builds the echo registry.
func NewRegistry(context.Context, provider.Settings) (*registry.Registry, error) {
	binder, err := schema.NewBinder[Args](map[string]schema.Constraint{
		"repeat": {Min: schema.Float(1), Max: schema.Float(10), Default: 1},
	})
	if err != nil {
		return nil, err
	}

	reg := registry.New()

	err = reg.Register(
		registry.NewTool("echo", "Echo the given text back to the caller", binder.Schema()),
		func(_ context.Context, args map[string]any) ([]mcp.Content, error) {
			in, err := binder.Bind(args)
			if err != nil {
				return nil, err
			}

			return []mcp.Content{registry.Text(strings.Repeat(in.Text, in.Repeat))}, nil
		},
	)
	if err != nil {
		return nil, err
	}

	return reg, nil
}
