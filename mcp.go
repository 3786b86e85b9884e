package odmcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/opendata-mcp-go/internal/registry"
	"github.com/wagiedev/opendata-mcp-go/internal/schema"
)

// Re-export MCP SDK types for public API.
// These are the official MCP protocol types.
type (
	// Tool describes a tool offered to clients.
	Tool = mcp.Tool

	// Resource describes a readable resource offered to clients.
	Resource = mcp.Resource

	// Content is the interface for content blocks in tool results.
	Content = mcp.Content

	// TextContent is a text content block.
	TextContent = mcp.TextContent

	// ImageContent is a base64 image content block.
	ImageContent = mcp.ImageContent

	// EmbeddedResource is a resource embedded in a tool result.
	EmbeddedResource = mcp.EmbeddedResource

	// Transport is a bidirectional MCP message channel.
	Transport = mcp.Transport

	// StdioTransport serves over the process's stdin and stdout.
	StdioTransport = mcp.StdioTransport

	// Schema is a JSON Schema document.
	Schema = jsonschema.Schema
)

// Registry is an ordered collection of tools and resources with their handlers.
type Registry = registry.Registry

// ToolHandler executes a tool call with decoded arguments.
type ToolHandler = registry.ToolHandler

// ResourceHandler reads the raw payload of a resource.
type ResourceHandler = registry.ResourceHandler

// Constraint narrows an inferred property schema (bounds, default, enum, pattern).
type Constraint = schema.Constraint

// NewRegistry creates an empty registry.
//
// Example:
//
//	reg := odmcp.NewRegistry()
//	reg.MustRegister(
//	    odmcp.NewTool("echo", "Echo the input", odmcp.SimpleSchema(map[string]string{"text": "string"})),
//	    func(ctx context.Context, args map[string]any) ([]odmcp.Content, error) {
//	        return []odmcp.Content{odmcp.Text(args["text"].(string))}, nil
//	    },
//	)
func NewRegistry() *Registry {
	return registry.New()
}

// NewTool creates a tool descriptor. A nil schema accepts any object.
func NewTool(name, description string, inputSchema *Schema) *Tool {
	return registry.NewTool(name, description, inputSchema)
}

// NewResource creates a resource descriptor.
func NewResource(uri, name, description, mimeType string) *Resource {
	return registry.NewResource(uri, name, description, mimeType)
}

// Text creates a text content block.
func Text(text string) Content {
	return registry.Text(text)
}

// Image creates an image content block.
func Image(data []byte, mimeType string) Content {
	return registry.Image(data, mimeType)
}

// JSONText renders v as indented JSON text content.
func JSONText(v any) (Content, error) {
	return registry.JSONText(v)
}

// SimpleSchema creates an object schema from a map of property names to Go
// type names ("string", "int", "float64", "bool", "[]string", ...).
// All properties are required.
func SimpleSchema(props map[string]string) *Schema {
	return schema.SimpleSchema(props)
}

// InferSchema derives an input schema from the struct T and applies
// constraints keyed by JSON property name.
func InferSchema[T any](constraints map[string]Constraint) (*Schema, error) {
	return schema.For[T](constraints)
}

// Binder validates call arguments against an inferred schema and decodes
// them into T.
type Binder[T any] = schema.Binder[T]

// NewBinder creates a Binder for T.
func NewBinder[T any](constraints map[string]Constraint) (*Binder[T], error) {
	return schema.NewBinder[T](constraints)
}

// Float returns a pointer to f, for Constraint bounds.
func Float(f float64) *float64 {
	return schema.Float(f)
}
