package registry

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewTool creates an mcp.Tool with the given parameters.
// A nil inputSchema is replaced by an empty object schema.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	if inputSchema == nil {
		inputSchema = &jsonschema.Schema{Type: "object"}
	}

	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}

// NewResource creates an mcp.Resource with the given parameters.
func NewResource(uri, name, description, mimeType string) *mcp.Resource {
	return &mcp.Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    mimeType,
	}
}

// Text creates a text content item.
func Text(text string) mcp.Content {
	return &mcp.TextContent{Text: text}
}

// Image creates an image content item.
func Image(data []byte, mimeType string) mcp.Content {
	return &mcp.ImageContent{Data: data, MIMEType: mimeType}
}

// EmbeddedText creates an embedded resource carrying inline text.
func EmbeddedText(uri, mimeType, text string) mcp.Content {
	return &mcp.EmbeddedResource{
		Resource: &mcp.ResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		},
	}
}

// EmbeddedBlob creates an embedded resource carrying inline binary data.
func EmbeddedBlob(uri, mimeType string, data []byte) mcp.Content {
	return &mcp.EmbeddedResource{
		Resource: &mcp.ResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Blob:     data,
		},
	}
}

// JSONText renders v as indented JSON text content.
func JSONText(v any) (mcp.Content, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return Text(string(data)), nil
}
