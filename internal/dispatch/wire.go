package dispatch

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

// CodeUpstreamFailure is the JSON-RPC error code for failed data source calls
// and for any handler failure that is not otherwise classified.
const CodeUpstreamFailure = -32001

// Error kinds carried in the data member of a JSON-RPC error.
const (
	KindToolNotFound     = "tool_not_found"
	KindResourceNotFound = "resource_not_found"
	KindValidation       = "validation"
	KindUpstreamFailure  = "upstream_failure"
)

// ErrorData is the structured payload attached to every error response.
type ErrorData struct {
	Kind   string `json:"kind"`
	Tool   string `json:"tool,omitempty"`
	URI    string `json:"uri,omitempty"`
	Field  string `json:"field,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// classify maps a handler or lookup failure onto the error taxonomy.
// Anything unrecognized becomes an upstream failure.
func classify(err error) error {
	var (
		notFound    *errors.ToolNotFoundError
		resNotFound *errors.ResourceNotFoundError
		validation  *errors.ValidationError
		upstream    *errors.UpstreamError
	)

	switch {
	case stderrors.As(err, &notFound),
		stderrors.As(err, &resNotFound),
		stderrors.As(err, &validation),
		stderrors.As(err, &upstream):
		return err
	default:
		return &errors.UpstreamError{Err: err}
	}
}

// toWireError translates a classified error into a JSON-RPC error response.
// tool and uri identify the request target and may be empty.
func toWireError(err error, tool, uri string) *jsonrpc.Error {
	err = classify(err)

	var (
		code int64
		data = ErrorData{Tool: tool, URI: uri}

		notFound    *errors.ToolNotFoundError
		resNotFound *errors.ResourceNotFoundError
		validation  *errors.ValidationError
		upstream    *errors.UpstreamError
	)

	switch {
	case stderrors.As(err, &notFound):
		code = jsonrpc.CodeInvalidParams
		data.Kind = KindToolNotFound
		data.Tool = notFound.Name
	case stderrors.As(err, &resNotFound):
		code = mcp.CodeResourceNotFound
		data.Kind = KindResourceNotFound
		data.URI = resNotFound.URI
	case stderrors.As(err, &validation):
		code = jsonrpc.CodeInvalidParams
		data.Kind = KindValidation
		data.Field = validation.Field
		data.Detail = validation.Reason
	case stderrors.As(err, &upstream):
		code = CodeUpstreamFailure
		data.Kind = KindUpstreamFailure
		data.Status = upstream.StatusCode
		data.Detail = upstream.Body
	}

	raw, mErr := json.Marshal(data)
	if mErr != nil {
		raw = nil
	}

	return &jsonrpc.Error{
		Code:    code,
		Message: err.Error(),
		Data:    raw,
	}
}

// DecodeError converts an error returned by an MCP client call back into
// the server's error taxonomy. Errors that do not carry ErrorData are
// returned unchanged.
func DecodeError(err error) error {
	var wire *jsonrpc.Error
	if !stderrors.As(err, &wire) || len(wire.Data) == 0 {
		return err
	}

	var data ErrorData
	if json.Unmarshal(wire.Data, &data) != nil {
		return err
	}

	switch data.Kind {
	case KindToolNotFound:
		return &errors.ToolNotFoundError{Name: data.Tool}
	case KindResourceNotFound:
		return &errors.ResourceNotFoundError{URI: data.URI}
	case KindValidation:
		return &errors.ValidationError{Field: data.Field, Reason: data.Detail, Err: wire}
	case KindUpstreamFailure:
		return &errors.UpstreamError{
			StatusCode: data.Status,
			Body:       data.Detail,
			Err:        fmt.Errorf("%s", wire.Message),
		}
	default:
		return err
	}
}
