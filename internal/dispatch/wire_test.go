package dispatch

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToWireError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		tool     string
		uri      string
		wantCode int64
		wantData ErrorData
	}{
		{
			name:     "tool not found",
			err:      &errors.ToolNotFoundError{Name: "nope"},
			wantCode: jsonrpc.CodeInvalidParams,
			wantData: ErrorData{Kind: KindToolNotFound, Tool: "nope"},
		},
		{
			name:     "resource not found",
			err:      &errors.ResourceNotFoundError{URI: "odmcp://x/y"},
			uri:      "odmcp://x/y",
			wantCode: mcp.CodeResourceNotFound,
			wantData: ErrorData{Kind: KindResourceNotFound, URI: "odmcp://x/y"},
		},
		{
			name:     "validation",
			err:      &errors.ValidationError{Field: "limit", Reason: "maximum: 500 exceeds 100"},
			tool:     "railway-lines",
			wantCode: jsonrpc.CodeInvalidParams,
			wantData: ErrorData{
				Kind:   KindValidation,
				Tool:   "railway-lines",
				Field:  "limit",
				Detail: "maximum: 500 exceeds 100",
			},
		},
		{
			name:     "wrapped upstream",
			err:      fmt.Errorf("fetch lines: %w", &errors.UpstreamError{StatusCode: 502, Body: "bad gateway"}),
			tool:     "railway-lines",
			wantCode: CodeUpstreamFailure,
			wantData: ErrorData{
				Kind:   KindUpstreamFailure,
				Tool:   "railway-lines",
				Status: 502,
				Detail: "bad gateway",
			},
		},
		{
			name:     "unclassified",
			err:      stderrors.New("boom"),
			tool:     "echo",
			wantCode: CodeUpstreamFailure,
			wantData: ErrorData{Kind: KindUpstreamFailure, Tool: "echo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := toWireError(tt.err, tt.tool, tt.uri)
			require.Equal(t, tt.wantCode, wire.Code)
			require.NotEmpty(t, wire.Message)

			var data ErrorData
			require.NoError(t, json.Unmarshal(wire.Data, &data))
			require.Equal(t, tt.wantData, data)
		})
	}
}

func TestDecodeError(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		wire := toWireError(&errors.ValidationError{Field: "lang", Reason: "not in enum"}, "rail-traffic-info", "")

		var validation *errors.ValidationError
		require.ErrorAs(t, DecodeError(fmt.Errorf("calling %q: %w", "tools/call", wire)), &validation)
		require.Equal(t, "lang", validation.Field)
		require.Equal(t, "not in enum", validation.Reason)
	})

	t.Run("no data", func(t *testing.T) {
		err := &jsonrpc.Error{Code: jsonrpc.CodeMethodNotFound, Message: "nope"}
		require.Same(t, err, DecodeError(err))
	})

	t.Run("not a wire error", func(t *testing.T) {
		err := stderrors.New("plain")
		require.Equal(t, err, DecodeError(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := &jsonrpc.Error{Code: 1, Message: "x", Data: json.RawMessage(`{"kind":"other"}`)}
		require.Equal(t, error(err), DecodeError(err))
	})
}

func TestStateString(t *testing.T) {
	require.Equal(t, "uninitialized", StateUninitialized.String())
	require.Equal(t, "initialized", StateInitialized.String())
	require.Equal(t, "serving", StateServing.String())
	require.Equal(t, "closed", StateClosed.String())
	require.Equal(t, "unknown", State(42).String())
}
