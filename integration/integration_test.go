//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	odmcp "github.com/wagiedev/opendata-mcp-go"
)

// skipIfOffline skips the test if the error indicates the data source is unreachable.
func skipIfOffline(t *testing.T, err error) {
	t.Helper()

	upstream, ok := errors.AsType[*odmcp.UpstreamError](err)
	if !ok || upstream.StatusCode != 0 {
		return
	}

	if _, ok := errors.AsType[net.Error](upstream); ok {
		t.Skipf("data.sbb.ch unreachable: %v", err)
	}

	t.Skipf("data.sbb.ch request failed without a response: %v", err)
}

// callSBB calls one ch_sbb tool against the live API.
func callSBB(t *testing.T, tool string, args map[string]any) map[string]any {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	srv, err := odmcp.NewProviderServer(ctx, "ch_sbb", odmcp.WithTimeout(30*time.Second))
	require.NoError(t, err)

	var content []odmcp.Content

	err = odmcp.WithSession(ctx, srv, func(cs *odmcp.ClientSession) error {
		content, err = odmcp.CallSession(ctx, cs, tool, args)

		return err
	})
	skipIfOffline(t, err)
	require.NoError(t, err)
	require.Len(t, content, 1)

	text, ok := content[0].(*odmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", content[0])

	var page map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &page))

	return page
}
