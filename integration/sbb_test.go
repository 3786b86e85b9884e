//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	odmcp "github.com/wagiedev/opendata-mcp-go"
)

// TestRailwayLines_Live tests a limited, ordered page of railway lines.
func TestRailwayLines_Live(t *testing.T) {
	page := callSBB(t, "railway-lines", map[string]any{
		"select":   "linie,linienname",
		"order_by": "linie",
		"limit":    3,
	})

	require.Greater(t, page["total_count"], 0.0)

	results, ok := page["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 3)

	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	require.Contains(t, first, "linie")
}

// TestRollingStock_Live tests the default page size.
func TestRollingStock_Live(t *testing.T) {
	page := callSBB(t, "rolling-stock", nil)

	results, ok := page["results"].([]any)
	require.True(t, ok)
	require.LessOrEqual(t, len(results), 10)
}

// TestRailTrafficInfo_Live tests the traffic information feed in English.
func TestRailTrafficInfo_Live(t *testing.T) {
	page := callSBB(t, "rail-traffic-info", map[string]any{"lang": "en", "limit": 5})

	require.Contains(t, page, "total_count")
	require.Contains(t, page, "results")
}

// TestValidation_NoNetwork tests that bad arguments are rejected before any request.
func TestValidation_NoNetwork(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reg, err := odmcp.DefaultCatalog().Build(ctx, "ch_sbb", odmcp.ProviderSettings{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = odmcp.CallTool(ctx, reg, "railway-lines", map[string]any{"limit": 1000})

	validation, ok := errors.AsType[*odmcp.ValidationError](err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	require.Equal(t, "limit", validation.Field)
}
