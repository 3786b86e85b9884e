package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	odmcp "github.com/wagiedev/opendata-mcp-go"
	"github.com/wagiedev/opendata-mcp-go/internal/config"
	"github.com/wagiedev/opendata-mcp-go/internal/desktop"
)

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true

	root := a.rootCmd()

	var out, errOut bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, newApp(), "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "odmcp "+odmcp.Version+" "))
}

func TestList(t *testing.T) {
	out, err := execute(t, newApp(), "list")
	require.NoError(t, err)
	require.Contains(t, out, "ch_sbb")
	require.Contains(t, out, "echo")
	require.Less(t, strings.Index(out, "ch_sbb"), strings.Index(out, "echo"))
}

func TestInfo(t *testing.T) {
	t.Run("echo", func(t *testing.T) {
		out, err := execute(t, newApp(), "info", "echo")
		require.NoError(t, err)
		require.Contains(t, out, "Echo (echo)")
		require.Contains(t, out, "text string required  Text to send back")
		require.Contains(t, out, "repeat integer")
		require.NotContains(t, out, "Resources")
	})

	t.Run("ch_sbb", func(t *testing.T) {
		out, err := execute(t, newApp(), "info", "ch_sbb")
		require.NoError(t, err)
		require.Contains(t, out, "rail-traffic-info")
		require.Contains(t, out, "railway-lines")
		require.Contains(t, out, "rolling-stock")
		require.Contains(t, out, "odmcp://ch_sbb/datasets")
		require.Contains(t, out, "string|null")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := execute(t, newApp(), "info", "nope")
		require.ErrorIs(t, err, odmcp.ErrUnknownProvider)
	})
}

func TestCall(t *testing.T) {
	t.Run("echo", func(t *testing.T) {
		out, err := execute(t, newApp(), "call", "echo", "echo", "--args", `{"text": "ab", "repeat": 2}`)
		require.NoError(t, err)
		require.Equal(t, "abab\n", out)
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := execute(t, newApp(), "call", "echo", "echo", "--args", `{"text": "ab", "repeat": 50}`)

		var validation *odmcp.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := execute(t, newApp(), "call", "echo", "shout")

		var notFound *odmcp.ToolNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("args must be an object", func(t *testing.T) {
		_, err := execute(t, newApp(), "call", "echo", "echo", "--args", `[1, 2]`)
		require.ErrorContains(t, err, "--args must be a JSON object")
	})
}

func TestCall_ProviderConfig(t *testing.T) {
	var gotPath atomic.Value

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		_, _ = io.WriteString(w, `{"total_count": 1, "results": [{}]}`)
	}))
	defer upstream.Close()

	cfgPath := filepath.Join(t.TempDir(), "odmcp.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"log_level: error\nproviders:\n  ch_sbb:\n    base_url: "+upstream.URL+"\n    timeout: 5s\n",
	), 0o600))

	out, err := execute(t, newApp(), "call", "ch_sbb", "rolling-stock", "--config", cfgPath, "--args", `{"limit": 1}`)
	require.NoError(t, err)
	require.Contains(t, out, `"total_count": 1`)
	require.Equal(t, "/catalog/datasets/rollmaterial/records", gotPath.Load())
}

func TestCall_InvalidConfig(t *testing.T) {
	_, err := execute(t, newApp(), "call", "echo", "echo", "--log-level", "loud")
	require.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown transport", func(t *testing.T) {
		_, err := execute(t, newApp(), "run", "echo", "--transport", "carrier-pigeon")
		require.ErrorContains(t, err, "unsupported transport")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := execute(t, newApp(), "run", "nope", "--log-level", "error")
		require.ErrorIs(t, err, odmcp.ErrUnknownProvider)
	})

	t.Run("missing provider", func(t *testing.T) {
		_, err := execute(t, newApp(), "run")
		require.Error(t, err)
	})
}

func TestServeHTTP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := odmcp.NewProviderServer(ctx, "echo")
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)

	go func() {
		done <- serveHTTP(ctx, odmcp.NopLogger(), srv, ln)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: "http://" + ln.Addr().String()}, nil)
	require.NoError(t, err)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"text": "over http"},
	})
	require.NoError(t, err)
	require.Equal(t, "over http", res.Content[0].(*mcp.TextContent).Text)

	require.NoError(t, cs.Close())

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serveHTTP did not return after cancellation")
	}

	require.Equal(t, odmcp.StateClosed, srv.State())
}

func TestSetupRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), desktop.ConfigFileName)

	a := newApp()
	a.executable = func() (string, error) { return "/usr/local/bin/odmcp", nil }
	a.desktopCfg = func() (string, error) { return path, nil }

	out, err := execute(t, a, "setup", "echo")
	require.NoError(t, err)
	require.Contains(t, out, "registered echo")

	entries, err := desktop.Entries(path)
	require.NoError(t, err)
	require.Equal(t, desktop.Entry{Command: "/usr/local/bin/odmcp", Args: []string{"run", "echo"}}, entries["echo"])

	out, err = execute(t, a, "remove", "echo")
	require.NoError(t, err)
	require.Contains(t, out, "removed echo")

	entries, err = desktop.Entries(path)
	require.NoError(t, err)
	require.Empty(t, entries)

	out, err = execute(t, a, "remove", "echo")
	require.NoError(t, err)
	require.Contains(t, out, "not registered")
}

func TestSetup_WithConfigAndOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, desktop.ConfigFileName)

	cfgPath := filepath.Join(dir, "odmcp.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level = \"warn\"\n"), 0o600))

	a := newApp()
	a.executable = func() (string, error) { return "odmcp", nil }
	a.desktopCfg = func() (string, error) {
		t.Fatal("platform path must not be consulted when --desktop-config is set")

		return "", nil
	}

	_, err := execute(t, a, "setup", "ch_sbb", "--config", cfgPath, "--desktop-config", path)
	require.NoError(t, err)

	entries, err := desktop.Entries(path)
	require.NoError(t, err)
	require.Equal(t, []string{"run", "ch_sbb", "--config", cfgPath}, entries["ch_sbb"].Args)
}

func TestSetup_Errors(t *testing.T) {
	a := newApp()
	a.desktopCfg = func() (string, error) {
		return filepath.Join(t.TempDir(), "missing", desktop.ConfigFileName), nil
	}

	_, err := execute(t, a, "setup", "nope")
	require.ErrorIs(t, err, odmcp.ErrUnknownProvider)

	_, err = execute(t, a, "setup", "echo")
	require.ErrorIs(t, err, odmcp.ErrDesktopNotInstalled)

	_, err = execute(t, a, "remove", "echo")
	require.ErrorIs(t, err, odmcp.ErrDesktopNotInstalled)
}

func TestNewLogger(t *testing.T) {
	t.Run("json to stderr", func(t *testing.T) {
		cfg := config.Default()
		cfg.LogFormat = config.LogFormatJSON

		var buf bytes.Buffer

		log, err := newLogger(cfg, &buf)
		require.NoError(t, err)

		log.Debug("hidden")
		log.Info("shown", "k", "v")
		require.NoError(t, log.Close())

		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), `"msg":"shown"`)
		require.Contains(t, buf.String(), `"k":"v"`)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.LogLevel = "debug"
		cfg.LogFile = filepath.Join(t.TempDir(), "odmcp.log")

		var buf bytes.Buffer

		log, err := newLogger(cfg, &buf)
		require.NoError(t, err)

		log.Debug("to file")
		require.NoError(t, log.Close())

		require.Empty(t, buf.String())

		data, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		require.Contains(t, string(data), "msg=\"to file\"")
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := config.Default()
		cfg.LogLevel = "loud"

		_, err := newLogger(cfg, io.Discard)
		require.Error(t, err)
	})
}
