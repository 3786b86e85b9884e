package desktop

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

func entry(provider string) Entry {
	return Entry{Command: "/usr/local/bin/odmcp", Args: []string{"run", provider}}
}

func readDoc(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	return doc
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		home    string
		appData string
		want    string
		wantErr error
	}{
		{
			name: "macOS",
			goos: "darwin",
			home: "/Users/ada",
			want: filepath.Join("/Users/ada", "Library", "Application Support", "Claude", ConfigFileName),
		},
		{
			name:    "windows",
			goos:    "windows",
			appData: "/appdata",
			want:    filepath.Join("/appdata", "Claude", ConfigFileName),
		},
		{name: "windows without APPDATA", goos: "windows", wantErr: errors.ErrDesktopNotInstalled},
		{name: "linux", goos: "linux", home: "/home/ada", wantErr: errors.ErrUnsupportedPlatform},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ConfigPath(tc.goos, tc.home, tc.appData)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSetupCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	require.NoError(t, Setup(path, "ch_sbb", entry("ch_sbb")))

	doc := readDoc(t, path)
	servers := doc["mcpServers"].(map[string]any)
	sbb := servers["ch_sbb"].(map[string]any)
	require.Equal(t, "/usr/local/bin/odmcp", sbb["command"])
	require.Equal(t, []any{"run", "ch_sbb"}, sbb["args"])
}

func TestSetupPreservesOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
  "theme": "dark",
  "mcpServers": {"other": {"command": "other-server", "args": []}}
}`), 0o600))

	require.NoError(t, Setup(path, "echo", entry("echo")))
	require.NoError(t, Setup(path, "echo", Entry{Command: "odmcp", Args: []string{"run", "echo"}}))

	doc := readDoc(t, path)
	require.Equal(t, "dark", doc["theme"])

	entries, err := Entries(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "other-server", entries["other"].Command)
	require.Equal(t, "odmcp", entries["echo"].Command, "setup replaces an existing entry")
}

func TestSetupRequiresConfigDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ConfigFileName)

	err := Setup(path, "echo", entry("echo"))
	require.ErrorIs(t, err, errors.ErrDesktopNotInstalled)
}

func TestSetupRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	require.Error(t, Setup(path, "echo", entry("echo")))
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, Setup(path, "echo", entry("echo")))
	require.NoError(t, Setup(path, "ch_sbb", entry("ch_sbb")))

	removed, err := Remove(path, "echo")
	require.NoError(t, err)
	require.True(t, removed)

	entries, err := Entries(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries, "ch_sbb")

	removed, err = Remove(path, "echo")
	require.NoError(t, err)
	require.False(t, removed, "removing an unconfigured provider is a no-op")
}

func TestRemoveDropsEmptyServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "light"}`), 0o600))
	require.NoError(t, Setup(path, "echo", entry("echo")))

	removed, err := Remove(path, "echo")
	require.NoError(t, err)
	require.True(t, removed)

	doc := readDoc(t, path)
	require.NotContains(t, doc, "mcpServers")
	require.Equal(t, "light", doc["theme"])
}

func TestRemoveRequiresFile(t *testing.T) {
	_, err := Remove(filepath.Join(t.TempDir(), ConfigFileName), "echo")
	require.ErrorIs(t, err, errors.ErrDesktopNotInstalled)
}

func TestEntriesMissingFile(t *testing.T) {
	entries, err := Entries(filepath.Join(t.TempDir(), ConfigFileName))
	require.NoError(t, err)
	require.Empty(t, entries)
}
