// Package desktop registers providers in the Claude Desktop client
// configuration file (claude_desktop_config.json).
//
// The file lives in "~/Library/Application Support/Claude" on macOS and in
// "%APPDATA%/Claude" on Windows. Other platforms are not supported. Keys
// other than the edited mcpServers entry are preserved.
package desktop

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

// ConfigFileName is the desktop client configuration file name.
const ConfigFileName = "claude_desktop_config.json"

const serversKey = "mcpServers"

// Entry is the launch command stored for one MCP server.
type Entry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// ConfigPath returns the configuration file location for goos.
// home is the user's home directory and appData the APPDATA directory.
func ConfigPath(goos, home, appData string) (string, error) {
	switch goos {
	case "darwin":
		if home == "" {
			return "", fmt.Errorf("%w: home directory unknown", errors.ErrDesktopNotInstalled)
		}

		return filepath.Join(home, "Library", "Application Support", "Claude", ConfigFileName), nil
	case "windows":
		if appData == "" {
			return "", fmt.Errorf("%w: APPDATA is not set", errors.ErrDesktopNotInstalled)
		}

		return filepath.Join(appData, "Claude", ConfigFileName), nil
	default:
		return "", fmt.Errorf("%w (running on %s)", errors.ErrUnsupportedPlatform, goos)
	}
}

// DefaultConfigPath returns the configuration file location on this machine.
func DefaultConfigPath() (string, error) {
	home, _ := os.UserHomeDir()

	return ConfigPath(runtime.GOOS, home, os.Getenv("APPDATA"))
}

// Setup adds or replaces the server entry called name. The configuration
// directory must exist; the file is created when missing.
func Setup(path, name string, entry Entry) error {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: couldn't find configuration directory %s, is Claude Desktop installed?",
			errors.ErrDesktopNotInstalled, filepath.Dir(path))
	}

	doc, err := read(path, true)
	if err != nil {
		return err
	}

	servers, err := serversOf(doc)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	servers[name] = raw

	if doc[serversKey], err = json.Marshal(servers); err != nil {
		return err
	}

	return write(path, doc)
}

// Remove deletes the server entry called name and drops mcpServers once it
// is empty. It reports whether an entry was removed.
func Remove(path, name string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, fmt.Errorf("%w: couldn't find %s, is Claude Desktop installed?",
			errors.ErrDesktopNotInstalled, path)
	}

	doc, err := read(path, false)
	if err != nil {
		return false, err
	}

	servers, err := serversOf(doc)
	if err != nil {
		return false, err
	}

	if _, ok := servers[name]; !ok {
		return false, nil
	}

	delete(servers, name)

	if len(servers) == 0 {
		delete(doc, serversKey)
	} else if doc[serversKey], err = json.Marshal(servers); err != nil {
		return false, err
	}

	return true, write(path, doc)
}

// Entries returns the configured servers keyed by name. A missing file
// yields an empty map.
func Entries(path string) (map[string]Entry, error) {
	doc, err := read(path, true)
	if err != nil {
		return nil, err
	}

	servers, err := serversOf(doc)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Entry, len(servers))

	for name, raw := range servers {
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode %s entry %q: %w", serversKey, name, err)
		}

		out[name] = e
	}

	return out, nil
}

func read(path string, allowMissing bool) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := map[string]json.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc == nil {
		doc = map[string]json.RawMessage{}
	}

	return doc, nil
}

func serversOf(doc map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	servers := map[string]json.RawMessage{}

	raw, ok := doc[serversKey]
	if !ok || string(raw) == "null" {
		return servers, nil
	}

	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", serversKey, err)
	}

	return servers, nil
}

// write replaces path atomically so a crash never leaves a truncated file.
func write(path string, doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".claude_desktop_config-*.json")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()

		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
