package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wagiedev/opendata-mcp-go/internal/desktop"
)

func defaultExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate odmcp binary: %w", err)
	}

	return filepath.EvalSymlinks(exe)
}

func defaultDesktopConfig() (string, error) {
	return desktop.DefaultConfigPath()
}

// desktopPath returns the --desktop-config override or the platform default.
func (a *app) desktopPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	return a.desktopCfg()
}

func (a *app) setupCmd() *cobra.Command {
	var desktopConfig string

	cmd := &cobra.Command{
		Use:   "setup <provider>",
		Short: "Register a provider with the Claude Desktop client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if _, err := a.catalog.Lookup(name); err != nil {
				return err
			}

			path, err := a.desktopPath(desktopConfig)
			if err != nil {
				return err
			}

			exe, err := a.executable()
			if err != nil {
				return err
			}

			entry := desktop.Entry{Command: exe, Args: []string{"run", name}}

			if a.configPath != "" {
				abs, err := filepath.Abs(a.configPath)
				if err != nil {
					return err
				}

				entry.Args = append(entry.Args, "--config", abs)
			}

			if err := desktop.Setup(path, name, entry); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s registered %s in %s\n", color.GreenString("✓"), name, path)
			fmt.Fprintln(cmd.OutOrStdout(), "Restart the desktop client to load it.")

			return nil
		},
	}

	cmd.Flags().StringVar(&desktopConfig, "desktop-config", "", "path of "+desktop.ConfigFileName+" (default: platform location)")

	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	var desktopConfig string

	cmd := &cobra.Command{
		Use:   "remove <provider>",
		Short: "Unregister a provider from the Claude Desktop client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			path, err := a.desktopPath(desktopConfig)
			if err != nil {
				return err
			}

			removed, err := desktop.Remove(path, name)
			if err != nil {
				return err
			}

			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is not registered in %s\n", color.YellowString("!"), name, path)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s removed %s from %s\n", color.GreenString("✓"), name, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&desktopConfig, "desktop-config", "", "path of "+desktop.ConfigFileName+" (default: platform location)")

	return cmd
}
