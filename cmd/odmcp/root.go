package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	odmcp "github.com/wagiedev/opendata-mcp-go"
	"github.com/wagiedev/opendata-mcp-go/internal/config"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	logFormat  string
	noColor    bool

	catalog    *odmcp.ProviderCatalog
	executable func() (string, error)
	desktopCfg func() (string, error)
}

func newApp() *app {
	return &app{
		catalog:    odmcp.DefaultCatalog(),
		executable: defaultExecutable,
		desktopCfg: defaultDesktopConfig,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "odmcp",
		Short:         "Serve open data APIs to language model clients over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if a.noColor {
				color.NoColor = true
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to a rotating file instead of stderr")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.runCmd(),
		a.listCmd(),
		a.infoCmd(),
		a.callCmd(),
		a.versionCmd(),
		a.setupCmd(),
		a.removeCmd(),
	)

	return root
}

// loadConfig reads the config file and environment, then applies flags.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}

	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// serverOptions translates cfg into options for the named provider.
func serverOptions(cfg *config.Config, provider string, log *cliLogger) []odmcp.Option {
	pc := cfg.Provider(provider)

	opts := []odmcp.Option{
		odmcp.WithLogger(log.Logger),
		odmcp.WithTimeout(pc.Timeout.Std()),
	}

	if pc.BaseURL != "" {
		opts = append(opts, odmcp.WithBaseURL(pc.BaseURL))
	}

	if pc.UserAgent != "" {
		opts = append(opts, odmcp.WithUserAgent(pc.UserAgent))
	}

	return opts
}

// providerSettings mirrors serverOptions for commands that build a registry
// directly from the catalog.
func providerSettings(cfg *config.Config, provider string, log *cliLogger) odmcp.ProviderSettings {
	pc := cfg.Provider(provider)

	ua := pc.UserAgent
	if ua == "" {
		ua = "odmcp/" + odmcp.Version
	}

	return odmcp.ProviderSettings{
		Logger:    log.Logger,
		BaseURL:   pc.BaseURL,
		Timeout:   pc.Timeout.Std(),
		UserAgent: ua,
	}
}

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprintf(format, args...))
}
