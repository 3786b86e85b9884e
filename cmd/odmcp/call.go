package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	odmcp "github.com/wagiedev/opendata-mcp-go"
)

func (a *app) callCmd() *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <provider> <tool>",
		Short: "Call one tool of a provider and print its content",
		Long: "Call one tool of a provider through an in-process MCP session and print the\n" +
			"returned content. Arguments are given as a JSON object.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var toolArgs map[string]any
			if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
				return fmt.Errorf("--args must be a JSON object: %w", err)
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Close()

			name, tool := args[0], args[1]

			reg, err := a.catalog.Build(cmd.Context(), name, providerSettings(cfg, name, log))
			if err != nil {
				return err
			}

			content, err := odmcp.CallTool(cmd.Context(), reg, tool, toolArgs,
				odmcp.WithServerName(name),
				odmcp.WithLogger(log.Logger),
			)
			if err != nil {
				return err
			}

			return printContent(cmd.OutOrStdout(), content)
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "tool arguments as a JSON object")

	return cmd
}

func printContent(w io.Writer, content []odmcp.Content) error {
	for _, c := range content {
		switch c := c.(type) {
		case *odmcp.TextContent:
			fmt.Fprintln(w, c.Text)
		case *odmcp.ImageContent:
			fmt.Fprintf(w, "[image %s, %d bytes]\n", c.MIMEType, len(c.Data))
		case *odmcp.EmbeddedResource:
			if c.Resource == nil {
				continue
			}

			if c.Resource.Text != "" {
				fmt.Fprintln(w, c.Resource.Text)
			} else {
				fmt.Fprintf(w, "[resource %s, %s, %d bytes]\n", c.Resource.URI, c.Resource.MIMEType, len(c.Resource.Blob))
			}
		default:
			data, err := json.Marshal(c)
			if err != nil {
				return fmt.Errorf("failed to render content: %w", err)
			}

			fmt.Fprintln(w, string(data))
		}
	}

	return nil
}
