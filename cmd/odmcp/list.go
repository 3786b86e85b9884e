package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			heading(out, "Providers")

			for _, p := range a.catalog.List() {
				fmt.Fprintf(out, "  %s  %s\n", color.GreenString("%-10s", p.Name), p.Title)
				fmt.Fprintf(out, "  %-10s  %s\n", "", color.HiBlackString(p.Description))
			}

			return nil
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <provider>",
		Short: "Show the tools and resources of a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Close()

			name := args[0]

			p, err := a.catalog.Lookup(name)
			if err != nil {
				return err
			}

			reg, err := a.catalog.Build(cmd.Context(), name, providerSettings(cfg, name, log))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			heading(out, "%s (%s)", p.Title, p.Name)
			fmt.Fprintln(out, p.Description)
			fmt.Fprintln(out)

			heading(out, "Tools")

			for _, tool := range reg.List() {
				fmt.Fprintf(out, "  %s  %s\n", color.GreenString(tool.Name), tool.Description)

				if s, ok := tool.InputSchema.(*jsonschema.Schema); ok {
					for _, line := range describeParams(s) {
						fmt.Fprintf(out, "      %s\n", line)
					}
				}
			}

			if resources := reg.ListResources(); len(resources) > 0 {
				fmt.Fprintln(out)
				heading(out, "Resources")

				for _, r := range resources {
					fmt.Fprintf(out, "  %s  %s\n", color.GreenString(r.URI), r.Description)
				}
			}

			return nil
		},
	}
}

// describeParams renders one line per schema property, sorted by name.
func describeParams(s *jsonschema.Schema) []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}

	slices.Sort(names)

	lines := make([]string, 0, len(names))

	for _, name := range names {
		prop := s.Properties[name]

		var b strings.Builder

		b.WriteString(name)

		if typ := propType(prop); typ != "" {
			b.WriteString(" " + color.HiBlackString(typ))
		}

		if slices.Contains(s.Required, name) {
			b.WriteString(" " + color.YellowString("required"))
		}

		if prop.Description != "" {
			b.WriteString("  " + prop.Description)
		}

		lines = append(lines, b.String())
	}

	return lines
}

func propType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}

	return strings.Join(s.Types, "|")
}
