package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	odmcp "github.com/wagiedev/opendata-mcp-go"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the odmcp version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "odmcp %s (%s %s/%s)\n",
				odmcp.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
