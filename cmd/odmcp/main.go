// Command odmcp serves open data providers to MCP clients.
//
// Usage:
//
//	odmcp list                      # show the available providers
//	odmcp info ch_sbb               # show a provider's tools
//	odmcp run ch_sbb                # serve over stdio
//	odmcp run ch_sbb --transport http --addr 127.0.0.1:8080
//	odmcp call echo echo --args '{"text": "hi"}'
//	odmcp setup ch_sbb              # register with the desktop client
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newApp().rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
