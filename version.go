package odmcp

// Version is the odmcp release, reported to clients during initialize.
// Release builds override it with -ldflags "-X github.com/wagiedev/opendata-mcp-go.Version=...".
var Version = "0.3.0"
