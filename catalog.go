package odmcp

import (
	"github.com/wagiedev/opendata-mcp-go/internal/provider"
	"github.com/wagiedev/opendata-mcp-go/internal/provider/chsbb"
	"github.com/wagiedev/opendata-mcp-go/internal/provider/echo"
)

// Provider describes one servable data source.
type Provider = provider.Provider

// ProviderSettings carries the runtime configuration handed to a provider.
type ProviderSettings = provider.Settings

// ProviderCatalog is an ordered set of providers with unique names.
type ProviderCatalog = provider.Catalog

// NewCatalog creates a catalog from providers in the given order.
// Duplicate names fail with DuplicateProviderError.
func NewCatalog(providers ...Provider) (*ProviderCatalog, error) {
	return provider.NewCatalog(providers...)
}

// DefaultCatalog returns the providers shipped with odmcp.
func DefaultCatalog() *ProviderCatalog {
	return provider.MustCatalog(
		chsbb.Provider(),
		echo.Provider(),
	)
}
