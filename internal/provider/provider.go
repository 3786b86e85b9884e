// Package provider defines data source providers and the catalog that
// selects one at startup.
//
// A Provider knows how to build a tool registry for one open data API.
// Providers are listed explicitly in a Catalog, so the set of servable
// providers is fixed at compile time.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
)

// Settings carries the runtime configuration handed to Provider.Build.
// Zero values select the provider's defaults.
type Settings struct {
	Logger     *slog.Logger
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
}

// Log returns the configured logger, or one that discards output.
func (s Settings) Log() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return s.Logger
}

// BaseURLOr returns the configured base URL, or def when none is set.
func (s Settings) BaseURLOr(def string) string {
	if s.BaseURL == "" {
		return def
	}

	return s.BaseURL
}

// BuildFunc creates the registry of a provider.
type BuildFunc func(ctx context.Context, settings Settings) (*registry.Registry, error)

// Provider describes one servable data source.
type Provider struct {
	// Name is the identifier used on the command line, e.g. "ch_sbb".
	Name string
	// Title is a short human readable label.
	Title string
	// Description explains what data the provider serves.
	Description string
	// Build creates a fresh registry for the provider.
	Build BuildFunc
}

// Catalog is an ordered set of providers with unique names.
type Catalog struct {
	providers []Provider
	byName    map[string]int
}

// NewCatalog creates a catalog from providers in the given order.
func NewCatalog(providers ...Provider) (*Catalog, error) {
	c := &Catalog{
		providers: make([]Provider, 0, len(providers)),
		byName:    make(map[string]int, len(providers)),
	}

	for _, p := range providers {
		if p.Name == "" || p.Build == nil {
			return nil, fmt.Errorf("%w: provider requires a name and a build function", errors.ErrInvalidRegistration)
		}

		if _, exists := c.byName[p.Name]; exists {
			return nil, &errors.DuplicateProviderError{Name: p.Name}
		}

		c.byName[p.Name] = len(c.providers)
		c.providers = append(c.providers, p)
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on error.
func MustCatalog(providers ...Provider) *Catalog {
	c, err := NewCatalog(providers...)
	if err != nil {
		panic(err)
	}

	return c
}

// List returns the providers in catalog order.
func (c *Catalog) List() []Provider {
	out := make([]Provider, len(c.providers))
	copy(out, c.providers)

	return out
}

// Names returns the provider names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name)
	}

	return names
}

// Lookup returns the provider called name.
func (c *Catalog) Lookup(name string) (Provider, error) {
	i, ok := c.byName[name]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %q (available: %v)", errors.ErrUnknownProvider, name, c.Names())
	}

	return c.providers[i], nil
}

// Build looks up name and builds its registry.
func (c *Catalog) Build(ctx context.Context, name string, settings Settings) (*registry.Registry, error) {
	p, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}

	reg, err := p.Build(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("build provider %q: %w", name, err)
	}

	settings.Log().Debug("Provider built",
		"component", "provider",
		"provider", name,
		"tools", reg.Len(),
	)

	return reg, nil
}
