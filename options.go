package odmcp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wagiedev/opendata-mcp-go/internal/dispatch"
	"github.com/wagiedev/opendata-mcp-go/internal/provider"
)

// Options holds the settings assembled from Option values.
type Options struct {
	// Logger receives server and provider logs.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Name is the server name reported to clients. Defaults to "odmcp".
	Name string

	// Version is the server version reported to clients. Defaults to Version.
	Version string

	// Instructions are returned to clients during initialize.
	Instructions string

	// KeepAlive pings the client at this interval when positive.
	KeepAlive time.Duration

	// HTTPClient is used by providers for upstream requests.
	HTTPClient *http.Client

	// BaseURL overrides the provider's upstream API root.
	BaseURL string

	// Timeout bounds each upstream request.
	Timeout time.Duration

	// UserAgent is sent with upstream requests.
	UserAgent string

	// Catalog selects providers by name. Defaults to DefaultCatalog().
	Catalog *provider.Catalog
}

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = NopLogger()
	}

	if options.Version == "" {
		options.Version = Version
	}

	if options.UserAgent == "" {
		options.UserAgent = "odmcp/" + options.Version
	}

	if options.Catalog == nil {
		options.Catalog = DefaultCatalog()
	}

	return options
}

func (o *Options) dispatchOptions() dispatch.Options {
	return dispatch.Options{
		Name:         o.Name,
		Version:      o.Version,
		Instructions: o.Instructions,
		Logger:       o.Logger,
		KeepAlive:    o.KeepAlive,
	}
}

func (o *Options) providerSettings() provider.Settings {
	return provider.Settings{
		Logger:     o.Logger,
		HTTPClient: o.HTTPClient,
		BaseURL:    o.BaseURL,
		Timeout:    o.Timeout,
		UserAgent:  o.UserAgent,
	}
}

// ===== Server Identity =====

// WithLogger sets the logger for server and provider output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithServerName sets the name reported in the initialize handshake.
func WithServerName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithVersion sets the version reported in the initialize handshake.
func WithVersion(version string) Option {
	return func(o *Options) {
		o.Version = version
	}
}

// WithInstructions sets usage hints returned to clients on initialize.
func WithInstructions(instructions string) Option {
	return func(o *Options) {
		o.Instructions = instructions
	}
}

// WithKeepAlive pings the client at the given interval and closes the
// session when a ping fails.
func WithKeepAlive(interval time.Duration) Option {
	return func(o *Options) {
		o.KeepAlive = interval
	}
}

// ===== Upstream Data Source =====

// WithHTTPClient sets the HTTP client providers use for upstream requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithBaseURL overrides the provider's upstream API root.
// Mostly useful for pointing a provider at a mirror or a test server.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithTimeout bounds each upstream request.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.UserAgent = ua
	}
}

// WithCatalog replaces the set of providers that can be served by name.
func WithCatalog(catalog *ProviderCatalog) Option {
	return func(o *Options) {
		o.Catalog = catalog
	}
}
