// Package chsbb serves open data of the Swiss Federal Railways (SBB) from
// the data.sbb.ch Opendatasoft Explore API v2.1.
//
// Each tool maps to one dataset's records endpoint. Call arguments are
// validated against the tool's input schema and forwarded as query
// parameters; the decoded response is returned as indented JSON text.
package chsbb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/opendata-mcp-go/internal/fetch"
	"github.com/wagiedev/opendata-mcp-go/internal/provider"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
	"github.com/wagiedev/opendata-mcp-go/internal/schema"
)

// Name is the provider identifier.
const Name = "ch_sbb"

// DefaultBaseURL is the public data.sbb.ch API root.
const DefaultBaseURL = "https://data.sbb.ch/api/explore/v2.1"

// DatasetsURI identifies the resource listing the datasets this provider serves.
const DatasetsURI = "odmcp://ch_sbb/datasets"

// Dataset identifiers on data.sbb.ch.
const (
	DatasetTrafficInfo  = "rail-traffic-information"
	DatasetLines        = "linie"
	DatasetRollingStock = "rollmaterial"
)

// Provider returns the provider descriptor for the catalog.
func Provider() provider.Provider {
	return provider.Provider{
		Name:        Name,
		Title:       "data.sbb.ch",
		Description: "Swiss Federal Railways open data: rail traffic information, railway lines and rolling stock",
		Build:       NewRegistry,
	}
}

// Dataset describes one dataset served as a tool.
type Dataset struct {
	Tool        string `json:"tool"`
	ID          string `json:"dataset"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Records is the Opendatasoft records envelope.
type Records[T any] struct {
	TotalCount int `json:"total_count"`
	Results    []T `json:"results"`
}

// paging holds the constraints shared by every records query.
func paging() map[string]schema.Constraint {
	c := map[string]schema.Constraint{
		"limit":  {Min: schema.Float(1), Max: schema.Float(100), Default: 10},
		"offset": {Min: schema.Float(0), Default: 0},
	}
	optional(c, "select", "where", "group_by", "order_by")

	return c
}

// optional lets clients send null for the named free-text parameters.
func optional(c map[string]schema.Constraint, names ...string) {
	for _, name := range names {
		opt := c[name]
		opt.Nullable = true
		c[name] = opt
	}
}

// NewRegistry builds the tool registry for data.sbb.ch.
func NewRegistry(_ context.Context, settings provider.Settings) (*registry.Registry, error) {
	baseURL := settings.BaseURLOr(DefaultBaseURL)

	client, err := fetch.NewClient(settings.Log(), baseURL,
		fetch.WithHTTPClient(settings.HTTPClient),
		fetch.WithTimeout(settings.Timeout),
		fetch.WithUserAgent(settings.UserAgent),
	)
	if err != nil {
		return nil, err
	}

	tools := []struct {
		dataset Dataset
		add     func(*registry.Registry, *fetch.Client, Dataset) error
	}{
		{
			dataset: Dataset{Tool: "rail-traffic-info", ID: DatasetTrafficInfo, Description: "Fetch rail traffic information"},
			add:     addTrafficInfo,
		},
		{
			dataset: Dataset{Tool: "railway-lines", ID: DatasetLines, Description: "Fetch railway line information"},
			add:     addRailwayLines,
		},
		{
			dataset: Dataset{Tool: "rolling-stock", ID: DatasetRollingStock, Description: "Fetch rolling stock (vehicle) information"},
			add:     addRollingStock,
		},
	}

	reg := registry.New()
	datasets := make([]Dataset, 0, len(tools))

	for _, t := range tools {
		t.dataset.URL = baseURL + "/" + recordsPath(t.dataset.ID)

		if err := t.add(reg, client, t.dataset); err != nil {
			return nil, fmt.Errorf("register %s: %w", t.dataset.Tool, err)
		}

		datasets = append(datasets, t.dataset)
	}

	listing, err := json.MarshalIndent(datasets, "", "  ")
	if err != nil {
		return nil, err
	}

	err = reg.RegisterResource(
		registry.NewResource(DatasetsURI, "datasets", "Datasets served by the data.sbb.ch provider", "application/json"),
		func(context.Context, string) ([]byte, error) {
			return listing, nil
		},
	)
	if err != nil {
		return nil, err
	}

	return reg, nil
}

func recordsPath(dataset string) string {
	return "catalog/datasets/" + dataset + "/records"
}

// recordsTool registers a tool that binds P, queries dataset and renders the decoded R.
func recordsTool[P any, R any](
	reg *registry.Registry,
	client *fetch.Client,
	ds Dataset,
	binder *schema.Binder[P],
	query func(P) url.Values,
) error {
	return reg.Register(
		registry.NewTool(ds.Tool, ds.Description, binder.Schema()),
		func(ctx context.Context, args map[string]any) ([]mcp.Content, error) {
			params, err := binder.Bind(args)
			if err != nil {
				return nil, err
			}

			var out R
			if err := client.Get(ctx, recordsPath(ds.ID), query(params), &out); err != nil {
				return nil, err
			}

			text, err := registry.JSONText(out)
			if err != nil {
				return nil, err
			}

			return []mcp.Content{text}, nil
		},
	)
}

// pageQuery encodes the parameters common to every records endpoint.
func pageQuery(sel, where, groupBy, orderBy string, limit, offset int) url.Values {
	return url.Values{
		"select":   {sel},
		"where":    {where},
		"group_by": {groupBy},
		"order_by": {orderBy},
		"limit":    {strconv.Itoa(limit)},
		"offset":   {strconv.Itoa(offset)},
	}
}
