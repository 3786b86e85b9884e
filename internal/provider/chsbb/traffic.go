package chsbb

import (
	"net/url"
	"strconv"
	"time"

	"github.com/wagiedev/opendata-mcp-go/internal/fetch"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
	"github.com/wagiedev/opendata-mcp-go/internal/schema"
)

// TrafficInfoParams are the arguments of the rail-traffic-info tool.
type TrafficInfoParams struct {
	Select          string `json:"select,omitempty" jsonschema:"Fields to select in the response. Examples: 'title,description' for basic info, 'title,validitybegin,validityend' for timing info"`
	Where           string `json:"where,omitempty" jsonschema:"Filter conditions for traffic info. Examples: 'validitybegin >= NOW()', 'description LIKE \"*Zürich*\"'"`
	GroupBy         string `json:"group_by,omitempty" jsonschema:"Group traffic info by specific fields. Example: 'author' to group by the author of the traffic info"`
	OrderBy         string `json:"order_by,omitempty" jsonschema:"Sort traffic info. Example: 'validitybegin ASC' for chronological order, 'published DESC' for newest first"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum number of traffic info entries to return (1-100)"`
	Offset          int    `json:"offset,omitempty" jsonschema:"Number of traffic info entries to skip for pagination"`
	Refine          string `json:"refine,omitempty" jsonschema:"Refine by specific facets. Example: 'author:SBB' to show only SBB notifications"`
	Exclude         string `json:"exclude,omitempty" jsonschema:"Exclude specific fields from response. Example: 'description_html' to exclude HTML formatting"`
	Lang            string `json:"lang,omitempty" jsonschema:"Language code for responses (de, fr, it, en). Affects message content language"`
	Timezone        string `json:"timezone,omitempty" jsonschema:"Timezone for validity and publication times. Example: 'Europe/Zurich' for local Swiss time"`
	IncludeLinks    bool   `json:"include_links,omitempty" jsonschema:"Include related links in response"`
	IncludeAppMetas bool   `json:"include_app_metas,omitempty" jsonschema:"Include application metadata"`
}

// TrafficInfo is one rail traffic notification.
type TrafficInfo struct {
	Title           *string    `json:"title,omitempty"`
	Link            *string    `json:"link,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Published       *time.Time `json:"published,omitempty"`
	Author          *string    `json:"author,omitempty"`
	ValidityBegin   *time.Time `json:"validitybegin,omitempty"`
	ValidityEnd     *time.Time `json:"validityend,omitempty"`
	DescriptionHTML *string    `json:"description_html,omitempty"`
}

func trafficInfoConstraints() map[string]schema.Constraint {
	c := paging()
	optional(c, "refine", "exclude", "lang")
	c["timezone"] = schema.Constraint{Default: "UTC"}
	c["include_links"] = schema.Constraint{Default: false}
	c["include_app_metas"] = schema.Constraint{Default: false}

	return c
}

func (p TrafficInfoParams) query() url.Values {
	q := pageQuery(p.Select, p.Where, p.GroupBy, p.OrderBy, p.Limit, p.Offset)
	q.Set("refine", p.Refine)
	q.Set("exclude", p.Exclude)
	q.Set("lang", p.Lang)
	q.Set("timezone", p.Timezone)
	q.Set("include_links", strconv.FormatBool(p.IncludeLinks))
	q.Set("include_app_metas", strconv.FormatBool(p.IncludeAppMetas))

	return q
}

func addTrafficInfo(reg *registry.Registry, client *fetch.Client, ds Dataset) error {
	binder, err := schema.NewBinder[TrafficInfoParams](trafficInfoConstraints())
	if err != nil {
		return err
	}

	return recordsTool[TrafficInfoParams, Records[TrafficInfo]](reg, client, ds, binder, TrafficInfoParams.query)
}
