package chsbb

import (
	"net/url"

	"github.com/wagiedev/opendata-mcp-go/internal/fetch"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
	"github.com/wagiedev/opendata-mcp-go/internal/schema"
)

// RollingStockParams are the arguments of the rolling-stock tool.
type RollingStockParams struct {
	Select  string `json:"select,omitempty" jsonschema:"Fields to select in the response. Examples: 'fahrzeug_typ,objekt' for basic info, 'vmax_betrieblich_zugelassen,lange_uber_puffer_lup' for technical details"`
	Where   string `json:"where,omitempty" jsonschema:"Filter conditions. Examples: 'fahrzeug_typ = \"X\"', 'vmax_betrieblich_zugelassen > 100'"`
	GroupBy string `json:"group_by,omitempty" jsonschema:"Group rolling stock by specific fields. Example: 'fahrzeug_typ' to group by vehicle type"`
	OrderBy string `json:"order_by,omitempty" jsonschema:"Sort rolling stock. Example: 'baudatum_fahrzeug ASC' for oldest first, 'vmax_betrieblich_zugelassen DESC' for fastest first"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of rolling stock entries to return (1-100)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Number of rolling stock entries to skip for pagination"`
}

// RollingStock is one vehicle of the SBB fleet.
type RollingStock struct {
	Structure      *string  `json:"fahrzeug_art_struktur,omitempty"`
	Type           *string  `json:"fahrzeug_typ,omitempty"`
	Object         *string  `json:"objekt,omitempty"`
	BuildDate      *string  `json:"baudatum_fahrzeug,omitempty"`
	TareWeight     *float64 `json:"eigengewicht_tara,omitempty"`
	LengthOverBuff *float64 `json:"lange_uber_puffer_lup,omitempty"`
	MaxSpeed       *float64 `json:"vmax_betrieblich_zugelassen,omitempty"`
}

func (p RollingStockParams) query() url.Values {
	return pageQuery(p.Select, p.Where, p.GroupBy, p.OrderBy, p.Limit, p.Offset)
}

func addRollingStock(reg *registry.Registry, client *fetch.Client, ds Dataset) error {
	binder, err := schema.NewBinder[RollingStockParams](paging())
	if err != nil {
		return err
	}

	return recordsTool[RollingStockParams, Records[RollingStock]](reg, client, ds, binder, RollingStockParams.query)
}
