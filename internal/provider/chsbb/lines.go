package chsbb

import (
	"net/url"

	"github.com/wagiedev/opendata-mcp-go/internal/fetch"
	"github.com/wagiedev/opendata-mcp-go/internal/registry"
	"github.com/wagiedev/opendata-mcp-go/internal/schema"
)

// RailwayLineParams are the arguments of the railway-lines tool.
type RailwayLineParams struct {
	Select  string `json:"select,omitempty" jsonschema:"Fields to select in the response. Examples: 'linie,linienname' for basic info, 'bpk_anfang,bpk_ende' for station info"`
	Where   string `json:"where,omitempty" jsonschema:"Filter conditions. Examples: 'linie = 100', 'bpk_anfang LIKE \"*Zürich*\"'"`
	GroupBy string `json:"group_by,omitempty" jsonschema:"Group railway lines by specific fields. Example: 'bpk_anfang' to group by starting station"`
	OrderBy string `json:"order_by,omitempty" jsonschema:"Sort railway lines. Example: 'linie ASC' for line number order, 'km_ende DESC' for longest routes first"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of railway line entries to return (1-100)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Number of railway line entries to skip for pagination"`
}

// GeoPoint2D is a WGS84 coordinate.
type GeoPoint2D struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// LineGeometry is a GeoJSON line geometry.
type LineGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// LineFeature is a GeoJSON feature wrapping a line geometry.
type LineFeature struct {
	Type       string         `json:"type"`
	Geometry   LineGeometry   `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// RailwayLine is one line segment of the SBB network.
type RailwayLine struct {
	Line            *int         `json:"linie,omitempty"`
	LineName        *string      `json:"linienname,omitempty"`
	StartStation    *string      `json:"bpk_anfang,omitempty"`
	EndStation      *string      `json:"bpk_ende,omitempty"`
	StartKm         *float64     `json:"km_anfang,omitempty"`
	EndKm           *float64     `json:"km_ende,omitempty"`
	StartStationing *float64     `json:"stationierung_anfang,omitempty"`
	EndStationing   *float64     `json:"stationierung_ende,omitempty"`
	Feature         *LineFeature `json:"tst,omitempty"`
	GeoPoint        *GeoPoint2D  `json:"geo_point_2d,omitempty"`
}

func (p RailwayLineParams) query() url.Values {
	return pageQuery(p.Select, p.Where, p.GroupBy, p.OrderBy, p.Limit, p.Offset)
}

func addRailwayLines(reg *registry.Registry, client *fetch.Client, ds Dataset) error {
	binder, err := schema.NewBinder[RailwayLineParams](paging())
	if err != nil {
		return err
	}

	return recordsTool[RailwayLineParams, Records[RailwayLine]](reg, client, ds, binder, RailwayLineParams.query)
}
