package catalog

// Center is the nominal midpoint of an administrative region, used for map
// centering and as the fallback anchor for synthesized routes.
type Center struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultRegion anchors lookups for region names absent from the catalog.
const DefaultRegion = "CENTRO-SUL"

// Regions lists the nine administrative regions, in display order.
var Regions = []string{
	"BARREIRO",
	"CENTRO-SUL",
	"LESTE",
	"NORDESTE",
	"NOROESTE",
	"NORTE",
	"OESTE",
	"PAMPULHA",
	"VENDA NOVA",
}

var regionCenters = map[string]Center{
	"BARREIRO":   {Lat: -19.977, Lng: -44.014},
	"CENTRO-SUL": {Lat: -19.935, Lng: -43.937},
	"LESTE":      {Lat: -19.915, Lng: -43.915},
	"NORDESTE":   {Lat: -19.875, Lng: -43.925},
	"NOROESTE":   {Lat: -19.908, Lng: -44.002},
	"NORTE":      {Lat: -19.833, Lng: -43.933},
	"OESTE":      {Lat: -19.933, Lng: -43.983},
	"PAMPULHA":   {Lat: -19.866, Lng: -43.970},
	"VENDA NOVA": {Lat: -19.816, Lng: -43.983},
}

// CenterFor resolves a region name (under normalized comparison) to its
// nominal center, falling back to the default region's center for names
// absent from the table.
func CenterFor(region string) Center {
	want := NormalizeRegion(region)
	for name, c := range regionCenters {
		if NormalizeRegion(name) == want {
			return c
		}
	}
	return regionCenters[DefaultRegion]
}
