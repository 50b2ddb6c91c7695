package catalog

import (
	"encoding/json"
	"net/http"
)

// FacilityHandler lists the catalog, optionally filtered by ?region=.
// Region matching is normalized, so "venda nova" and "VENDA-NOVA" both
// select the VENDA NOVA subset.
func FacilityHandler(w http.ResponseWriter, r *http.Request) {
	facilities, err := All()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(facilities) == 0 {
		http.Error(w, "No facilities found", http.StatusNotFound)
		return
	}

	if region := r.URL.Query().Get("region"); region != "" {
		facilities = ByRegion(facilities, region)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(facilities); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RegionHandler lists the known regions with their nominal centers.
func RegionHandler(w http.ResponseWriter, r *http.Request) {
	type regionOut struct {
		Name   string `json:"name"`
		Center Center `json:"center"`
	}

	out := make([]regionOut, 0, len(Regions))
	for _, name := range Regions {
		out = append(out, regionOut{Name: name, Center: CenterFor(name)})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
