package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/facilities", FacilityHandler)
	r.Get("/regions", RegionHandler)

	return r
}
