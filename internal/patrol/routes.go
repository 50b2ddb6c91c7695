package patrol

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/sessions", StartSessionHandler)
	r.Delete("/sessions/{id}", StopSessionHandler)
	r.Get("/sessions/{id}/path", SessionPathHandler)
	r.Post("/sessions/{id}/positions", PushPositionHandler)

	r.Get("/patrols", PatrolHandler)
	r.Get("/visits", VisitHandler)
	r.Patch("/visits/{id}/evidence", EvidenceHandler)
	r.Get("/status", StatusHandler)

	r.Get("/live", LiveHandler)
	r.Get("/health", HealthHandler)

	return r
}
