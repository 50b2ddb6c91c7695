// Package track is the patrol-tracking engine: it turns a stream of
// timestamped positions into an accumulated patrol path and deduplicated
// visit events. It owns no persistence of its own; records are handed to a
// Store as best-effort writes.
package track

import (
	"context"
	"time"
)

// RoutePoint is one sample of a patrol path.
type RoutePoint struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

// Patrol is one continuous tracked shift for one vehicle and agent.
// Points is append-only while the session is active; timestamps are
// non-decreasing because the recorder only ever appends the latest sample.
type Patrol struct {
	ID        string       `json:"id"`
	VehicleID string       `json:"vehicle_id"`
	Agent     string       `json:"agent"`
	Region    string       `json:"region"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
	Points    []RoutePoint `json:"points"`
}

// Visit records one vehicle having come within geofence range of a
// facility. The ID is derived from the facility code and the timestamp so
// a retried write lands on the same record.
type Visit struct {
	ID           string    `json:"id"`
	FacilityCode string    `json:"facility_code"`
	FacilityName string    `json:"facility_name"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	OccurredAt   time.Time `json:"occurred_at"`
	VehicleID    string    `json:"vehicle_id"`
	Agent        string    `json:"agent"`
	Region       string    `json:"region"`
}

// Store is the persistence/broadcast capability the engine writes through.
// Writes are best-effort: the engine logs failures and keeps tracking.
type Store interface {
	SavePatrol(ctx context.Context, p *Patrol) error
	SaveVisit(ctx context.Context, v *Visit) error
}
