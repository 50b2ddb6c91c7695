package patrol

import (
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/track"
)

// Patrol is the stored record of one tracked shift. The engine's in-memory
// patrol is mirrored here through the throttled store writes.
type Patrol struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	VehicleID string       `gorm:"index" json:"vehicle_id"`
	Agent     string       `json:"agent"`
	Region    string       `gorm:"index" json:"region"`
	StartedAt time.Time    `gorm:"index" json:"started_at"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
	Points    []RoutePoint `gorm:"foreignKey:PatrolID;references:ID" json:"points,omitempty"`
}

// RoutePoint is one stored sample of a patrol path, ordered by Seq. The
// unique (patrol_id, seq) index makes a replayed append a no-op.
type RoutePoint struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PatrolID   string    `gorm:"uniqueIndex:ux_route_points_patrol_seq" json:"-"`
	Seq        int       `gorm:"uniqueIndex:ux_route_points_patrol_seq" json:"seq"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Visit is the stored record of a geofence hit. Photo evidence is merged
// into the existing row later, by id; the row itself is never deleted.
type Visit struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	FacilityCode    string     `gorm:"index" json:"facility_code"`
	FacilityName    string     `json:"facility_name"`
	Lat             float64    `json:"lat"`
	Lng             float64    `json:"lng"`
	OccurredAt      time.Time  `gorm:"index" json:"occurred_at"`
	VehicleID       string     `gorm:"index" json:"vehicle_id"`
	Agent           string     `json:"agent"`
	Region          string     `gorm:"index" json:"region"`
	Photo           string     `gorm:"type:text" json:"photo,omitempty"`
	PhotoTakenAt    *time.Time `json:"photo_taken_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
}

func (Patrol) TableName() string {
	return "patrol.patrols"
}

func (RoutePoint) TableName() string {
	return "patrol.route_points"
}

func (Visit) TableName() string {
	return "patrol.visits"
}

func patrolRow(p *track.Patrol) Patrol {
	return Patrol{
		ID:        p.ID,
		VehicleID: p.VehicleID,
		Agent:     p.Agent,
		Region:    p.Region,
		StartedAt: p.StartedAt,
		EndedAt:   p.EndedAt,
	}
}

func visitRow(v *track.Visit) Visit {
	return Visit{
		ID:           v.ID,
		FacilityCode: v.FacilityCode,
		FacilityName: v.FacilityName,
		Lat:          v.Lat,
		Lng:          v.Lng,
		OccurredAt:   v.OccurredAt,
		VehicleID:    v.VehicleID,
		Agent:        v.Agent,
		Region:       v.Region,
	}
}
