package patrol

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/db"
	"github.com/PatrulhaBH/patrol-backend/internal/geo"
	"github.com/PatrulhaBH/patrol-backend/internal/route"
	"github.com/PatrulhaBH/patrol-backend/internal/status"
	"github.com/PatrulhaBH/patrol-backend/internal/track"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const statusCacheTTL = 30 * time.Second

// StartSessionHandler starts a tracking session. Simulated sessions walk a
// synthesized loop over the region's facilities; live sessions expect the
// device to push fixes to the positions endpoint.
func StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		VehicleID  string `json:"vehicle_id"`
		Agent      string `json:"agent"`
		Region     string `json:"region"`
		Simulate   *bool  `json:"simulate"`
		TickMs     int    `json:"tick_ms"`
		RegionOnly bool   `json:"region_only"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.VehicleID == "" {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}

	facilities, err := catalog.All()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	simulate := input.Simulate == nil || *input.Simulate

	var src track.Source
	var push *track.PushSource
	if simulate {
		loop := route.Synthesize(input.Region, facilities)
		sim, err := track.NewSimulatedSource(loop, time.Duration(input.TickMs)*time.Millisecond, 0)
		if err != nil {
			http.Error(w, "Failed to build simulation: "+err.Error(), http.StatusInternalServerError)
			return
		}
		src = sim
	} else {
		push = track.NewPushSource()
		src = push
	}

	session, err := track.StartSession(track.Config{
		VehicleID:  input.VehicleID,
		Agent:      input.Agent,
		Region:     input.Region,
		Facilities: facilities,
		RegionOnly: input.RegionOnly,
		OnVisit: func(v *track.Visit) {
			hub.Broadcast("visit", v)
		},
		OnPatrol: func(p *track.Patrol) {
			// broadcast without the full path; the path endpoint serves it
			hub.Broadcast("patrol", patrolRow(p))
		},
	}, src, engineStore, logger)
	if err != nil {
		http.Error(w, "Failed to start session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	registry.Add(session.PatrolID(), session, push)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"patrol_id": session.PatrolID(),
		"simulate":  simulate,
	})
}

// StopSessionHandler stops a running session and returns its final record.
func StopSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	active, ok := registry.Remove(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	active.session.Stop()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(active.session.Patrol())
}

// SessionPathHandler returns the live in-memory position and path of a
// running session, for map rendering. The remote mirror may lag behind
// this by up to one persist interval.
func SessionPathHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	active, ok := registry.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"position": active.session.CurrentPosition(),
		"path":     active.session.Path(),
	})
}

// PushPositionHandler feeds one device fix into a live session.
func PushPositionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	active, ok := registry.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if active.push == nil {
		http.Error(w, "Session is simulated; it does not accept pushed positions", http.StatusConflict)
		return
	}

	var input struct {
		Lat float64    `json:"lat"`
		Lng float64    `json:"lng"`
		At  *time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	at := time.Now()
	if input.At != nil {
		at = *input.At
	}
	active.push.Push(track.Fix{Lat: input.Lat, Lng: input.Lng, At: at})

	w.WriteHeader(http.StatusAccepted)
}

// PatrolHandler lists stored patrols, filtered by ?region=, ?vehicle= and
// ?date= (YYYY-MM-DD, local day of the session start).
func PatrolHandler(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Preload("Points", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("seq")
	}).Order("started_at DESC")

	if region := r.URL.Query().Get("region"); region != "" {
		q = q.Where("region = ?", region)
	}
	if vehicle := r.URL.Query().Get("vehicle"); vehicle != "" {
		q = q.Where("vehicle_id LIKE ?", "%"+vehicle+"%")
	}
	if day, err := parseDay(r.URL.Query().Get("date")); err != nil {
		http.Error(w, "Invalid date filter", http.StatusBadRequest)
		return
	} else if day != nil {
		q = q.Where("started_at >= ? AND started_at < ?", day, day.Add(24*time.Hour))
	}

	var patrols []Patrol
	if err := q.Find(&patrols).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(patrols); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// VisitHandler lists stored visits, newest first, with the same filters as
// PatrolHandler applied to the visit timestamp.
func VisitHandler(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Order("occurred_at DESC")

	if region := r.URL.Query().Get("region"); region != "" {
		q = q.Where("region = ?", region)
	}
	if vehicle := r.URL.Query().Get("vehicle"); vehicle != "" {
		q = q.Where("vehicle_id LIKE ?", "%"+vehicle+"%")
	}
	if day, err := parseDay(r.URL.Query().Get("date")); err != nil {
		http.Error(w, "Invalid date filter", http.StatusBadRequest)
		return
	} else if day != nil {
		q = q.Where("occurred_at >= ? AND occurred_at < ?", day, day.Add(24*time.Hour))
	}

	var visits []Visit
	if err := q.Find(&visits).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(visits); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// EvidenceHandler merges photographic evidence into an existing visit by
// id. The dwell duration is the gap between visit creation and capture.
func EvidenceHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input struct {
		Photo   string     `json:"photo"`
		TakenAt *time.Time `json:"taken_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.Photo == "" {
		http.Error(w, "photo is required", http.StatusBadRequest)
		return
	}

	var visit Visit
	err := db.DB.Where("id = ?", id).First(&visit).Error
	if err == gorm.ErrRecordNotFound {
		http.Error(w, "Visit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	takenAt := time.Now()
	if input.TakenAt != nil {
		takenAt = *input.TakenAt
	}
	duration := int(takenAt.Sub(visit.OccurredAt).Seconds())

	visit.Photo = input.Photo
	visit.PhotoTakenAt = &takenAt
	visit.DurationSeconds = &duration

	if err := db.DB.Save(&visit).Error; err != nil {
		http.Error(w, "Failed to update visit", http.StatusInternalServerError)
		return
	}

	hub.Broadcast("visit", visit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visit)
}

// facilityStatus is one row of the supervisor summary.
type facilityStatus struct {
	Code             string           `json:"code"`
	Name             string           `json:"name"`
	Region           string           `json:"region"`
	Priority         catalog.Priority `json:"priority"`
	RequiresEvidence bool             `json:"requires_evidence"`
	Status           status.Level     `json:"status"`
	LastVisit        *time.Time       `json:"last_visit,omitempty"`
}

type statusSummary struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	Region       string           `json:"region,omitempty"`
	Total        int              `json:"total"`
	VisitedToday int              `json:"visited_today"`
	Counts       map[string]int   `json:"counts"`
	Facilities   []facilityStatus `json:"facilities"`
}

// StatusHandler classifies every facility of the (optionally filtered)
// catalog from its most recent visit. The summary is a pure read-side
// projection, recomputed on demand and briefly cached.
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	cacheKey := "patrol:status:" + catalog.NormalizeRegion(region)

	if cached, ok := statusCache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	facilities, err := catalog.All()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	facilities = catalog.ByRegion(facilities, region)
	if len(facilities) == 0 {
		http.Error(w, "No facilities found", http.StatusNotFound)
		return
	}

	codes := make([]string, 0, len(facilities))
	for _, f := range facilities {
		codes = append(codes, f.Code)
	}

	lastVisits, err := latestVisitTimes(codes)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	startOfToday := geo.StartOfDay(now)

	summary := statusSummary{
		GeneratedAt: now,
		Region:      region,
		Total:       len(facilities),
		Counts:      map[string]int{"green": 0, "orange": 0, "red": 0},
	}

	for _, f := range facilities {
		var last *time.Time
		if t, ok := lastVisits[f.Code]; ok {
			last = &t
			if !t.Before(startOfToday) {
				summary.VisitedToday++
			}
		}
		level := status.Classify(f.Priority, last, now)
		summary.Counts[string(level)]++
		summary.Facilities = append(summary.Facilities, facilityStatus{
			Code:             f.Code,
			Name:             f.Name,
			Region:           f.Region,
			Priority:         f.Priority,
			RequiresEvidence: f.RequiresEvidence,
			Status:           level,
			LastVisit:        last,
		})
	}

	body, err := json.Marshal(summary)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	statusCache.Set(r.Context(), cacheKey, string(body), statusCacheTTL)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// latestVisitTimes fetches the most recent visit timestamp per facility in
// one query.
func latestVisitTimes(codes []string) (map[string]time.Time, error) {
	rows, err := db.DB.Raw(`
		SELECT DISTINCT ON (facility_code) facility_code, occurred_at
		FROM patrol.visits
		WHERE facility_code = ANY(?)
		ORDER BY facility_code, occurred_at DESC
	`, pq.Array(codes)).Rows()
	if err != nil {
		return nil, fmt.Errorf("latest visits query failed: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]time.Time)
	for rows.Next() {
		var code string
		var at time.Time
		if err := rows.Scan(&code, &at); err != nil {
			return nil, fmt.Errorf("scan latest visit: %w", err)
		}
		latest[code] = at
	}
	return latest, rows.Err()
}

// LiveHandler upgrades to the websocket live feed.
func LiveHandler(w http.ResponseWriter, r *http.Request) {
	hub.Handle(w, r)
}

// HealthHandler reports engine liveness counters.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"active_sessions":   registry.Count(),
		"live_feed_clients": hub.ClientCount(),
	})
}

// parseDay parses a YYYY-MM-DD filter in local time. Empty input means no
// filter; nil, nil is returned.
func parseDay(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
