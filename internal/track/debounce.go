package track

import (
	"fmt"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
)

// DefaultDebounceWindow is the minimum gap between two accepted visits to
// the same facility. It exists to stop a stationary or slow vehicle from
// generating dozens of visit records during one dwell period, not to model
// a revisit cooldown across the shift.
const DefaultDebounceWindow = 6 * time.Second

// Debouncer holds the last accepted visit time per facility for one patrol
// session. A debouncer is constructed at session start and discarded at
// session stop, so its state never leaks across sessions; since a session
// belongs to a single vehicle, the effective debounce key is
// (facility, vehicle). Not safe for concurrent use: it is owned by the
// session's tick loop.
type Debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

func NewDebouncer(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{
		window: window,
		last:   make(map[string]time.Time),
	}
}

// TryRegister returns a new Visit for the facility, or nil when the hit
// falls inside the debounce window of the previous accepted visit. The
// visit ID is deterministic (code + millisecond timestamp) so retried
// writes stay idempotent. An empty region falls back to the facility's own
// region, matching sessions that patrol the whole catalog.
func (d *Debouncer) TryRegister(f catalog.Facility, at time.Time, vehicleID, agent, region string) *Visit {
	if last, seen := d.last[f.Code]; seen && at.Sub(last) < d.window {
		return nil
	}
	d.last[f.Code] = at

	if region == "" {
		region = f.Region
	}

	return &Visit{
		ID:           fmt.Sprintf("%s-%d", f.Code, at.UnixMilli()),
		FacilityCode: f.Code,
		FacilityName: f.Name,
		Lat:          f.Lat,
		Lng:          f.Lng,
		OccurredAt:   at,
		VehicleID:    vehicleID,
		Agent:        agent,
		Region:       region,
	}
}
