package track

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultPersistInterval throttles patrol snapshots pushed to the store.
// Ticks can arrive every 100 ms; persisting each one would flood the
// store, while the in-memory path stays fully up to date for rendering.
const DefaultPersistInterval = 10 * time.Second

// Budget for one fire-and-forget store write.
const persistTimeout = 10 * time.Second

type recorderState int

const (
	stateIdle recorderState = iota
	stateActive
	stateStopped
)

// Recorder accumulates the ordered path of one patrol session and mirrors
// it to the store through a throttle. Lifecycle is Idle -> Active ->
// Stopped; Stopped is terminal.
type Recorder struct {
	mu      sync.Mutex
	state   recorderState
	patrol  *Patrol
	store   Store
	limiter *rate.Limiter
	log     *zap.Logger
	now     func() time.Time

	// persistMu serializes store writes for this patrol. The throttled
	// async persist and the final flush in Stop can otherwise overlap,
	// and the store's append detection assumes one writer per patrol.
	persistMu sync.Mutex

	// OnPersist, when set, observes every snapshot handed to the store.
	// Used by the live feed; runs outside the recorder lock.
	OnPersist func(*Patrol)
}

func NewRecorder(store Store, persistEvery time.Duration, log *zap.Logger) *Recorder {
	if persistEvery <= 0 {
		persistEvery = DefaultPersistInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		store: store,
		// One token up front, spent by the initial persist in Start;
		// snapshots go out at most once per interval after that.
		limiter: rate.NewLimiter(rate.Every(persistEvery), 1),
		log:     log,
		now:     time.Now,
	}
}

// Start transitions Idle -> Active and creates the patrol record.
func (r *Recorder) Start(vehicleID, agent, region string) (*Patrol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateIdle {
		return nil, fmt.Errorf("recorder already started")
	}

	r.patrol = &Patrol{
		ID:        uuid.NewString(),
		VehicleID: vehicleID,
		Agent:     agent,
		Region:    region,
		StartedAt: r.now(),
	}
	r.state = stateActive

	// The initial persist spends the limiter's first token, so the next
	// snapshot waits a full interval.
	r.limiter.Allow()
	r.persistAsync(r.snapshotLocked())
	return r.snapshotLocked(), nil
}

// OnPosition appends the sample to the in-memory path and, when the
// throttle allows, pushes the full current path to the store.
func (r *Recorder) OnPosition(p RoutePoint) error {
	r.mu.Lock()

	if r.state != stateActive {
		r.mu.Unlock()
		return fmt.Errorf("recorder is not active")
	}

	r.patrol.Points = append(r.patrol.Points, p)

	var snapshot *Patrol
	if r.limiter.Allow() {
		snapshot = r.snapshotLocked()
	}
	r.mu.Unlock()

	if snapshot != nil {
		r.persistAsync(snapshot)
	}
	return nil
}

// Stop transitions Active -> Stopped and forces one final synchronous
// persist with the end timestamp and the complete path, regardless of the
// throttle, so no data is lost at session end.
func (r *Recorder) Stop() error {
	r.mu.Lock()

	if r.state != stateActive {
		r.mu.Unlock()
		return fmt.Errorf("recorder is not active")
	}

	ended := r.now()
	r.patrol.EndedAt = &ended
	r.state = stateStopped
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	r.persistMu.Lock()
	err := r.store.SavePatrol(ctx, snapshot)
	r.persistMu.Unlock()
	if err != nil {
		// Non-fatal: the in-memory record is complete, only the remote
		// mirror lags.
		r.log.Warn("final patrol persist failed",
			zap.String("patrol_id", snapshot.ID),
			zap.Error(err))
	}
	if r.OnPersist != nil {
		r.OnPersist(snapshot)
	}
	return nil
}

// Position returns the latest sample, or nil before the first one.
func (r *Recorder) Position() *RoutePoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.patrol == nil || len(r.patrol.Points) == 0 {
		return nil
	}
	p := r.patrol.Points[len(r.patrol.Points)-1]
	return &p
}

// Path returns a copy of the accumulated path.
func (r *Recorder) Path() []RoutePoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.patrol == nil {
		return nil
	}
	out := make([]RoutePoint, len(r.patrol.Points))
	copy(out, r.patrol.Points)
	return out
}

// Patrol returns a snapshot of the patrol record, or nil before Start.
func (r *Recorder) Patrol() *Patrol {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.patrol == nil {
		return nil
	}
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() *Patrol {
	cp := *r.patrol
	cp.Points = make([]RoutePoint, len(r.patrol.Points))
	copy(cp.Points, r.patrol.Points)
	return &cp
}

// persistAsync mirrors a snapshot to the store without blocking the tick
// handler. Failures are reported and tracking continues.
func (r *Recorder) persistAsync(snapshot *Patrol) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		r.persistMu.Lock()
		err := r.store.SavePatrol(ctx, snapshot)
		r.persistMu.Unlock()
		if err != nil {
			r.log.Warn("patrol persist failed",
				zap.String("patrol_id", snapshot.ID),
				zap.Error(err))
		}
		if r.OnPersist != nil {
			r.OnPersist(snapshot)
		}
	}()
}
