package track

import (
	"fmt"
	"sync"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/route"
)

// Fix is one timestamped position sample.
type Fix struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

// Source emits position fixes until the returned stop function is called.
// Implementations must deliver fixes sequentially: the engine processes
// each tick to completion before the next one.
type Source interface {
	Subscribe(onFix func(Fix), onError func(error)) (stop func())
}

// SimulatedSource walks a closed waypoint loop, linearly interpolating
// between consecutive waypoints and emitting one point per tick. It loops
// forever until unsubscribed and always emits an immediate fix at
// subscribe time so dependent components have an initial position.
type SimulatedSource struct {
	loop     []route.Waypoint
	interval time.Duration
	steps    int

	now func() time.Time
}

// Defaults matching the live-sensor cadence the engine is tuned for.
const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultLegSteps     = 60
)

// NewSimulatedSource builds a source over a synthesized loop. interval and
// steps fall back to defaults when zero. Returns an error for loops the
// synthesizer can never produce (fewer than two waypoints).
func NewSimulatedSource(loop []route.Waypoint, interval time.Duration, steps int) (*SimulatedSource, error) {
	if len(loop) < 2 {
		return nil, fmt.Errorf("simulated source needs at least 2 waypoints, got %d", len(loop))
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if steps <= 0 {
		steps = DefaultLegSteps
	}
	return &SimulatedSource{
		loop:     loop,
		interval: interval,
		steps:    steps,
		now:      time.Now,
	}, nil
}

func (s *SimulatedSource) Subscribe(onFix func(Fix), onError func(error)) (stop func()) {
	// Immediate fix so the map and proximity check have a position before
	// the first tick fires.
	onFix(Fix{Lat: s.loop[0].Lat, Lng: s.loop[0].Lng, At: s.now()})

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		leg := 0
		progress := 0

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if leg >= len(s.loop)-1 {
					leg = 0
				}

				p1 := s.loop[leg]
				p2 := s.loop[leg+1]
				frac := float64(progress) / float64(s.steps)

				onFix(Fix{
					Lat: p1.Lat + (p2.Lat-p1.Lat)*frac,
					Lng: p1.Lng + (p2.Lng-p1.Lng)*frac,
					At:  s.now(),
				})

				progress++
				if progress >= s.steps {
					progress = 0
					leg++
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// PushSource adapts an externally driven position feed (a device posting
// its live fixes) to the Source contract. Fixes pushed while nothing is
// subscribed are dropped.
type PushSource struct {
	mu    sync.Mutex
	onFix func(Fix)
	onErr func(error)

	// deliverMu serializes callback invocations. Pushes arrive from
	// concurrent HTTP requests; the Source contract promises the
	// subscriber one tick at a time.
	deliverMu sync.Mutex
}

func NewPushSource() *PushSource {
	return &PushSource{}
}

func (s *PushSource) Subscribe(onFix func(Fix), onError func(error)) (stop func()) {
	s.mu.Lock()
	s.onFix = onFix
	s.onErr = onError
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.onFix = nil
		s.onErr = nil
		s.mu.Unlock()
	}
}

// Push forwards a fix to the subscriber, synchronously. Concurrent pushes
// are delivered one at a time, preserving the one-tick-at-a-time
// processing model.
func (s *PushSource) Push(f Fix) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	onFix := s.onFix
	s.mu.Unlock()
	if onFix != nil {
		onFix(f)
	}
}

// Fail surfaces a sensor error (denied permission, timeout) to the
// subscriber. The engine does not retry; the caller decides whether to
// fall back to a simulated source.
func (s *PushSource) Fail(err error) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	onErr := s.onErr
	s.mu.Unlock()
	if onErr != nil {
		onErr(err)
	}
}
