package track

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"go.uber.org/zap"
)

// Config describes one patrol session.
type Config struct {
	VehicleID string
	Agent     string
	Region    string

	// Facilities is the catalog to geofence against. The session restricts
	// it to the selected region; when the subset is empty it falls back to
	// the full catalog unless RegionOnly is set.
	Facilities []catalog.Facility
	RegionOnly bool

	RadiusMeters   float64
	DebounceWindow time.Duration
	PersistEvery   time.Duration

	// OnVisit observes every accepted visit, after it has been handed to
	// the store. Optional.
	OnVisit func(*Visit)
	// OnPatrol observes every patrol snapshot persisted to the store.
	// Optional.
	OnPatrol func(*Patrol)
	// OnSourceError observes position-source errors. The engine never
	// retries; falling back to a simulated source is the caller's call.
	OnSourceError func(error)
}

// Session wires a position source into the recorder, proximity detector
// and visit debouncer. Each fix is processed to completion on the source's
// goroutine: path append, throttled persist, proximity check, debounce,
// visit emission.
type Session struct {
	cfg        Config
	facilities []catalog.Facility
	recorder   *Recorder
	debouncer  *Debouncer
	store      Store
	log        *zap.Logger

	stopSource func()
	stopOnce   sync.Once
}

// StartSession validates the config, starts the recorder and subscribes to
// the source. The first fix arrives before StartSession returns when the
// source emits an immediate position (the simulated source always does).
func StartSession(cfg Config, src Source, store Store, log *zap.Logger) (*Session, error) {
	if cfg.VehicleID == "" {
		return nil, fmt.Errorf("session needs a vehicle id")
	}
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = DefaultRadiusMeters
	}
	if log == nil {
		log = zap.NewNop()
	}

	facilities := catalog.ByRegion(cfg.Facilities, cfg.Region)
	if len(facilities) == 0 && !cfg.RegionOnly {
		facilities = cfg.Facilities
	}

	s := &Session{
		cfg:        cfg,
		facilities: facilities,
		recorder:   NewRecorder(store, cfg.PersistEvery, log),
		debouncer:  NewDebouncer(cfg.DebounceWindow),
		store:      store,
		log:        log,
	}
	s.recorder.OnPersist = cfg.OnPatrol

	if _, err := s.recorder.Start(cfg.VehicleID, cfg.Agent, cfg.Region); err != nil {
		return nil, err
	}

	s.stopSource = src.Subscribe(s.handleFix, s.handleSourceError)

	log.Info("patrol session started",
		zap.String("patrol_id", s.PatrolID()),
		zap.String("vehicle", cfg.VehicleID),
		zap.String("region", cfg.Region),
		zap.Int("facilities", len(facilities)))

	return s, nil
}

// Stop unsubscribes the source and flushes the final patrol state. Safe to
// call more than once; only the first call does the work.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.stopSource()
		if err := s.recorder.Stop(); err != nil {
			s.log.Warn("recorder stop", zap.Error(err))
		}
		s.log.Info("patrol session stopped", zap.String("patrol_id", s.PatrolID()))
	})
}

func (s *Session) PatrolID() string {
	if p := s.recorder.Patrol(); p != nil {
		return p.ID
	}
	return ""
}

// CurrentPosition returns the latest fix, for live map rendering.
func (s *Session) CurrentPosition() *RoutePoint {
	return s.recorder.Position()
}

// Path returns a copy of the accumulated patrol path.
func (s *Session) Path() []RoutePoint {
	return s.recorder.Path()
}

// Patrol returns a snapshot of the session's patrol record.
func (s *Session) Patrol() *Patrol {
	return s.recorder.Patrol()
}

func (s *Session) handleFix(f Fix) {
	point := RoutePoint{Lat: f.Lat, Lng: f.Lng, At: f.At}
	if err := s.recorder.OnPosition(point); err != nil {
		// Fix delivered after stop; nothing to do.
		return
	}

	// Proximity runs on every tick so a spot is never missed between
	// persists.
	for _, hit := range FacilitiesWithin(f.Lat, f.Lng, s.facilities, s.cfg.RadiusMeters) {
		v := s.debouncer.TryRegister(hit, f.At, s.cfg.VehicleID, s.cfg.Agent, s.cfg.Region)
		if v == nil {
			continue
		}
		s.saveVisitAsync(v)
		if s.cfg.OnVisit != nil {
			s.cfg.OnVisit(v)
		}
	}
}

func (s *Session) handleSourceError(err error) {
	s.log.Warn("position source error", zap.String("patrol_id", s.PatrolID()), zap.Error(err))
	if s.cfg.OnSourceError != nil {
		s.cfg.OnSourceError(err)
	}
}

func (s *Session) saveVisitAsync(v *Visit) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := s.store.SaveVisit(ctx, v); err != nil {
			// Best effort: debounce state stays correct locally, only the
			// remote mirror misses the record.
			s.log.Warn("visit persist failed",
				zap.String("visit_id", v.ID),
				zap.Error(err))
		}
	}()
}
