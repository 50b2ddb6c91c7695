package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/route"
	"github.com/PatrulhaBH/patrol-backend/internal/track"
	"go.uber.org/zap"
)

// printStore runs the engine without a database, printing what would be
// persisted. Useful for tuning radius and debounce against a catalog.
type printStore struct{}

func (printStore) SavePatrol(ctx context.Context, p *track.Patrol) error {
	fmt.Printf("patrol %s: %d points\n", p.ID, len(p.Points))
	return nil
}

func (printStore) SaveVisit(ctx context.Context, v *track.Visit) error {
	fmt.Printf("visit  %s: %s at %s\n", v.ID, v.FacilityName, v.OccurredAt.Format(time.RFC3339))
	return nil
}

func main() {
	catalogPath := flag.String("catalog", "catalog.yaml", "facility catalog file")
	region := flag.String("region", catalog.DefaultRegion, "region to patrol")
	duration := flag.Duration("duration", 30*time.Second, "how long to run")
	tick := flag.Duration("tick", track.DefaultTickInterval, "simulation tick interval")
	flag.Parse()

	facilities, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	loop := route.Synthesize(*region, facilities)
	src, err := track.NewSimulatedSource(loop, *tick, 0)
	if err != nil {
		log.Fatalf("Failed to build simulation: %v", err)
	}

	session, err := track.StartSession(track.Config{
		VehicleID:  "SIM-0001",
		Agent:      "simulator",
		Region:     *region,
		Facilities: facilities,
		OnVisit: func(v *track.Visit) {
			fmt.Printf("detected %s (%s)\n", v.FacilityName, v.FacilityCode)
		},
	}, src, printStore{}, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	fmt.Printf("Simulating %s over %d facilities for %s...\n", *region, len(catalog.ByRegion(facilities, *region)), *duration)
	time.Sleep(*duration)
	session.Stop()

	p := session.Patrol()
	fmt.Printf("Done: %d path points recorded\n", len(p.Points))
}
