package patrol

import (
	"context"
	"fmt"

	"github.com/PatrulhaBH/patrol-backend/internal/track"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists engine records to Postgres. It implements track.Store
// with per-row overwrite semantics: concurrent sessions write without
// coordination and the last write wins.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// SavePatrol upserts the patrol row and appends the path points not yet
// stored. The engine hands over the full path on every persist and
// serializes persists per patrol; since the path is append-only, rows past
// the stored count are exactly the new samples.
func (s *GormStore) SavePatrol(ctx context.Context, p *track.Patrol) error {
	row := patrolRow(p)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Omit("Points").Create(&row).Error
	if err != nil {
		return fmt.Errorf("save patrol %s: %w", p.ID, err)
	}

	var stored int64
	if err := s.db.WithContext(ctx).Model(&RoutePoint{}).
		Where("patrol_id = ?", p.ID).Count(&stored).Error; err != nil {
		return fmt.Errorf("count route points for %s: %w", p.ID, err)
	}
	if int(stored) >= len(p.Points) {
		return nil
	}

	fresh := make([]RoutePoint, 0, len(p.Points)-int(stored))
	for i := int(stored); i < len(p.Points); i++ {
		pt := p.Points[i]
		fresh = append(fresh, RoutePoint{
			PatrolID:   p.ID,
			Seq:        i,
			Lat:        pt.Lat,
			Lng:        pt.Lng,
			RecordedAt: pt.At,
		})
	}
	// DoNothing tolerates a concurrent writer having appended the same
	// seq range already; the unique (patrol_id, seq) index keeps the path
	// duplicate-free either way.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&fresh, 500).Error; err != nil {
		return fmt.Errorf("append route points for %s: %w", p.ID, err)
	}
	return nil
}

// SaveVisit inserts the visit, ignoring duplicates: the deterministic id
// makes a retried write a no-op rather than a second record.
func (s *GormStore) SaveVisit(ctx context.Context, v *track.Visit) error {
	row := visitRow(v)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save visit %s: %w", v.ID, err)
	}
	return nil
}
