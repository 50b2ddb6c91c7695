package catalog

import (
	"log"

	"github.com/PatrulhaBH/patrol-backend/internal/db"
	"gorm.io/gorm/clause"
)

func Init() {
	// Ensure the patrol schema exists first
	if err := db.EnsureSchema(db.DB, "patrol"); err != nil {
		log.Fatal("Failed to create patrol schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Facility{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}

// Seed upserts the full facility catalog. Re-running the seed refreshes
// names, coordinates and derived fields without duplicating rows.
func Seed(facilities []Facility) error {
	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		UpdateAll: true,
	}).Create(&facilities).Error
}

// All returns every facility in the stored catalog.
func All() ([]Facility, error) {
	var facilities []Facility
	if err := db.DB.Order("code").Find(&facilities).Error; err != nil {
		return nil, err
	}
	return facilities, nil
}
