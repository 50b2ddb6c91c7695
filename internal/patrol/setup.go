package patrol

import (
	"log"

	"github.com/PatrulhaBH/patrol-backend/internal/cache"
	"github.com/PatrulhaBH/patrol-backend/internal/db"
	"go.uber.org/zap"
)

// Package state wired once at startup, the same way the catalog domain
// initializes its schema.
var (
	logger      *zap.Logger
	engineStore *GormStore
	registry    *Registry
	hub         *Hub
	statusCache *cache.Cache
)

func Init(zl *zap.Logger, c *cache.Cache) {
	if zl == nil {
		zl = zap.NewNop()
	}
	logger = zl
	statusCache = c

	// Ensure the patrol schema exists first
	if err := db.EnsureSchema(db.DB, "patrol"); err != nil {
		log.Fatal("Failed to create patrol schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Patrol{}, &RoutePoint{}, &Visit{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	engineStore = NewGormStore(db.DB)
	registry = NewRegistry()
	hub = NewHub(zl)
}
