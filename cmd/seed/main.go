package main

import (
	"log"
	"os"

	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/db"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	path := os.Getenv("CATALOG_PATH")
	if path == "" {
		path = "catalog.yaml"
	}

	facilities, err := catalog.LoadFile(path)
	if err != nil {
		log.Fatalf("❌ Failed to load catalog %s: %v", path, err)
	}

	db.Connect()
	catalog.Init()

	if err := catalog.Seed(facilities); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✓ Seeded %d facilities", len(facilities))
}
