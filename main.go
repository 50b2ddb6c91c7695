package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/PatrulhaBH/patrol-backend/internal/cache"
	"github.com/PatrulhaBH/patrol-backend/internal/catalog"
	"github.com/PatrulhaBH/patrol-backend/internal/db"
	"github.com/PatrulhaBH/patrol-backend/internal/logger"
	"github.com/PatrulhaBH/patrol-backend/internal/middleware"
	"github.com/PatrulhaBH/patrol-backend/internal/patrol"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	log, err := logger.New("patrol-backend")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	catalog.Init()
	patrol.Init(log, cache.New(log))

	r := chi.NewRouter()
	// read after godotenv so .env.local can set the allow-list
	r.Use(middleware.CORS(os.Getenv("ALLOWED_ORIGINS")))
	r.Use(middleware.RequestLogger(log))
	r.Get("/", RootHandler)

	r.Mount("/catalog", catalog.SetupRoutes())
	r.Mount("/patrol", patrol.SetupRoutes())

	log.Info("server listening", zap.String("port", port))

	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
