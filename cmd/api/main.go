package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/brassloom/brassloom/internal/api"
	"github.com/brassloom/brassloom/internal/config"
	"github.com/brassloom/brassloom/internal/storage"
)

// Serves the archived dataset to the viewer. Requires a Postgres DSN; Redis
// is optional and only speeds up repeated list reads.
func main() {
	cfg := config.Load()

	if cfg.PostgresDSN == "" {
		log.Fatal("BRASSLOOM_POSTGRES_DSN is required for the api server")
	}

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	r := gin.Default()
	apiServer := api.NewServer(store)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
