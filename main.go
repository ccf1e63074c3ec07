// @title Course Admin Gateway API
// @version 1.0
// @description Admin-panel gateway in front of the course platform backend.

// @host localhost:8080
// @BasePath /api

package main

import (
	"course_admin_gateway/internal/app"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/pkg/logger"
	"flag"
	"log"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	application.Run()
}
