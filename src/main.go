package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/rafiql/voice-session-service/logger"
	"github.com/rafiql/voice-session-service/src/config"
	"github.com/rafiql/voice-session-service/src/server"
)

// @title Voice Session Service API
// @version 1.0
// @description Tracks voice-call session lifecycles and fans lifecycle events out to real-time subscribers

// @contact.name   Voice Session Service Team
// @contact.url    https://github.com/rafiql/voice-session-service
// @contact.email  voice-session-service@example.com

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging()
	logger.Init()

	srv, err := server.NewServer(cfg, logger.Logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Run(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
}
