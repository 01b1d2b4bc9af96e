package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rafiql/voice-session-service/src/config"
	"github.com/rafiql/voice-session-service/src/db"
	"github.com/rafiql/voice-session-service/src/hub"
	"github.com/rafiql/voice-session-service/src/rabbitmq"
	"github.com/rafiql/voice-session-service/src/repository"
	"github.com/rafiql/voice-session-service/src/router"
	"github.com/rafiql/voice-session-service/src/service"

	_ "github.com/rafiql/voice-session-service/src/docs"

	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	config          *config.GlobalConfig
	database        *db.DB
	eventHub        *hub.Hub
	publisher       *rabbitmq.AMQPPublisher
	logger          *logrus.Logger
	http            *http.Server
	shutdownHandler ShutdownHandlerInterface
}

// NewServer creates a new server instance
func NewServer(cfg *config.GlobalConfig, logger *logrus.Logger) (*Server, error) {
	// Initialize database connection
	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	server := &Server{
		config:   cfg,
		database: database,
		eventHub: hub.NewHub(),
		logger:   logger,
	}

	// AMQP egress is optional
	if url := cfg.GetRabbitMQURL(); url != "" {
		publisher, err := rabbitmq.NewAMQPPublisher(url)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		server.publisher = publisher
	}

	// Create and assign shutdown handler
	server.shutdownHandler = NewShutdownHandler(server)

	return server, nil
}

// Run starts the server with graceful shutdown using ShutdownHandler
func (s *Server) Run() error {
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	serverDone := s.startServerGoroutine()

	return s.shutdownHandler.HandleShutdown(serverDone, osSignals)
}

// startServerGoroutine starts the HTTP server in a goroutine and returns a channel for errors
func (s *Server) startServerGoroutine() chan error {
	serverDone := make(chan error, 1)

	go func() {
		store := repository.NewSessionRepository(s.database)

		var publisher rabbitmq.Publisher
		if s.publisher != nil {
			publisher = s.publisher
		}
		emitter := service.NewEmitter(s.eventHub, publisher)

		r := router.NewRouter(s.config, store, s.eventHub, emitter, s.logger)
		httpServer := &http.Server{
			Addr:    fmt.Sprintf("%s:%s", s.config.GetHost(), s.config.GetPort()),
			Handler: r,
		}
		s.http = httpServer

		slog.Info("Starting voice session service",
			"host", s.config.GetHost(),
			"port", s.config.GetPort())

		serverDone <- s.startServer()
	}()

	return serverDone
}

// startServer starts the HTTP server and handles errors
func (s *Server) startServer() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
