package config

import (
	"fmt"
	"os"
	"strconv"
)

// SESSION_EVENTS_EXCHANGE is the fanout exchange lifecycle events are published to
// when the AMQP egress is enabled.
const SESSION_EVENTS_EXCHANGE = "session_events"

// DatabaseConfig holds the PostgreSQL connection details
type DatabaseConfig struct {
	host     string
	port     int
	user     string
	password string
	dbName   string
}

func (c *DatabaseConfig) GetHost() string     { return c.host }
func (c *DatabaseConfig) GetPort() int        { return c.port }
func (c *DatabaseConfig) GetUser() string     { return c.user }
func (c *DatabaseConfig) GetPassword() string { return c.password }
func (c *DatabaseConfig) GetDBName() string   { return c.dbName }

// GlobalConfig holds all configuration for the voice session service
type GlobalConfig struct {
	logLevel string
	host     string
	port     string
	database DatabaseConfig

	// rabbitURL is optional; when empty the AMQP event egress is disabled
	// and lifecycle events reach websocket subscribers only.
	rabbitURL string
}

func (c *GlobalConfig) GetLogLevel() string                { return c.logLevel }
func (c *GlobalConfig) GetHost() string                    { return c.host }
func (c *GlobalConfig) GetPort() string                    { return c.port }
func (c *GlobalConfig) GetDatabaseConfig() *DatabaseConfig { return &c.database }
func (c *GlobalConfig) GetRabbitMQURL() string             { return c.rabbitURL }

// NewConfig loads configuration from environment variables.
// All variables except RABBITMQ_URL are required.
func NewConfig() (*GlobalConfig, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		return nil, fmt.Errorf("LOG_LEVEL environment variable is required")
	}

	host := os.Getenv("HOST")
	if host == "" {
		return nil, fmt.Errorf("HOST environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		return nil, fmt.Errorf("PORT environment variable is required")
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST environment variable is required")
	}

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT environment variable is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("DB_PORT must be a valid integer: %w", err)
	}

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER environment variable is required")
	}

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME environment variable is required")
	}

	return &GlobalConfig{
		logLevel: logLevel,
		host:     host,
		port:     port,
		database: DatabaseConfig{
			host:     dbHost,
			port:     dbPort,
			user:     dbUser,
			password: dbPassword,
			dbName:   dbName,
		},
		rabbitURL: os.Getenv("RABBITMQ_URL"),
	}, nil
}
