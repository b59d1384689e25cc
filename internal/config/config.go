package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the gateway.
type Config struct {
	// Service Configuration
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"fileflux-manager"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"s3"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort         int           `env:"MANAGER_PORT" envDefault:"5000"`
	LogLevel         string        `env:"MANAGER_LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"MANAGER_LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Observability
	EnableTracing bool   `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTLPHeaders   string `env:"OTEL_EXPORTER_OTLP_HEADERS" envDefault:""`

	// Database (required, no default)
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage node routing
	NodeURLTemplate string `env:"NODE_URL_TEMPLATE" envDefault:"http://%s.s3.svc.cluster.local:8080"`
	IngestNode      string `env:"INGEST_NODE" envDefault:"s3worker"`

	// NodeRequestTimeout bounds each storage-node call. Zero means
	// unbounded: a hung node call hangs the serving request, which is the
	// historical gateway behavior.
	NodeRequestTimeout time.Duration `env:"NODE_REQUEST_TIMEOUT" envDefault:"0"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.IngestNode = strings.TrimSpace(cfg.IngestNode)
	cfg.NodeURLTemplate = strings.TrimSpace(cfg.NodeURLTemplate)
	if cfg.IngestNode == "" {
		return nil, fmt.Errorf("INGEST_NODE must not be empty")
	}
	if !strings.Contains(cfg.NodeURLTemplate, "%s") {
		return nil, fmt.Errorf("NODE_URL_TEMPLATE must contain a %%s node-name placeholder")
	}
	return cfg, nil
}

// GetDatabaseWriteDSN returns the write database connection string.
func (c *Config) GetDatabaseWriteDSN() string {
	return c.DBPostgresqlWriteDSN
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
