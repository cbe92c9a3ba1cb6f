package config

import (
	"github.com/flowshim/procrun/internal/httpapi"
	"github.com/flowshim/procrun/internal/server"
)

// Config is the top-level, koanf-backed application configuration.
type Config struct {
	// LogLevel is the log level for the application.
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application.
	LogFormat string `conf:"log_format"`

	// Server is the HTTP server configuration.
	Server server.HttpConfig `conf:"server"`

	// HTTPAPI configures the run-service's request handling, separate
	// from the underlying HTTP transport.
	HTTPAPI httpapi.Config `conf:"httpapi"`
}

// DefaultConfig seeds Parse with values that apply before any file,
// env, or CLI overlay is loaded.
var DefaultConfig = map[string]any{
	"log_level":               "info",
	"log_format":              "production",
	"server.host":             "localhost",
	"server.port":             8080,
	"server.h2c":              false,
	"httpapi.max_concurrent":  4,
	"httpapi.default_timeout": "30s",
}
