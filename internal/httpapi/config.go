package httpapi

import (
	"time"

	"github.com/flowshim/procrun/internal/httpapi/poolsem"
)

// Config controls the run-service's request handling, independent of
// the underlying HTTP transport (server.HttpConfig).
type Config struct {
	// MaxConcurrent bounds how many runner.Run calls execute at once.
	MaxConcurrent int `conf:"max_concurrent"`

	// DefaultTimeout is applied to a request that does not set
	// timeoutMs itself. Zero means no timeout.
	DefaultTimeout time.Duration `conf:"default_timeout"`
}

func (c Config) poolConfig() poolsem.Config {
	return poolsem.Config{MaxConcurrent: c.MaxConcurrent}
}
