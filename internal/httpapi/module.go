package httpapi

import (
	"context"

	"go.uber.org/fx"

	"github.com/flowshim/procrun/internal/httpapi/poolsem"
	"github.com/flowshim/procrun/internal/httpapi/schema"
)

// Module wires the run-service's HTTP surface: schema validation, the
// concurrency-limiting semaphore, the handler, and its route
// registration into the server's handler group.
func Module(config Config) fx.Option {
	return fx.Module(
		"httpapi",
		fx.Supply(config),
		fx.Provide(schema.NewRequestSchema),
		fx.Provide(func(cfg Config, lc fx.Lifecycle) (*poolsem.Pool, error) {
			pool, err := poolsem.New(cfg.poolConfig())
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					pool.Close()
					return nil
				},
			})
			return pool, nil
		}),
		fx.Provide(NewRunHandler),
		fx.Provide(RegisterRoutes),
		fx.Invoke(func(*poolsem.Pool, *RunHandler) {}),
	)
}
