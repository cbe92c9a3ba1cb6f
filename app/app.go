package app

import (
	"github.com/flowshim/procrun/config"
	"github.com/flowshim/procrun/internal/httpapi"
	"github.com/flowshim/procrun/internal/server"
	"github.com/flowshim/procrun/internal/shell"
	"github.com/flowshim/procrun/util/conf"
	"github.com/flowshim/procrun/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

// New builds the fx.App shell for the serve command: the HTTP
// transport (internal/server) plus the run-service wired on top of it
// (internal/httpapi).
func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		fx.Supply(cfg),
	)

	return shell.New(log, sharedModule, server.Module(cfg.Server), httpapi.Module(cfg.HTTPAPI)), nil
}
