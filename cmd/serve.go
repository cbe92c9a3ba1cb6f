package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/flowshim/procrun/app"
	"github.com/flowshim/procrun/config"
	"github.com/flowshim/procrun/util/conf"
	"github.com/flowshim/procrun/util/logging"
)

var (
	serveCmdDescription = `The serve command starts a http server and waits for
	run requests. POST a JSON body to /run to execute a child process and
	get its result back as JSON; GET /healthz for a liveness check.

	The command blocks indefinitely, processing incoming http requests.`
	serveCmd = &cli.Command{
		Name:        "serve",
		Usage:       "Start a http server and listen for run requests.",
		Description: serveCmdDescription,
		Action:      serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Aliases:  []string{"H"},
				Usage:    "The host to listen on.",
				Category: "http",
				EnvVars:  []string{"HTTP_HOST"},
			},
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"P"},
				Usage:    "The port to listen on.",
				Category: "http",
				EnvVars:  []string{"HTTP_PORT"},
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "Enable HTTP/2 cleartext upgrade.",
				Category: "http",
				EnvVars:  []string{"HTTP_H2C"},
			},
			&cli.IntFlag{
				Name:     "max-concurrent",
				Usage:    "The maximum number of concurrent runs the service will drive at once.",
				Category: "httpapi",
				EnvVars:  []string{"HTTPAPI_MAX_CONCURRENT"},
			},
		},
	}

	serveCliMap = map[string]string{
		"host":           "server.host",
		"port":           "server.port",
		"h2c":            "server.h2c",
		"max-concurrent": "httpapi.max_concurrent",
	}
)

func serveAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults: config.DefaultConfig,
		Cli:      ctx,
		CliMap:   serveCliMap,
		Log:      log,
	})
	if err != nil {
		return err
	}

	ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

	a, err := app.New(ctx)
	if err != nil {
		return err
	}

	return a.Run(ctx.Context)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, serveCmd)
}
