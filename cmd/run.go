package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/flowshim/procrun/internal/runner"
	"github.com/flowshim/procrun/util/logging"
)

var (
	runCmdDescription = `The run command spawns a single child process,
feeds it the given stdin, waits for it to exit (or for the timeout or
max-buffer cap to fire), and prints the result as JSON to stdout.

Exit status: 0 if the runner itself completed without a programmer
error, regardless of the child's own exit status, which is reported in
the JSON result instead.`
	runCmd = &cli.Command{
		Name:        "run",
		Usage:       "Run a single child process synchronously and report the result as JSON.",
		Description: runCmdDescription,
		Action:      runAction,
		ArgsUsage:   "-- <args...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "the executable to run.",
				Aliases:  []string{"f"},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "cwd",
				Usage: "the child's working directory.",
			},
			&cli.StringSliceFlag{
				Name:  "env",
				Usage: "an environment variable for the child, as KEY=VALUE. May be repeated.",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "wall-clock budget before the child is killed. Zero means no timeout.",
			},
			&cli.Int64Flag{
				Name:  "max-buffer",
				Usage: "maximum combined bytes captured across stdout/stderr before the child is killed. Zero means unlimited.",
			},
			&cli.IntFlag{
				Name:  "kill-signal",
				Usage: "the signal sent on timeout or buffer overflow. Zero means the default (SIGTERM).",
			},
			&cli.BoolFlag{
				Name:  "detached",
				Usage: "place the child in its own process group.",
			},
			&cli.StringFlag{
				Name:  "stdin",
				Usage: "text written to the child's stdin before it is closed.",
			},
		},
	}
)

func runAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	args := ctx.Args().Slice()
	argv := append([]string{ctx.String("file")}, args...)

	opts := runner.Options{
		File:       ctx.String("file"),
		Args:       argv,
		Cwd:        ctx.String("cwd"),
		Env:        ctx.StringSlice("env"),
		Detached:   ctx.Bool("detached"),
		Timeout:    ctx.Duration("timeout"),
		MaxBuffer:  ctx.Int64("max-buffer"),
		KillSignal: runner.Signal(ctx.Int("kill-signal")),
		Stdio: []runner.StdioSlot{
			{Type: runner.StdioPipe, Readable: true, Input: []byte(ctx.String("stdin"))},
			{Type: runner.StdioPipe, Writable: true},
			{Type: runner.StdioPipe, Writable: true},
		},
	}

	log.Debug("starting run",
		zap.String("file", opts.File),
		zap.Strings("args", opts.Args),
		zap.Duration("timeout", opts.Timeout),
	)

	r := runner.New(opts, log)

	start := time.Now()
	res, err := r.Run(ctx.Context)
	if err != nil {
		return err
	}

	log.Debug("run finished", zap.Duration("elapsed", time.Since(start)))

	return printResult(res)
}

func printResult(res *runner.Result) error {
	out := struct {
		Status *int    `json:"status"`
		Signal *string `json:"signal"`
		Error  string  `json:"error,omitempty"`
		Stdout string  `json:"stdout"`
		Stderr string  `json:"stderr"`
	}{
		Status: res.Status,
		Signal: res.Signal,
	}

	if res.Error != nil {
		out.Error = res.Error.Error()
	}
	if len(res.Output) > 1 && res.Output[1] != nil {
		out.Stdout = string(res.Output[1])
	}
	if len(res.Output) > 2 && res.Output[2] != nil {
		out.Stderr = string(res.Output[2])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}

func init() {
	rootApp.Commands = append(rootApp.Commands, runCmd)
}
