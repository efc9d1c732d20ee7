package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	annotatorcli "github.com/mrlokans/annotator/internal/cli"
	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func build() string {
	v, c := Version, Commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	var logCloser func()
	flags := &annotatorcli.Flags{}

	app := &cli.Command{
		Name:      "annotator",
		Usage:     "Vocabulary annotations for reading and listening lessons",
		UsageText: "annotator [global options] command [command options]",
		Description: `Highlights annotated words in lesson passages and maps reader
selections back to passage offsets.

Run 'annotator' with no arguments to start the HTTP API.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Destination: &flags.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Flags win over LOG_LEVEL and LOG_FILE from the environment.
			logCfg := config.NewConfig().Log
			if flags.LogLevel != "" {
				logCfg.Level = flags.LogLevel
			}
			if flags.LogFile != "" {
				logCfg.File = flags.LogFile
			}

			closer, err := logging.Setup(logCfg.Level, logCfg.File)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logCloser = closer
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	serveCmd := annotatorcli.NewServeCmd(flags, Version)

	app = serveCmd.Register(app)
	app = annotatorcli.NewRenderCmd(flags).Register(app)

	// Serve when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'annotator --help' for usage", c.Args().First())
		}
		return serveCmd.Run(ctx, c)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
