package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/entrypoint"
)

type ServeCmd struct {
	flags   *Flags
	version string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, version string) *ServeCmd {
	return &ServeCmd{flags: flags, version: version}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Start the HTTP API",
		UsageText: "annotator serve",
		Description: `Serves lessons, rendered passages and annotations over HTTP.

Configuration is read from the environment: PORT, HOST, DATABASE_PATH,
ANNOTATIONS_REJECT_OVERLAPS, ANNOTATIONS_DEFAULT_COLOR, DICTIONARY_ENABLED
and DICTIONARY_BASE_URL.`,
		Action: cmd.Run,
	})

	return app
}

func (cmd *ServeCmd) Run(ctx context.Context, c *cli.Command) error {
	return entrypoint.Run(ctx, config.NewConfig(), cmd.version)
}
