package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"feedline/internal/core"
	"feedline/internal/persistence"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Run database migrations",
	Commands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Apply all pending migrations",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c,
					pal.Provide(&core.Config{}),
					pal.Provide[core.DB, persistence.DB](),
					pal.Provide[core.Migrator, persistence.Migrator](),
					pal.Provide(&persistence.MigrationUpRunner{}),
				)
			},
		},
		{
			Name:  "down",
			Usage: "Roll back the most recent migration",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c,
					pal.Provide(&core.Config{}),
					pal.Provide[core.DB, persistence.DB](),
					pal.Provide[core.Migrator, persistence.Migrator](),
					pal.Provide(&persistence.MigrationDownRunner{}),
				)
			},
		},
	},
}
