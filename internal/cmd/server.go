package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"feedline/internal/api"
	"feedline/internal/cmd/flags"
	"feedline/internal/core"
	"feedline/internal/engagement"
	"feedline/internal/events"
	"feedline/internal/feed"
	"feedline/internal/metrics"
	"feedline/internal/notifier"
	"feedline/internal/persistence"
	"feedline/internal/realtime"
)

var serverCmd = &cli.Command{
	Name:  "server",
	Usage: "Run the feedline HTTP API and metrics servers",
	Flags: []cli.Flag{
		flags.ListenAddr,
		flags.MetricsAddr,
		flags.NATSUrl,
		flags.NATSInit,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide(&core.Config{}),
			persistence.Provide(),
			pal.Provide[core.EventPublisher, events.Publisher](),
			pal.Provide[core.NotificationPusher, realtime.Client](),
			pal.Provide[core.NotificationDispatcher, notifier.Dispatcher](),
			pal.Provide(&engagement.Reconciler{}),
			pal.Provide(&engagement.Service{}),
			pal.Provide(&feed.Assembler{}),
			pal.Provide[api.Identity, api.HeaderIdentity](),
			pal.Provide(&api.Server{}),
			pal.Provide(&metrics.Server{}),
			pal.Provide(&metrics.Collector{}),
		)
	},
}
