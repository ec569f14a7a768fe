package metrics

import (
	"context"
	"log/slog"
	"time"

	"feedline/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm/schema"
)

var tableCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "feedline_table_estimated_count",
	Help: "Estimated record count for a table.",
}, []string{"table"})

type Collector struct {
	Logger *slog.Logger
	DB     core.DB
}

func (c *Collector) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "metrics.Collector")
	return nil
}

func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	tables := []schema.Tabler{
		core.User{},
		core.Post{},
		core.Follow{},
		core.Like{},
		core.Comment{},
		core.Notification{},
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Logger.Debug("Collecting metrics")
			for _, table := range tables {
				if err := c.collectTableEstimatedCount(table); err != nil {
					return err
				}
			}
		}
	}
}

func (c *Collector) collectTableEstimatedCount(tabler schema.Tabler) error {
	count, err := c.DB.EstimatedCount(tabler.TableName())
	if err != nil {
		return err
	}
	tableCount.WithLabelValues(tabler.TableName()).Set(float64(count))
	return nil
}
