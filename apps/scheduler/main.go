package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/clock"
	"github.com/smallbiznis/procura/internal/config"
	"github.com/smallbiznis/procura/internal/logger"
	"github.com/smallbiznis/procura/internal/metrics"
	"github.com/smallbiznis/procura/internal/order"
	"github.com/smallbiznis/procura/internal/ratelimit"
	"github.com/smallbiznis/procura/internal/scheduler"
	"github.com/smallbiznis/procura/pkg/db"
	"go.uber.org/fx"
)

// Standalone scorecard worker. Runs the recompute loop without the HTTP
// surface, for deployments that scale the API and the batch tier apart.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,

		ratelimit.Module,
		order.Module,
		metrics.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
