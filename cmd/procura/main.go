package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/clock"
	"github.com/smallbiznis/procura/internal/config"
	"github.com/smallbiznis/procura/internal/logger"
	"github.com/smallbiznis/procura/internal/migration"
	"github.com/smallbiznis/procura/internal/observability"
	"github.com/smallbiznis/procura/internal/scheduler"
	"github.com/smallbiznis/procura/internal/server"
	"github.com/smallbiznis/procura/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,

		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
