package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/config"
	"github.com/craftline/projectledger/internal/logger"
	"github.com/craftline/projectledger/internal/migration"
	"github.com/craftline/projectledger/internal/observability"
	"github.com/craftline/projectledger/internal/server"
	"github.com/craftline/projectledger/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
