package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopyard/shopyard/internal/clock"
	"github.com/shopyard/shopyard/internal/migration"
	"github.com/shopyard/shopyard/internal/observability"
	"github.com/shopyard/shopyard/internal/server"
	"github.com/shopyard/shopyard/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
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
