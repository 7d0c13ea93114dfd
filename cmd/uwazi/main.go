package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wananchi-labs/uwazi/internal/migration"
	"github.com/wananchi-labs/uwazi/internal/observability"
	"github.com/wananchi-labs/uwazi/internal/server"
	"github.com/wananchi-labs/uwazi/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,

		// Schema and seed data
		migration.Module,
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
