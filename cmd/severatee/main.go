package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/migration"
	"github.com/lumonlabs/severatee/internal/observability"
	"github.com/lumonlabs/severatee/internal/server"
	"github.com/lumonlabs/severatee/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
