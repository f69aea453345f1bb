package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/billing"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/observability"
	"github.com/smallbiznis/estate/internal/scheduler"
	"github.com/smallbiznis/estate/pkg/db"
	"go.uber.org/fx"
)

// The scheduler process runs the overdue sweeps only. Schema migrations are
// owned by the api process.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		billing.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return node
}
