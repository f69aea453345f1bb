package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/estate/internal/billing"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/household"
	"github.com/smallbiznis/estate/internal/migration"
	"github.com/smallbiznis/estate/internal/observability"
	"github.com/smallbiznis/estate/internal/payment"
	"github.com/smallbiznis/estate/internal/providers"
	"github.com/smallbiznis/estate/internal/search"
	"github.com/smallbiznis/estate/internal/server"
	"github.com/smallbiznis/estate/internal/utility"
	"github.com/smallbiznis/estate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		providers.Module,

		billing.Module,
		payment.Module,
		utility.Module,
		household.Module,
		search.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
