package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/fieldserve/contractbill/internal/catalog"
	"github.com/fieldserve/contractbill/internal/config"
	"github.com/fieldserve/contractbill/internal/draft"
	"github.com/fieldserve/contractbill/internal/logger"
	"github.com/fieldserve/contractbill/internal/migration"
	"github.com/fieldserve/contractbill/internal/observability"
	"github.com/fieldserve/contractbill/internal/server"
	"github.com/fieldserve/contractbill/internal/tax"
	"github.com/fieldserve/contractbill/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		catalog.Module,
		tax.Module,
		draft.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
