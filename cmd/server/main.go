package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	cachefx "summit-abstract-miner/cache/fx"
	dbfx "summit-abstract-miner/db/fx"
	enqueuefx "summit-abstract-miner/internal/app/amqp/enqueue/fx"
	eventsfx "summit-abstract-miner/internal/app/events/fx"
	appfx "summit-abstract-miner/internal/app/fx"
	healthfx "summit-abstract-miner/internal/app/health/fx"
	scraperstatusfx "summit-abstract-miner/internal/app/scraperstatus/fx"
	routerfx "summit-abstract-miner/internal/router/fx"
	serverfx "summit-abstract-miner/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.Module,
		dbfx.SQLiteModule,
		cachefx.Module,
		routerfx.CoreRouterOptions,
		serverfx.ServerOptions,
		healthfx.Module,
		scraperstatusfx.Module,
		eventsfx.Module,
		enqueuefx.Module,
	)

	app.Run()
}
