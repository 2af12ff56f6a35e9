package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	dbfx "summit-abstract-miner/db/fx"
	scrapeworkerfx "summit-abstract-miner/internal/app/amqp/scrapeworker/fx"
	"summit-abstract-miner/internal/app/events/dao"
	appfx "summit-abstract-miner/internal/app/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.SQLiteModule,
		fx.Provide(
			// Persistence for scraped events.
			dao.NewEventStore,
		),
		scrapeworkerfx.Module,
	)

	app.Run()
}
