package fx

import (
	"summit-abstract-miner/internal/app/events"
	"summit-abstract-miner/internal/app/events/dao"
	"summit-abstract-miner/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(dao.NewEventStore),
	fx.Provide(router.AsRoute(events.NewHandler)),
)
