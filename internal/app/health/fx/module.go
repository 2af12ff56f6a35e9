package fx

import (
	"summit-abstract-miner/internal/app/health"
	"summit-abstract-miner/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(health.NewHandler)),
)
