package fx

import (
	"summit-abstract-miner/internal/app/scraperstatus"
	"summit-abstract-miner/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(scraperstatus.NewHandler)),
)
