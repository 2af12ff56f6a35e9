package fx

import (
	"summit-abstract-miner/cache"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"redis",
	fx.Provide(
		cache.NewRedis,
		cache.NewSeenURLs,
	),
)
