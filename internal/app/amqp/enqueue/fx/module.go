package fx

import (
	"summit-abstract-miner/internal/app/amqp/enqueue"
	"summit-abstract-miner/internal/pkg/amqpclient"
	"summit-abstract-miner/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		amqpclient.NewAMQP,
	),
	fx.Provide(router.AsRoute(enqueue.NewHandler)),
)
