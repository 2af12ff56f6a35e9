package fx

import (
	"context"

	"summit-abstract-miner/internal/app/amqp/scrapeworker"
	"summit-abstract-miner/internal/pkg/amqpclient"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module(
	"amqp-scrapeworker",
	fx.Provide(
		amqpclient.NewAMQP,
		fx.Annotate(
			scrapeworker.NewScrapeHandler,
			fx.As(new(scrapeworker.Handler)),
		),
		scrapeworker.NewConsumer,
	),
	fx.Invoke(registerLifecycleHooks),
)

type hooksParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Consumer  *scrapeworker.Consumer
	Logger    *zap.SugaredLogger
}

func registerLifecycleHooks(p hooksParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Infow("scrapeworker_starting")
			return p.Consumer.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Infow("scrapeworker_stopping")
			return p.Consumer.Stop(ctx)
		},
	})
}
