package fx

import (
	"go.uber.org/fx"

	"summit-abstract-miner/internal/server"
)

var ServerOptions = fx.Options(
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
