package recipe

import "go.uber.org/fx"

// Module exposes the recipe service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
