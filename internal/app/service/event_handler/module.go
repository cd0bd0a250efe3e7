package event_handler

import "go.uber.org/fx"

// Module exposes the webhook event handler via Fx.
var Module = fx.Options(
	fx.Provide(NewEventHandler),
)
