package forwarder

import (
	"go.uber.org/fx"

	"github.com/DishIs/temp-mail-sub000/internal/platform/userapi"
)

var Module = fx.Options(
	fx.Provide(func(c *userapi.Client) Pusher { return c }),
	fx.Provide(NewService),
	fx.Provide(func(s *Service) EventForwarder { return s }),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)
