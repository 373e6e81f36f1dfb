package webhook

import (
	"go.uber.org/fx"

	"github.com/DishIs/temp-mail-sub000/internal/app/service/eventlog"
	"github.com/DishIs/temp-mail-sub000/internal/platform/paddle"
	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
)

var Module = fx.Options(
	fx.Provide(func(c *paypal.Client) RemoteVerifier { return c }),
	fx.Provide(func(c *paddle.Client) TransactionLookup { return c }),
	fx.Provide(func(s *eventlog.Service) EventLogSink { return s }),
	fx.Provide(NewHandler),
)
