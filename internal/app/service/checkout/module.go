package checkout

import (
	"go.uber.org/fx"

	"github.com/DishIs/temp-mail-sub000/internal/platform/paddle"
	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
	"github.com/DishIs/temp-mail-sub000/internal/platform/userapi"
)

var Module = fx.Options(
	fx.Provide(func(c *paypal.Client) SubscriptionCreator { return c }),
	fx.Provide(func(c *paddle.Client) PortalSessions { return c }),
	fx.Provide(func(c *userapi.Client) StatusFetcher { return c }),
	fx.Provide(NewService),
)
