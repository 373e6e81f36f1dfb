package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/DishIs/temp-mail-sub000/internal/app/api/server"
	"github.com/DishIs/temp-mail-sub000/internal/app/service/checkout"
	"github.com/DishIs/temp-mail-sub000/internal/app/service/eventlog"
	"github.com/DishIs/temp-mail-sub000/internal/app/service/forwarder"
	"github.com/DishIs/temp-mail-sub000/internal/app/service/webhook"
	"github.com/DishIs/temp-mail-sub000/internal/platform/db"
	"github.com/DishIs/temp-mail-sub000/internal/platform/paddle"
	"github.com/DishIs/temp-mail-sub000/internal/platform/paypal"
	"github.com/DishIs/temp-mail-sub000/internal/platform/userapi"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	paypal.Module,
	paddle.Module,
	userapi.Module,
	server.Module,
	eventlog.Module,
	forwarder.Module,
	webhook.Module,
	checkout.Module,
)
