package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DishIs/temp-mail-sub000/pkg/config"
)

// New builds the process-wide sugared logger. Prod gets JSON at info level;
// everything else gets the development console encoder at debug.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	var zcfg zap.Config
	if cfg.IsProd() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"

	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
