package sweeper

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/pkg/config"
)

var Module = fx.Options(
	fx.Provide(func(cfg *config.Config, log *zap.SugaredLogger, e payment.Engine) *Sweeper {
		return New(cfg, log, e)
	}),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger, s *Sweeper) {
	if !cfg.Sweeper.Enabled {
		log.Infow("pix sweeper disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			log.Infow("pix sweeper started", "interval", cfg.Sweeper.Interval)
			return nil
		},
		OnStop: s.Stop,
	})
}
