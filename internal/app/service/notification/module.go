package notification

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/config"
)

// Module exposes the notification scheduler via Fx.
var Module = fx.Options(
	fx.Provide(NewBroker),
	fx.Provide(newDispatcher),
	fx.Provide(NewScheduler),
	fx.Provide(func(s *Scheduler) Notifier { return s }),
	fx.Invoke(registerScheduler),
)

func newDispatcher(cfg *config.Config, broker BrokerDispatcher) Dispatcher {
	return NewRouter(NewWebhookDispatcher(cfg.Notification.WebhookTimeout), broker)
}

func registerScheduler(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *config.Config, s *Scheduler, broker BrokerDispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			log.Infow("notification scheduler started", "workers", s.workers, "broker", cfg.Notification.Broker)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := s.Stop(ctx)
			if cerr := broker.Close(); cerr != nil {
				log.Warnw("failed to close notification broker", "error", cerr)
			}
			return err
		},
	})
}
