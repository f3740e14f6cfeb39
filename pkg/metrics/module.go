package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const Subsystem = "paygate"

// Module exposes the HTTP middleware and the business collectors, both registered on the default registry.
var Module = fx.Options(
	fx.Provide(func() (*Business, error) {
		return NewBusiness(prometheus.DefaultRegisterer, Subsystem)
	}),
	fx.Provide(func(log *zap.SugaredLogger) *Prometheus {
		return NewPrometheus(NewPrometheusOptions{Subsystem: Subsystem, Logger: log})
	}),
)
