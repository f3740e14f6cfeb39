package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/paygate/internal/app/api/server"
	"github.com/fatflowers/paygate/internal/app/service/notification"
	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/internal/app/service/statistics"
	"github.com/fatflowers/paygate/internal/app/service/sweeper"
	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/platform/db"
	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/idempotency"
	"github.com/fatflowers/paygate/pkg/logger"
	"github.com/fatflowers/paygate/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	store.Module,
	metrics.Module,
	idempotency.Module,
	notification.Module,
	payment.Module,
	sweeper.Module,
	statistics.Module,
	server.Module,
)
