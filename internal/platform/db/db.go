package db

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fatflowers/paygate/internal/models"
	cfgpkg "github.com/fatflowers/paygate/pkg/config"
	gormzap "github.com/fatflowers/paygate/pkg/gormlog"
)

func dialector(cfg cfgpkg.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case cfgpkg.DBDriverPostgres, "":
		return postgres.Open(cfg.DSN), nil
	case cfgpkg.DBDriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	d, err := dialector(cfg.Database)
	if err != nil {
		return nil, err
	}
	level := gormlogger.Warn
	if cfg.Env == cfgpkg.EnvDev {
		level = gormlogger.Info
	}
	db, err := Open(d, gormzap.New(l, gormzap.Options{LogLevel: level}))
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	l.Infow("connected to database", "driver", cfg.Database.Driver)
	return db, nil
}

// Open connects with the given dialector. SQLite allows a single writer, so
// its pool is pinned to one connection and writers queue in database/sql
// instead of failing with SQLITE_BUSY.
func Open(d gorm.Dialector, logger gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	if d.Name() == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Payment{},
		&models.CreditCardPayment{},
		&models.PixPayment{},
		&models.PaymentNotification{},
		&models.PaymentStatusLog{},
	)
}

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}
