package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/platform/db"
	"github.com/fatflowers/paygate/internal/testutil"
	cfgpkg "github.com/fatflowers/paygate/pkg/config"
)

func TestNewTestDB_MigratesTables(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	for _, table := range []string{"payments", "credit_card_payments", "pix_payments", "payment_notifications", "payment_status_logs"} {
		require.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestNewDB_RejectsEmptyDSNAndUnknownDriver(t *testing.T) {
	l := zap.NewNop().Sugar()
	_, err := db.NewDB(l, &cfgpkg.Config{Database: cfgpkg.DBConfig{Driver: cfgpkg.DBDriverSQLite}})
	require.Error(t, err)

	_, err = db.NewDB(l, &cfgpkg.Config{Database: cfgpkg.DBConfig{Driver: "oracle", DSN: "x"}})
	require.Error(t, err)
}
