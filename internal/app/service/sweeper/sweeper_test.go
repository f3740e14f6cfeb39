package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/logctx"
)

type countingExpirer struct {
	calls   atomic.Int32
	err     error
	traceID atomic.Value
}

func (e *countingExpirer) SweepExpiredPixPayments(ctx context.Context) (*payment.SweepResult, error) {
	e.calls.Add(1)
	if tid, ok := ctx.Value(logctx.TraceIDKey).(string); ok {
		e.traceID.Store(tid)
	}
	return &payment.SweepResult{}, e.err
}

func newSweeper(e Expirer, interval time.Duration) *Sweeper {
	return New(&config.Config{Sweeper: config.SweeperConfig{Enabled: true, Interval: interval}}, zap.NewNop().Sugar(), e)
}

func TestSweeper_TicksUntilStopped(t *testing.T) {
	e := &countingExpirer{}
	s := newSweeper(e, 5*time.Millisecond)
	s.Start()
	s.Start()

	assert.Eventually(t, func() bool { return e.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	after := e.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, e.calls.Load())
	require.NoError(t, s.Stop(context.Background()))
}

func TestSweeper_KeepsGoingAfterErrors(t *testing.T) {
	e := &countingExpirer{err: errors.New("database is locked")}
	s := newSweeper(e, 5*time.Millisecond)
	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	assert.Eventually(t, func() bool { return e.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSweeper_RunOnceTagsTrace(t *testing.T) {
	e := &countingExpirer{}
	s := newSweeper(e, time.Hour)
	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.NotEmpty(t, e.traceID.Load())
}
