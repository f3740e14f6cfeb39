package sweeper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/tool"
)

// Expirer is the slice of the payment engine the sweeper drives.
type Expirer interface {
	SweepExpiredPixPayments(ctx context.Context) (*payment.SweepResult, error)
}

// Sweeper periodically expires overdue PIX payments. One sweep runs at a time.
type Sweeper struct {
	log      *zap.SugaredLogger
	expirer  Expirer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg *config.Config, log *zap.SugaredLogger, e Expirer) *Sweeper {
	return &Sweeper{
		log:      log.With("component", "pix_sweeper"),
		expirer:  e,
		interval: cfg.Sweeper.Interval,
	}
}

// RunOnce performs a single sweep tagged with its own trace id.
func (s *Sweeper) RunOnce(ctx context.Context) (*payment.SweepResult, error) {
	ctx = context.WithValue(ctx, logctx.TraceIDKey, tool.GenerateUUIDV7())
	res, err := s.expirer.SweepExpiredPixPayments(ctx)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("sweep_failed", "error", err)
	}
	return res, err
}

// Start launches the ticker loop. Calling Start twice is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// Stop cancels the loop and waits for an in-flight sweep, or for ctx to end.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
