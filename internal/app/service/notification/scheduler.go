package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/metrics"
	"github.com/fatflowers/paygate/pkg/types"
)

var errQueueFull = errors.New("notification queue is full")

// Notifier schedules notifications for a payment event without blocking the caller.
type Notifier interface {
	Schedule(ctx context.Context, p *models.Payment, trigger types.NotificationTrigger)
}

// PreferencesFor resolves the channels used for trigger. Stored preferences win;
// refunds and expirations fall back to e-mail when the payment has none.
func PreferencesFor(p *models.Payment, trigger types.NotificationTrigger) *types.NotificationPreferences {
	prefs := p.Preferences()
	if !prefs.IsEmpty() {
		if prefs.Wants(trigger) {
			return prefs
		}
		return nil
	}
	switch trigger {
	case types.NotificationTriggerRefunded, types.NotificationTriggerExpired:
		return &types.NotificationPreferences{EmailNotification: true}
	}
	return nil
}

type task struct {
	ctx     context.Context
	payment models.Payment
	channel types.NotificationType
	trigger types.NotificationTrigger
	webhook string
}

// Scheduler is a bounded worker pool. Each channel of each event is one task:
// record the attempt, deliver it, record the outcome.
type Scheduler struct {
	log        *zap.SugaredLogger
	store      store.Store
	dispatcher Dispatcher
	metrics    *metrics.Business
	timeout    time.Duration
	workers    int
	now        func() time.Time

	tasks   chan *task
	mu      sync.RWMutex
	started bool
	closed  bool
	workWG  sync.WaitGroup
	pending sync.WaitGroup
}

func NewScheduler(cfg *config.Config, log *zap.SugaredLogger, st store.Store, d Dispatcher, m *metrics.Business) *Scheduler {
	workers := cfg.Notification.Workers
	if workers <= 0 {
		workers = 1
	}
	queue := cfg.Notification.QueueSize
	if queue <= 0 {
		queue = 64
	}
	timeout := cfg.Notification.WebhookTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Scheduler{
		log:        log,
		store:      st,
		dispatcher: d,
		metrics:    m,
		timeout:    timeout,
		workers:    workers,
		now:        func() time.Time { return time.Now().UTC() },
		tasks:      make(chan *task, queue),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	for i := 0; i < s.workers; i++ {
		s.workWG.Add(1)
		go s.work()
	}
}

// Stop refuses new tasks, lets queued ones finish and waits for the workers or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.tasks)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.workWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification workers did not stop: %w", ctx.Err())
	}
}

// Drain blocks until every task scheduled so far has been handled.
func (s *Scheduler) Drain() {
	s.pending.Wait()
}

func (s *Scheduler) Schedule(ctx context.Context, p *models.Payment, trigger types.NotificationTrigger) {
	if p == nil {
		return
	}
	log := logctx.FromCtx(ctx, s.log)
	prefs := PreferencesFor(p, trigger)
	channels := prefs.Channels()
	if len(channels) == 0 {
		return
	}
	bg := logctx.Detach(ctx)
	for _, ch := range channels {
		t := &task{ctx: bg, payment: *p, channel: ch, trigger: trigger}
		if ch == types.NotificationTypeWebhook {
			t.webhook = prefs.WebhookURL
		}
		if err := s.enqueue(t); err != nil {
			s.metrics.NotificationSent(string(ch), string(trigger), false)
			log.Warnw("notification_dropped", "payment_id", p.ID, "channel", ch, "trigger", trigger, "error", err)
		}
	}
}

func (s *Scheduler) enqueue(t *task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.New("notification scheduler stopped")
	}
	s.pending.Add(1)
	select {
	case s.tasks <- t:
		return nil
	default:
		s.pending.Done()
		return errQueueFull
	}
}

func (s *Scheduler) work() {
	defer s.workWG.Done()
	for t := range s.tasks {
		s.handle(t)
	}
}

func (s *Scheduler) handle(t *task) {
	defer s.pending.Done()
	log := logctx.FromCtx(t.ctx, s.log).With("payment_id", t.payment.ID, "channel", t.channel, "trigger", t.trigger)
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("notification_panic", "panic", r)
		}
	}()

	n := &models.PaymentNotification{
		PaymentID: t.payment.ID,
		Type:      t.channel,
		Trigger:   t.trigger,
		Message:   t.trigger.Message(),
		SentAt:    s.now(),
	}
	if t.webhook != "" {
		url := t.webhook
		n.WebhookURL = &url
	}
	if err := s.store.CreateNotification(t.ctx, n); err != nil {
		log.Errorw("notification_record_failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(t.ctx, s.timeout)
	err := s.dispatcher.Deliver(ctx, &Message{
		NotificationID: n.ID,
		PaymentID:      t.payment.ID,
		Channel:        t.channel,
		Trigger:        t.trigger,
		Text:           n.Message,
		Status:         t.payment.Status,
		PaymentMethod:  t.payment.PaymentMethod,
		Amount:         t.payment.Amount.StringFixed(2),
		Currency:       t.payment.Currency,
		WebhookURL:     t.webhook,
		OccurredAt:     n.SentAt,
	})
	cancel()

	if err != nil {
		reason := err.Error()
		n.ErrorDetails = &reason
		log.Warnw("notification_failed", "error", err)
	} else {
		n.Successful = true
	}
	s.metrics.NotificationSent(string(t.channel), string(t.trigger), n.Successful)
	if err := s.store.UpdateNotification(t.ctx, n); err != nil {
		log.Errorw("notification_outcome_record_failed", "notification_id", n.ID, "error", err)
	}
}
