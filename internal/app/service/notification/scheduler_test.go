package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/internal/testutil"
	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/types"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	msgs   []*Message
	failOn types.NotificationType
}

func (d *recordingDispatcher) Deliver(_ context.Context, msg *Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
	if msg.Channel == d.failOn {
		return errors.New("gateway unavailable")
	}
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.msgs)
}

func testConfig() *config.Config {
	return &config.Config{Notification: config.NotificationConfig{Workers: 2, QueueSize: 16, WebhookTimeout: time.Second}}
}

func seedPayment(t *testing.T, st store.Store, prefs *types.NotificationPreferences) *models.Payment {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Payment{
		PaymentMethod:           types.PaymentMethodPix,
		Amount:                  decimal.RequireFromString("42.50"),
		Currency:                "BRL",
		Status:                  types.PaymentStatusPending,
		NotificationPreferences: datatypes.NewJSONType(prefs),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	require.NoError(t, st.CreatePayment(context.Background(), p))
	return p
}

func newTestScheduler(t *testing.T, d Dispatcher) (*Scheduler, store.Store) {
	t.Helper()
	st := store.NewGormStore(testutil.NewTestDB(t))
	s := NewScheduler(testConfig(), zap.NewNop().Sugar(), st, d, nil)
	s.Start()
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s, st
}

func TestSchedule_RecordsEveryChannelIndependently(t *testing.T) {
	d := &recordingDispatcher{failOn: types.NotificationTypeSMS}
	s, st := newTestScheduler(t, d)
	p := seedPayment(t, st, &types.NotificationPreferences{
		EmailNotification: true,
		SmsNotification:   true,
		WebhookURL:        "https://merchant.example.com/hook",
	})

	s.Schedule(context.Background(), p, types.NotificationTriggerCreated)
	s.Drain()

	rows, err := st.ListNotifications(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	byType := map[types.NotificationType]*models.PaymentNotification{}
	for _, r := range rows {
		byType[r.Type] = r
		assert.Equal(t, types.NotificationTriggerCreated, r.Trigger)
		assert.Equal(t, "Payment has been created", r.Message)
	}
	assert.True(t, byType[types.NotificationTypeEmail].Successful)
	assert.True(t, byType[types.NotificationTypeWebhook].Successful)
	require.NotNil(t, byType[types.NotificationTypeWebhook].WebhookURL)
	assert.Equal(t, "https://merchant.example.com/hook", *byType[types.NotificationTypeWebhook].WebhookURL)

	sms := byType[types.NotificationTypeSMS]
	assert.False(t, sms.Successful)
	require.NotNil(t, sms.ErrorDetails)
	assert.Contains(t, *sms.ErrorDetails, "gateway unavailable")
}

func TestSchedule_NoPreferencesSchedulesNothing(t *testing.T) {
	d := &recordingDispatcher{}
	s, st := newTestScheduler(t, d)
	p := seedPayment(t, st, nil)

	s.Schedule(context.Background(), p, types.NotificationTriggerCreated)
	s.Schedule(context.Background(), p, types.NotificationTriggerCompleted)
	s.Drain()

	assert.Equal(t, 0, d.count())
	rows, err := st.ListNotifications(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSchedule_SystemTriggersFallBackToEmail(t *testing.T) {
	d := &recordingDispatcher{}
	s, st := newTestScheduler(t, d)
	p := seedPayment(t, st, nil)

	s.Schedule(context.Background(), p, types.NotificationTriggerExpired)
	s.Drain()

	rows, err := st.ListNotifications(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.NotificationTypeEmail, rows[0].Type)
	assert.Equal(t, "Payment has expired", rows[0].Message)
	assert.True(t, rows[0].Successful)
}

func TestPreferencesFor(t *testing.T) {
	only := &models.Payment{NotificationPreferences: datatypes.NewJSONType(&types.NotificationPreferences{
		SmsNotification: true,
		NotifyOn:        []string{string(types.NotificationTriggerCompleted)},
	})}
	assert.Nil(t, PreferencesFor(only, types.NotificationTriggerRefunded))
	assert.Equal(t, []types.NotificationType{types.NotificationTypeSMS}, PreferencesFor(only, types.NotificationTriggerCompleted).Channels())

	none := &models.Payment{}
	assert.Nil(t, PreferencesFor(none, types.NotificationTriggerCreated))
	assert.Equal(t, []types.NotificationType{types.NotificationTypeEmail}, PreferencesFor(none, types.NotificationTriggerRefunded).Channels())
}

func TestSchedule_DropsWhenQueueFullOrStopped(t *testing.T) {
	st := store.NewGormStore(testutil.NewTestDB(t))
	cfg := testConfig()
	cfg.Notification.QueueSize = 1
	d := &recordingDispatcher{}
	// not started: the queue only fills
	s := NewScheduler(cfg, zap.NewNop().Sugar(), st, d, nil)
	p := seedPayment(t, st, &types.NotificationPreferences{EmailNotification: true, SmsNotification: true})

	s.Schedule(context.Background(), p, types.NotificationTriggerCreated)
	assert.Len(t, s.tasks, 1)

	s.Start()
	s.Drain()
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, 1, d.count())

	s.Schedule(context.Background(), p, types.NotificationTriggerCreated)
	assert.Equal(t, 1, d.count())
}

func TestSchedule_OutlivesRequestContext(t *testing.T) {
	d := &recordingDispatcher{}
	s, st := newTestScheduler(t, d)
	p := seedPayment(t, st, &types.NotificationPreferences{EmailNotification: true})

	ctx, cancel := context.WithCancel(context.Background())
	s.Schedule(ctx, p, types.NotificationTriggerCreated)
	cancel()
	s.Drain()

	rows, err := st.ListNotifications(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Successful)
}
