package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/internal/testutil"
	"github.com/fatflowers/paygate/pkg/types"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewGormStore(testutil.NewTestDB(t))
}

func seedPayment(t *testing.T, s store.Store, method types.PaymentMethod, status types.PaymentStatus, createdAt time.Time) *models.Payment {
	t.Helper()
	p := &models.Payment{
		PaymentMethod:           method,
		Amount:                  decimal.RequireFromString("100.00"),
		Currency:                "BRL",
		Status:                  status,
		NotificationPreferences: datatypes.NewJSONType(&types.NotificationPreferences{EmailNotification: true}),
		CreatedAt:               createdAt,
		UpdatedAt:               createdAt,
	}
	require.NoError(t, s.CreatePayment(context.Background(), p))
	return p
}

func TestCreateAndGetPayment(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	p := seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, now)
	require.NotEmpty(t, p.ID)

	got, err := s.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusPending, got.Status)
	assert.True(t, decimal.RequireFromString("100").Equal(got.Amount))
	require.NotNil(t, got.Preferences())
	assert.True(t, got.Preferences().EmailNotification)

	logs, err := s.ListStatusLogs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, types.StatusChangeReasonCreated, logs[0].Reason)
	assert.Equal(t, types.PaymentStatus(""), logs[0].FromStatus)
}

func TestGetPayment_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.GetPayment(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetPixPayment(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransitionPayment(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedPayment(t, s, types.PaymentMethodCreditCard, types.PaymentStatusPending, time.Now().UTC())

	err := s.TransitionPayment(ctx, &store.Transition{
		PaymentID: p.ID, From: types.PaymentStatusPending, To: types.PaymentStatusCompleted,
		Reason: types.StatusChangeReasonCardAuthorized, At: time.Now().UTC(),
		Extra: map[string]any{"authorization_code": "ABCD1234"},
	})
	require.NoError(t, err)

	got, err := s.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusCompleted, got.Status)

	// expected state no longer holds
	err = s.TransitionPayment(ctx, &store.Transition{
		PaymentID: p.ID, From: types.PaymentStatusPending, To: types.PaymentStatusExpired, At: time.Now().UTC(),
	})
	require.ErrorIs(t, err, store.ErrStaleState)

	// not a legal edge at all
	err = s.TransitionPayment(ctx, &store.Transition{
		PaymentID: p.ID, From: types.PaymentStatusRefunded, To: types.PaymentStatusCompleted, At: time.Now().UTC(),
	})
	require.ErrorIs(t, err, store.ErrIllegalTransition)

	logs, err := s.ListStatusLogs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, types.PaymentStatusCompleted, logs[1].ToStatus)
	assert.Equal(t, types.PaymentMethodCreditCard, logs[1].PaymentMethod)
	assert.Equal(t, "ABCD1234", logs[1].Extra["authorization_code"])
}

func TestTransitionPayment_InTxWithSettlement(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, time.Now().UTC())
	require.NoError(t, s.CreatePixPayment(ctx, &models.PixPayment{
		PaymentID:     p.ID,
		PixKey:        "merchant@pix",
		QRCodeData:    "PIX*x*100.00*1",
		ExpiresAt:     time.Now().Add(time.Hour).UTC(),
		TransactionID: "tx-1",
	}))

	now := time.Now().UTC()
	require.NoError(t, s.InTx(ctx, func(tx store.Store) error {
		if err := tx.MarkPixPaid(ctx, p.ID, &store.PixSettlement{TransactionID: "settle-1", PaidAt: now}); err != nil {
			return err
		}
		return tx.TransitionPayment(ctx, &store.Transition{
			PaymentID: p.ID, From: types.PaymentStatusPending, To: types.PaymentStatusCompleted,
			Reason: types.StatusChangeReasonPixSettled, At: now,
		})
	}))

	logs, err := s.ListStatusLogs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, types.PaymentMethodPix, logs[1].PaymentMethod)
	assert.Equal(t, types.StatusChangeReasonPixSettled, logs[1].Reason)

	// a stale transition inside a tx rolls back the settlement with it
	other := seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, time.Now().UTC())
	require.NoError(t, s.CreatePixPayment(ctx, &models.PixPayment{
		PaymentID:     other.ID,
		PixKey:        "merchant@pix",
		QRCodeData:    "PIX*y*100.00*1",
		ExpiresAt:     time.Now().Add(-time.Hour).UTC(),
		TransactionID: "tx-2",
	}))
	require.NoError(t, s.TransitionPayment(ctx, &store.Transition{
		PaymentID: other.ID, From: types.PaymentStatusPending, To: types.PaymentStatusExpired,
		Reason: types.StatusChangeReasonPixExpired, At: now,
	}))
	err = s.InTx(ctx, func(tx store.Store) error {
		if err := tx.MarkPixPaid(ctx, other.ID, &store.PixSettlement{TransactionID: "late", PaidAt: now}); err != nil {
			return err
		}
		return tx.TransitionPayment(ctx, &store.Transition{
			PaymentID: other.ID, From: types.PaymentStatusPending, To: types.PaymentStatusCompleted, At: now,
		})
	})
	require.ErrorIs(t, err, store.ErrStaleState)
	pix, err := s.GetPixPayment(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, pix.Paid)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	var id string
	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Store) error {
		p := seedPayment(t, tx, types.PaymentMethodQRCode, types.PaymentStatusPending, time.Now().UTC())
		id = p.ID
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = s.GetPayment(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkPixPaid_OnlyOnce(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, time.Now().UTC())
	require.NoError(t, s.CreatePixPayment(ctx, &models.PixPayment{
		PaymentID:     p.ID,
		PixKey:        "merchant@pix",
		QRCodeData:    "PIX*x*100.00*1",
		ExpiresAt:     time.Now().Add(time.Hour).UTC(),
		TransactionID: "tx-1",
	}))

	paidAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.MarkPixPaid(ctx, p.ID, &store.PixSettlement{TransactionID: "settle-1", PaidAt: paidAt, PayerBank: "Banco"}))

	err := s.MarkPixPaid(ctx, p.ID, &store.PixSettlement{TransactionID: "settle-2", PaidAt: paidAt.Add(time.Minute)})
	require.ErrorIs(t, err, store.ErrStaleState)

	pix, err := s.GetPixPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, pix.Paid)
	require.NotNil(t, pix.PaidAt)
	assert.True(t, paidAt.Equal(*pix.PaidAt))
	require.NotNil(t, pix.SettlementTransactionID)
	assert.Equal(t, "settle-1", *pix.SettlementTransactionID)
	assert.Nil(t, pix.PayerPixKey)

	err = s.MarkPixPaid(ctx, "00000000-0000-0000-0000-000000000000", &store.PixSettlement{PaidAt: paidAt})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransitionPayment_ConcurrentSingleWinner(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, time.Now().UTC())

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.InTx(ctx, func(tx store.Store) error {
				return tx.TransitionPayment(ctx, &store.Transition{
					PaymentID: p.ID, From: types.PaymentStatusPending, To: types.PaymentStatusExpired,
					Reason: types.StatusChangeReasonPixExpired, At: time.Now().UTC(),
				})
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, store.ErrStaleState)
	}
	assert.Equal(t, 1, ok)
}

func TestFindPaymentsByStatusAndMethod(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC()
	seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, now)
	seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusCompleted, now)
	seedPayment(t, s, types.PaymentMethodQRCode, types.PaymentStatusPending, now)

	rows, err := s.FindPaymentsByStatusAndMethod(context.Background(), types.PaymentStatusPending, types.PaymentMethodPix)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.PaymentMethodPix, rows[0].PaymentMethod)
}

func TestScanPayments(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, base.Add(time.Duration(i)*time.Hour))
	}
	seedPayment(t, s, types.PaymentMethodCreditCard, types.PaymentStatusCompleted, base)

	resp, err := s.ScanPayments(ctx, &store.ScanPaymentsRequest{
		Filters: []*types.CommonFilter{
			{Field: "status", Operator: types.CommonFilterOperatorEq, Values: []any{types.PaymentStatusPending}},
			{Field: "created_at", Operator: types.CommonFilterOperatorDateRange, Values: []any{base, base.Add(4 * time.Hour)}},
		},
		Size: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, resp.Total)
	require.Len(t, resp.Items, 2)
	// newest first by default
	assert.True(t, resp.Items[0].CreatedAt.After(resp.Items[1].CreatedAt))

	resp, err = s.ScanPayments(ctx, &store.ScanPaymentsRequest{From: 4, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 6, resp.Total)
	assert.Len(t, resp.Items, 2)

	_, err = s.ScanPayments(ctx, &store.ScanPaymentsRequest{
		Filters: []*types.CommonFilter{{Field: "card_number_hash", Operator: types.CommonFilterOperatorEq, Values: []any{"x"}}},
	})
	require.Error(t, err)
}

func TestNotifications_CreateUpdateList(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedPayment(t, s, types.PaymentMethodPix, types.PaymentStatusPending, time.Now().UTC())

	n := &models.PaymentNotification{
		PaymentID: p.ID,
		Type:      types.NotificationTypeEmail,
		Trigger:   types.NotificationTriggerCreated,
		Message:   types.NotificationTriggerCreated.Message(),
		SentAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateNotification(ctx, n))

	reason := "smtp down"
	n.ErrorDetails = &reason
	require.NoError(t, s.UpdateNotification(ctx, n))

	rows, err := s.ListNotifications(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Successful)
	require.NotNil(t, rows[0].ErrorDetails)
	assert.Equal(t, reason, *rows[0].ErrorDetails)
	assert.Equal(t, types.NotificationTriggerCreated, rows[0].Trigger)
}
