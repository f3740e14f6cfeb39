package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/types"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleState means a compare-and-set lost: the row no longer holds the expected state.
	ErrStaleState = errors.New("record state changed concurrently")
	// ErrIllegalTransition means the state machine forbids the requested status change.
	ErrIllegalTransition = errors.New("illegal payment status transition")
)

// Transition describes one status change of a payment.
type Transition struct {
	PaymentID string
	From      types.PaymentStatus
	To        types.PaymentStatus
	Reason    types.StatusChangeReason
	At        time.Time
	Extra     map[string]any
}

// PixSettlement is what the arranger reports once a PIX payment is paid.
type PixSettlement struct {
	TransactionID string
	PaidAt        time.Time
	PayerPixKey   string
	PayerBank     string
}

type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter
	From      int
	Size      int
	SortBy    string
	SortOrder string
}

type ScanPaymentsResponse struct {
	Items []*models.Payment
	Total int64
}

// Store is the persistence port of the payment engine.
type Store interface {
	// InTx runs fn inside one database transaction; fn must only use the Store it receives.
	InTx(ctx context.Context, fn func(tx Store) error) error

	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// TransitionPayment moves a payment from t.From to t.To atomically and records the change.
	// It returns ErrStaleState when the payment is no longer in t.From.
	TransitionPayment(ctx context.Context, t *Transition) error
	FindPaymentsByStatusAndMethod(ctx context.Context, status types.PaymentStatus, method types.PaymentMethod) ([]*models.Payment, error)
	ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error)

	CreateCreditCardPayment(ctx context.Context, cc *models.CreditCardPayment) error
	GetCreditCardPayment(ctx context.Context, paymentID string) (*models.CreditCardPayment, error)

	CreatePixPayment(ctx context.Context, pix *models.PixPayment) error
	GetPixPayment(ctx context.Context, paymentID string) (*models.PixPayment, error)
	// MarkPixPaid flips paid false -> true. It returns ErrStaleState when already paid.
	MarkPixPaid(ctx context.Context, paymentID string, s *PixSettlement) error

	CreateNotification(ctx context.Context, n *models.PaymentNotification) error
	UpdateNotification(ctx context.Context, n *models.PaymentNotification) error
	ListNotifications(ctx context.Context, paymentID string) ([]*models.PaymentNotification, error)

	ListStatusLogs(ctx context.Context, paymentID string) ([]*models.PaymentStatusLog, error)
}

// Module exposes the gorm backed Store via Fx.
var Module = fx.Options(
	fx.Provide(NewGormStore),
)
