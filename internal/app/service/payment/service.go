package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/paygate/internal/app/service/notification"
	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/metrics"
	"github.com/fatflowers/paygate/pkg/tool"
	"github.com/fatflowers/paygate/pkg/types"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// Engine is the payment processing engine.
type Engine interface {
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentOutcome, error)
	GetPayment(ctx context.Context, id string) (*PaymentOutcome, error)
	RefundPayment(ctx context.Context, id string) (*PaymentOutcome, error)
	SearchPayments(ctx context.Context, req *SearchPaymentsRequest) (*SearchPaymentsResponse, error)
	GetNotifications(ctx context.Context, id string) ([]*models.PaymentNotification, error)
	HandlePixCallback(ctx context.Context, id string, req *PixCallbackRequest) error
	SweepExpiredPixPayments(ctx context.Context) (*SweepResult, error)
}

type Service struct {
	log        *zap.SugaredLogger
	store      store.Store
	notifier   notification.Notifier
	metrics    *metrics.Business
	validator  *requestValidator
	processors map[types.PaymentMethod]processor
	delay      DelayFunc
	now        func() time.Time
	pixTTL     time.Duration
}

type Option func(*Service)

// WithDelay replaces the simulated acquirer latency used by card payments and refunds.
func WithDelay(d DelayFunc) Option {
	return func(s *Service) { s.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, st store.Store, n notification.Notifier, m *metrics.Business, opts ...Option) *Service {
	s := &Service{
		log:       log,
		store:     st,
		notifier:  n,
		metrics:   m,
		validator: newRequestValidator(),
		delay:     RandomDelay(cfg.Payment.ProcessingDelayMin, cfg.Payment.ProcessingDelayMax),
		now:       func() time.Time { return time.Now().UTC() },
		pixTTL:    cfg.Payment.PixDefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pixTTL <= 0 {
		s.pixTTL = 24 * time.Hour
	}
	s.processors = newProcessors(s.validator, s.delay, s.pixTTL)
	return s
}

// NewEngine is the Fx constructor.
func NewEngine(cfg *config.Config, log *zap.SugaredLogger, st store.Store, n notification.Notifier, m *metrics.Business) Engine {
	return NewService(cfg, log, st, n, m)
}

func (s *Service) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentOutcome, error) {
	start := time.Now()
	log := logctx.FromCtx(ctx, s.log)

	if err := s.validator.validateCreate(req); err != nil {
		log.Infow("payment_rejected", "error", err)
		return nil, err
	}
	proc, ok := s.processors[req.PaymentMethod]
	if !ok {
		return nil, validationErr(fmt.Sprintf("unsupported payment method: %s", req.PaymentMethod), nil)
	}
	details, err := proc.Validate(req.PaymentDetails, s.now())
	if err != nil {
		log.Infow("payment_rejected", "method", req.PaymentMethod, "error", err)
		return nil, err
	}
	if a, ok := proc.(authorizer); ok {
		if err := a.Authorize(ctx); err != nil {
			return nil, err
		}
	}

	now := s.now()
	p := &models.Payment{
		ID:                      tool.GenerateUUIDV7(),
		PaymentMethod:           req.PaymentMethod,
		Amount:                  req.Amount.Round(2),
		Currency:                req.Currency,
		Status:                  types.PaymentStatusPending,
		NotificationPreferences: datatypes.NewJSONType(req.NotificationPreferences),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	var out *PaymentOutcome
	err = s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.CreatePayment(ctx, p); err != nil {
			return err
		}
		var err error
		out, err = proc.Process(ctx, tx, p, details, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrProcessing) {
			log.Warnw("payment_processing_failed", "method", req.PaymentMethod, "error", err)
			return nil, err
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.metrics.PaymentCreated(string(p.PaymentMethod), string(p.Status))
	s.metrics.ObserveProcess("create_payment", string(p.PaymentMethod), start)
	log.Infow("payment_created", "payment_id", p.ID, "method", p.PaymentMethod, "status", p.Status, "amount", out.Amount, "currency", p.Currency)

	s.notifier.Schedule(ctx, p, types.NotificationTriggerCreated)
	return out, nil
}

func (s *Service) loadPayment(ctx context.Context, st store.Store, id string) (*models.Payment, error) {
	p, err := st.GetPayment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundErr(id)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (*PaymentOutcome, error) {
	p, err := s.loadPayment(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	out := baseOutcome(p)
	switch p.PaymentMethod {
	case types.PaymentMethodCreditCard:
		cc, err := s.store.GetCreditCardPayment(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if cc != nil {
			creditCardDetails(out, cc)
		}
	case types.PaymentMethodPix:
		pix, err := s.store.GetPixPayment(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if pix != nil {
			pixDetails(out, pix)
		}
	}
	return out, nil
}

func (s *Service) RefundPayment(ctx context.Context, id string) (*PaymentOutcome, error) {
	log := logctx.FromCtx(ctx, s.log)
	p, err := s.loadPayment(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if p.Status != types.PaymentStatusCompleted {
		return nil, invalidStatusErr("only completed payments can be refunded, payment %s is %s", id, p.Status)
	}
	if err := s.delay(ctx); err != nil {
		return nil, processingErr("refund interrupted: %v", err)
	}

	now := s.now()
	err = s.store.InTx(ctx, func(tx store.Store) error {
		return tx.TransitionPayment(ctx, &store.Transition{
			PaymentID: id,
			From:      types.PaymentStatusCompleted,
			To:        types.PaymentStatusRefunded,
			Reason:    types.StatusChangeReasonRefund,
			At:        now,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrStaleState) {
			return nil, invalidStatusErr("payment %s changed status during refund", id)
		}
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}
	p.Status = types.PaymentStatusRefunded
	p.UpdatedAt = now

	s.metrics.PaymentTransitioned(string(p.Status), string(types.StatusChangeReasonRefund))
	log.Infow("payment_refunded", "payment_id", id, "amount", p.Amount.StringFixed(2), "currency", p.Currency)
	s.notifier.Schedule(ctx, p, types.NotificationTriggerRefunded)

	return &PaymentOutcome{
		ID:      id,
		Status:  types.PaymentStatusRefunded,
		Details: map[string]any{"refundedAt": now.Format(time.RFC3339)},
	}, nil
}

func (s *Service) SearchPayments(ctx context.Context, req *SearchPaymentsRequest) (*SearchPaymentsResponse, error) {
	if req == nil {
		req = &SearchPaymentsRequest{}
	}
	fields := map[string]string{}
	if req.Status != nil && !req.Status.Valid() {
		fields["status"] = fmt.Sprintf("unknown status %q", *req.Status)
	}
	if req.Method != nil && !req.Method.Valid() {
		fields["method"] = fmt.Sprintf("unknown payment method %q", *req.Method)
	}
	if req.Page < 0 {
		fields["page"] = "must not be negative"
	}
	if req.Size < 0 || req.Size > maxSearchSize {
		fields["size"] = fmt.Sprintf("must be between 1 and %d", maxSearchSize)
	}
	end := s.now()
	if req.EndDate != nil {
		end = req.EndDate.UTC()
	}
	if req.StartDate != nil && req.StartDate.After(end) {
		fields["startDate"] = "must not be after endDate"
	}
	if len(fields) > 0 {
		return nil, validationErr("invalid search request", fields)
	}
	size := req.Size
	if size == 0 {
		size = defaultSearchSize
	}

	filters := []*types.CommonFilter{
		{Field: "created_at", Operator: types.CommonFilterOperatorLte, Values: []any{end}},
	}
	if req.StartDate != nil {
		filters = append(filters, &types.CommonFilter{Field: "created_at", Operator: types.CommonFilterOperatorGte, Values: []any{req.StartDate.UTC()}})
	}
	if req.Status != nil {
		filters = append(filters, &types.CommonFilter{Field: "status", Operator: types.CommonFilterOperatorEq, Values: []any{*req.Status}})
	}
	if req.Method != nil {
		filters = append(filters, &types.CommonFilter{Field: "payment_method", Operator: types.CommonFilterOperatorEq, Values: []any{*req.Method}})
	}

	res, err := s.store.ScanPayments(ctx, &store.ScanPaymentsRequest{
		Filters: filters,
		From:    req.Page * size,
		Size:    size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search payments: %w", err)
	}
	items := make([]*PaymentOutcome, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, baseOutcome(p))
	}
	return &SearchPaymentsResponse{
		Items:      items,
		Page:       req.Page,
		Size:       size,
		Total:      res.Total,
		TotalPages: int((res.Total + int64(size) - 1) / int64(size)),
	}, nil
}

func (s *Service) GetNotifications(ctx context.Context, id string) ([]*models.PaymentNotification, error) {
	if _, err := s.loadPayment(ctx, s.store, id); err != nil {
		return nil, err
	}
	return s.store.ListNotifications(ctx, id)
}

// HandlePixCallback settles a PIX payment. Only the first callback succeeds; later ones fail with ErrProcessing.
func (s *Service) HandlePixCallback(ctx context.Context, id string, req *PixCallbackRequest) error {
	log := logctx.FromCtx(ctx, s.log).With("payment_id", id)
	if req == nil {
		req = &PixCallbackRequest{}
	}
	if err := s.validator.validateCallback(req); err != nil {
		return err
	}
	now := s.now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	var p *models.Payment
	err := s.store.InTx(ctx, func(tx store.Store) error {
		var err error
		if p, err = s.loadPayment(ctx, tx, id); err != nil {
			return err
		}
		if p.PaymentMethod != types.PaymentMethodPix {
			return processingErr("payment %s is not a PIX payment", id)
		}
		pix, err := tx.GetPixPayment(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return processingErr("PIX payment detail missing for payment %s", id)
			}
			return err
		}
		if pix.Paid {
			return processingErr("payment %s already processed", id)
		}
		if p.Status != types.PaymentStatusPending {
			return invalidStatusErr("PIX payment %s is %s and can no longer be settled", id, p.Status)
		}
		if err := tx.MarkPixPaid(ctx, id, &store.PixSettlement{
			TransactionID: req.TransactionID,
			PaidAt:        paidAt,
			PayerPixKey:   req.PayerPixKey,
			PayerBank:     req.PayerBank,
		}); err != nil {
			if errors.Is(err, store.ErrStaleState) {
				return processingErr("payment %s already processed", id)
			}
			return err
		}
		if err := tx.TransitionPayment(ctx, &store.Transition{
			PaymentID: id,
			From:      types.PaymentStatusPending,
			To:        types.PaymentStatusCompleted,
			Reason:    types.StatusChangeReasonPixSettled,
			At:        now,
			Extra:     map[string]any{"settlementTransactionId": req.TransactionID, "payerBank": req.PayerBank},
		}); err != nil {
			if errors.Is(err, store.ErrStaleState) {
				return invalidStatusErr("PIX payment %s changed status during settlement", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		log.Warnw("pix_callback_rejected", "transaction_id", req.TransactionID, "error", err)
		return err
	}
	p.Status = types.PaymentStatusCompleted
	p.UpdatedAt = now

	s.metrics.PaymentTransitioned(string(p.Status), string(types.StatusChangeReasonPixSettled))
	log.Infow("pix_payment_settled", "transaction_id", req.TransactionID, "paid_at", paidAt)
	s.notifier.Schedule(ctx, p, types.NotificationTriggerCompleted)
	return nil
}

// SweepExpiredPixPayments expires PENDING PIX payments whose QR code is past due and unpaid.
// A broken item is counted as failed and the sweep moves on.
func (s *Service) SweepExpiredPixPayments(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	log := logctx.FromCtx(ctx, s.log)

	pending, err := s.store.FindPaymentsByStatusAndMethod(ctx, types.PaymentStatusPending, types.PaymentMethodPix)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending PIX payments: %w", err)
	}
	res := &SweepResult{Scanned: len(pending)}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		expired, err := s.expirePix(ctx, p)
		switch {
		case err != nil:
			res.Failed++
			log.Errorw("pix_expiry_failed", "payment_id", p.ID, "error", err)
		case expired:
			res.Expired++
		default:
			res.Skipped++
		}
	}

	s.metrics.PaymentsExpired(res.Expired)
	s.metrics.ObserveProcess("sweep", string(types.PaymentMethodPix), start)
	if res.Expired > 0 || res.Failed > 0 {
		log.Infow("sweep_completed", "scanned", res.Scanned, "expired", res.Expired, "failed", res.Failed)
	} else {
		log.Debugw("sweep_completed", "scanned", res.Scanned)
	}
	return res, nil
}

func (s *Service) expirePix(ctx context.Context, p *models.Payment) (bool, error) {
	now := s.now()
	expired := false
	err := s.store.InTx(ctx, func(tx store.Store) error {
		pix, err := tx.GetPixPayment(ctx, p.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return processingErr("PIX payment detail missing for payment %s", p.ID)
			}
			return err
		}
		if !pix.ExpiredAt(now) {
			return nil
		}
		err = tx.TransitionPayment(ctx, &store.Transition{
			PaymentID: p.ID,
			From:      types.PaymentStatusPending,
			To:        types.PaymentStatusExpired,
			Reason:    types.StatusChangeReasonPixExpired,
			At:        now,
			Extra:     map[string]any{"expiresAt": pix.ExpiresAt.Format(time.RFC3339)},
		})
		if errors.Is(err, store.ErrStaleState) {
			// settled or expired by someone else since the scan
			return nil
		}
		if err != nil {
			return err
		}
		expired = true
		return nil
	})
	if err != nil || !expired {
		return false, err
	}
	p.Status = types.PaymentStatusExpired
	p.UpdatedAt = now
	s.metrics.PaymentTransitioned(string(p.Status), string(types.StatusChangeReasonPixExpired))
	logctx.FromCtx(ctx, s.log).Infow("pix_payment_expired", "payment_id", p.ID)
	s.notifier.Schedule(ctx, p, types.NotificationTriggerExpired)
	return true, nil
}
