package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/tool"
	"github.com/fatflowers/paygate/pkg/types"
)

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"amount":     true,
	"status":     true,
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func (s *GormStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return s.writeStatusLog(ctx, p.ID, p.PaymentMethod, &Transition{
		PaymentID: p.ID,
		To:        p.Status,
		Reason:    types.StatusChangeReasonCreated,
		At:        p.CreatedAt,
	})
}

func (s *GormStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, "payment "+id)
	}
	return &p, nil
}

func (s *GormStore) TransitionPayment(ctx context.Context, t *Transition) error {
	if !t.From.CanTransitionTo(t.To) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.From, t.To)
	}
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", t.PaymentID, t.From).
		Updates(map[string]any{"status": t.To, "updated_at": t.At})
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		p, err := s.GetPayment(ctx, t.PaymentID)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: payment %s is %s, expected %s", ErrStaleState, t.PaymentID, p.Status, t.From)
	}
	var methods []types.PaymentMethod
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", t.PaymentID).
		Pluck("payment_method", &methods).Error; err != nil {
		return fmt.Errorf("failed to load payment method: %w", err)
	}
	if len(methods) == 0 {
		return fmt.Errorf("%w: payment %s", ErrNotFound, t.PaymentID)
	}
	return s.writeStatusLog(ctx, t.PaymentID, methods[0], t)
}

func (s *GormStore) writeStatusLog(ctx context.Context, paymentID string, method types.PaymentMethod, t *Transition) error {
	extra := datatypes.JSONMap{}
	for k, v := range t.Extra {
		extra[k] = v
	}
	log := &models.PaymentStatusLog{
		ID:            tool.GenerateUUIDV7(),
		PaymentID:     paymentID,
		PaymentMethod: method,
		FromStatus:    t.From,
		ToStatus:      t.To,
		Reason:        t.Reason,
		Extra:         extra,
		CreatedAt:     t.At,
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to write payment status log: %w", err)
	}
	return nil
}

func (s *GormStore) FindPaymentsByStatusAndMethod(ctx context.Context, status types.PaymentStatus, method types.PaymentMethod) ([]*models.Payment, error) {
	var rows []*models.Payment
	if err := s.db.WithContext(ctx).
		Where("status = ? AND payment_method = ?", status, method).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	return rows, nil
}

// ScanPayments implements paginated listing with filters
func (s *GormStore) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 20
	}
	if req.From < 0 {
		req.From = 0
	}
	for _, f := range req.Filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&models.Payment{})
		if len(req.Filters) > 0 {
			tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
		}
		return tx
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	sortBy := lo.Ternary(sortableColumns[req.SortBy], req.SortBy, "created_at")
	q := base().Limit(req.Size).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})
	if req.From > 0 {
		q = q.Offset(req.From)
	}

	var rows []*models.Payment
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}

func (s *GormStore) CreateCreditCardPayment(ctx context.Context, cc *models.CreditCardPayment) error {
	if cc.ID == "" {
		cc.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(cc).Error; err != nil {
		return fmt.Errorf("failed to create credit card payment: %w", err)
	}
	return nil
}

func (s *GormStore) GetCreditCardPayment(ctx context.Context, paymentID string) (*models.CreditCardPayment, error) {
	var cc models.CreditCardPayment
	if err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&cc).Error; err != nil {
		return nil, notFound(err, "credit card payment "+paymentID)
	}
	return &cc, nil
}

func (s *GormStore) CreatePixPayment(ctx context.Context, pix *models.PixPayment) error {
	if pix.ID == "" {
		pix.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(pix).Error; err != nil {
		return fmt.Errorf("failed to create pix payment: %w", err)
	}
	return nil
}

func (s *GormStore) GetPixPayment(ctx context.Context, paymentID string) (*models.PixPayment, error) {
	var pix models.PixPayment
	if err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&pix).Error; err != nil {
		return nil, notFound(err, "pix payment "+paymentID)
	}
	return &pix, nil
}

func (s *GormStore) MarkPixPaid(ctx context.Context, paymentID string, st *PixSettlement) error {
	updates := map[string]any{
		"paid":       true,
		"paid_at":    st.PaidAt,
		"updated_at": st.PaidAt,
	}
	if st.TransactionID != "" {
		updates["settlement_transaction_id"] = st.TransactionID
	}
	if st.PayerPixKey != "" {
		updates["payer_pix_key"] = st.PayerPixKey
	}
	if st.PayerBank != "" {
		updates["payer_bank"] = st.PayerBank
	}
	res := s.db.WithContext(ctx).Model(&models.PixPayment{}).
		Where("payment_id = ? AND paid = ?", paymentID, false).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to mark pix payment paid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetPixPayment(ctx, paymentID); err != nil {
			return err
		}
		return fmt.Errorf("%w: pix payment %s already paid", ErrStaleState, paymentID)
	}
	return nil
}

func (s *GormStore) CreateNotification(ctx context.Context, n *models.PaymentNotification) error {
	if n.ID == "" {
		n.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateNotification(ctx context.Context, n *models.PaymentNotification) error {
	if err := s.db.WithContext(ctx).Model(n).
		Select("successful", "error_details", "message", "updated_at").
		Updates(n).Error; err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (s *GormStore) ListNotifications(ctx context.Context, paymentID string) ([]*models.PaymentNotification, error) {
	var rows []*models.PaymentNotification
	if err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("sent_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return rows, nil
}

func (s *GormStore) ListStatusLogs(ctx context.Context, paymentID string) ([]*models.PaymentStatusLog, error) {
	var rows []*models.PaymentStatusLog
	if err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list status logs: %w", err)
	}
	return rows, nil
}
