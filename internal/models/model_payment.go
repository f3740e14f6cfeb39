package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/fatflowers/paygate/pkg/types"
)

// Payment is the root aggregate. Status only changes through types.PaymentStatus.CanTransitionTo.
type Payment struct {
	ID            string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PaymentMethod types.PaymentMethod `gorm:"column:payment_method;type:varchar(32);not null;index:idx_payment_status_method,priority:2" json:"paymentMethod"`
	// Amount is kept as an exact decimal, never a float.
	Amount   decimal.Decimal     `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Currency string              `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	Status   types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index:idx_payment_status_method,priority:1" json:"status"`
	// NotificationPreferences as supplied at creation; reused for later payment events.
	NotificationPreferences datatypes.JSONType[*types.NotificationPreferences] `gorm:"column:notification_preferences;type:jsonb" json:"notificationPreferences"`
	CreatedAt               time.Time                                          `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt               time.Time                                          `gorm:"column:updated_at" json:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) Preferences() *types.NotificationPreferences {
	if p == nil {
		return nil
	}
	return p.NotificationPreferences.Data()
}
