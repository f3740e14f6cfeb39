package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fatflowers/paygate/pkg/types"
)

// PaymentStatusLog is the audit trail of payment status changes, used for troubleshooting.
// It is written in the same database transaction as the change it describes.
type PaymentStatusLog struct {
	ID            string              `gorm:"column:id;primary_key;type:uuid;index:idx_status_log_payment_id_id,priority:2,sort:desc"`
	PaymentID     string              `gorm:"column:payment_id;type:uuid;not null;index:idx_status_log_payment_id_id,priority:1"`
	PaymentMethod types.PaymentMethod `gorm:"column:payment_method;type:varchar(32);not null"`
	// FromStatus is empty for the creation entry.
	FromStatus types.PaymentStatus      `gorm:"column:from_status;type:varchar(32)"`
	ToStatus   types.PaymentStatus      `gorm:"column:to_status;type:varchar(32);not null"`
	Reason     types.StatusChangeReason `gorm:"column:reason;type:varchar(64);not null"`
	// Extra carries context such as the settlement transaction id.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (PaymentStatusLog) TableName() string {
	return "payment_status_logs"
}
