package models

import (
	"time"

	"github.com/fatflowers/paygate/pkg/types"
)

// PaymentNotification records one delivery attempt on one channel.
// Inserted with Successful=false before delivery, updated once with the outcome.
type PaymentNotification struct {
	ID           string                    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PaymentID    string                    `gorm:"column:payment_id;type:uuid;not null;index" json:"paymentId"`
	Type         types.NotificationType    `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Trigger      types.NotificationTrigger `gorm:"column:trigger_event;type:varchar(16);not null" json:"trigger"`
	Message      string                    `gorm:"column:message;type:varchar(255);not null" json:"message"`
	SentAt       time.Time                 `gorm:"column:sent_at;not null" json:"sentAt"`
	Successful   bool                      `gorm:"column:successful;not null;default:false" json:"successful"`
	ErrorDetails *string                   `gorm:"column:error_details;type:text" json:"errorDetails,omitempty"`
	WebhookURL   *string                   `gorm:"column:webhook_url;type:varchar(2048)" json:"webhookUrl,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

func (PaymentNotification) TableName() string { return "payment_notifications" }
