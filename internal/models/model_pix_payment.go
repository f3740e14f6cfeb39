package models

import "time"

// PixPayment holds the PIX side of a payment. Created unpaid, flipped to paid exactly once.
type PixPayment struct {
	ID          string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PaymentID   string    `gorm:"column:payment_id;type:uuid;not null;uniqueIndex" json:"paymentId"`
	PixKey      string    `gorm:"column:pix_key;type:varchar(255);not null" json:"pixKey"`
	QRCodeData  string    `gorm:"column:qr_code_data;type:text;not null" json:"qrCodeData"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null" json:"expiresAt"`
	// TransactionID is generated at creation and handed to the payer.
	TransactionID string `gorm:"column:transaction_id;type:varchar(64)" json:"transactionId"`
	// SettlementTransactionID is reported by the arranger in the settlement callback.
	SettlementTransactionID *string    `gorm:"column:settlement_transaction_id;type:varchar(64)" json:"settlementTransactionId"`
	Paid                    bool       `gorm:"column:paid;not null;default:false" json:"paid"`
	PaidAt                  *time.Time `gorm:"column:paid_at;default:null" json:"paidAt"`
	PayerPixKey             *string    `gorm:"column:payer_pix_key;type:varchar(255)" json:"payerPixKey"`
	PayerBank               *string    `gorm:"column:payer_bank;type:varchar(255)" json:"payerBank"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

func (PixPayment) TableName() string {
	return "pix_payments"
}

// ExpiredAt reports whether the QR code can no longer be paid at t.
func (p *PixPayment) ExpiredAt(t time.Time) bool {
	return p != nil && !p.Paid && t.After(p.ExpiresAt)
}
