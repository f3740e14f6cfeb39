package models

import (
	"time"

	"github.com/fatflowers/paygate/pkg/card"
)

// CreditCardPayment holds the card side of a CREDIT_CARD payment. Written once, never updated.
type CreditCardPayment struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PaymentID string `gorm:"column:payment_id;type:uuid;not null;uniqueIndex" json:"paymentId"`
	// CardNumberHash is the SHA-256 of the card number; the raw number is never stored.
	CardNumberHash    string     `gorm:"column:card_number_hash;type:varchar(64);not null" json:"-"`
	CardHolderName    string     `gorm:"column:card_holder_name;type:varchar(255);not null" json:"cardHolderName"`
	Installments      int        `gorm:"column:installments;not null" json:"installments"`
	LastFourDigits    string     `gorm:"column:last_four_digits;type:varchar(4);not null" json:"lastFourDigits"`
	CardBrand         card.Brand `gorm:"column:card_brand;type:varchar(32);not null" json:"cardBrand"`
	AuthorizationCode string     `gorm:"column:authorization_code;type:varchar(16)" json:"authorizationCode"`
	TransactionID     string     `gorm:"column:transaction_id;type:varchar(64)" json:"transactionId"`
	ProcessedAt       time.Time  `gorm:"column:processed_at" json:"processedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func (CreditCardPayment) TableName() string {
	return "credit_card_payments"
}
