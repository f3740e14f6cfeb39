package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/paygate/pkg/types"
)

type CreatePaymentRequest struct {
	Amount                  decimal.Decimal                `json:"amount" swaggertype:"string" example:"100.00"`
	Currency                string                         `json:"currency" binding:"required,len=3,alpha" example:"BRL"`
	PaymentMethod           types.PaymentMethod            `json:"paymentMethod" binding:"required" example:"PIX"`
	PaymentDetails          map[string]any                 `json:"paymentDetails" binding:"required"`
	NotificationPreferences *types.NotificationPreferences `json:"notificationPreferences"`
}

// CreditCardDetails is the decoded paymentDetails of a CREDIT_CARD request.
type CreditCardDetails struct {
	CardNumber     string `mapstructure:"cardNumber" binding:"required"`
	CardHolderName string `mapstructure:"cardHolderName" binding:"required,max=255"`
	ExpirationDate string `mapstructure:"expirationDate" binding:"required"`
	CVV            string `mapstructure:"cvv" binding:"required,numeric,min=3,max=4"`
	Installments   *int   `mapstructure:"installments"`
	SaveCard       bool   `mapstructure:"saveCard"`
}

// PixDetails is the decoded paymentDetails of a PIX request.
type PixDetails struct {
	PixKey      string     `mapstructure:"pixKey" binding:"required,max=255"`
	ExpiresAt   *time.Time `mapstructure:"expiresAt"`
	Description string     `mapstructure:"description" binding:"max=255"`
}

// PixCallbackRequest is the settlement confirmation sent by the PIX arranger.
type PixCallbackRequest struct {
	TransactionID string     `json:"transactionId" binding:"max=64"`
	PaidAt        *time.Time `json:"paidAt"`
	PayerPixKey   string     `json:"payerPixKey" binding:"max=255"`
	PayerBank     string     `json:"payerBank" binding:"max=255"`
}

// PaymentOutcome is what callers see of a payment after an operation.
type PaymentOutcome struct {
	ID            string              `json:"id"`
	Status        types.PaymentStatus `json:"status"`
	PaymentMethod types.PaymentMethod `json:"paymentMethod,omitempty"`
	Amount        string              `json:"amount,omitempty"`
	Currency      string              `json:"currency,omitempty"`
	// PaymentURL carries the QR payload for PIX payments.
	PaymentURL string         `json:"paymentUrl,omitempty"`
	Details    map[string]any `json:"additionalInfo"`
	ExpiresAt  *time.Time     `json:"expiresAt,omitempty"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty"`
}

// SearchPaymentsRequest filters payments; nil fields do not filter.
type SearchPaymentsRequest struct {
	Status    *types.PaymentStatus
	Method    *types.PaymentMethod
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Size      int
}

type SearchPaymentsResponse struct {
	Items      []*PaymentOutcome `json:"items"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

type SweepResult struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
