package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/tool"
	"github.com/fatflowers/paygate/pkg/types"
)

// pixProcessor issues a QR payload and leaves the payment PENDING until the arranger calls back.
type pixProcessor struct {
	validator  *requestValidator
	defaultTTL time.Duration
}

func (p *pixProcessor) Method() types.PaymentMethod { return types.PaymentMethodPix }

func (p *pixProcessor) Validate(details map[string]any, now time.Time) (any, error) {
	return p.validator.validatePix(details, now)
}

// pixQRCode builds the payload PIX*<payment id>*<amount>*<unix millis>.
func pixQRCode(payment *models.Payment, now time.Time) string {
	return fmt.Sprintf("PIX*%s*%s*%d", payment.ID, payment.Amount.StringFixed(2), now.UnixMilli())
}

func (p *pixProcessor) Process(ctx context.Context, tx store.Store, payment *models.Payment, details any, now time.Time) (*PaymentOutcome, error) {
	d, ok := details.(*PixDetails)
	if !ok || d == nil {
		return nil, processingErr("PIX details missing")
	}
	expiresAt := now.Add(p.defaultTTL)
	if d.ExpiresAt != nil {
		expiresAt = d.ExpiresAt.UTC()
	}
	pix := &models.PixPayment{
		PaymentID:     payment.ID,
		PixKey:        d.PixKey,
		QRCodeData:    pixQRCode(payment, now),
		Description:   d.Description,
		ExpiresAt:     expiresAt,
		TransactionID: tool.GenerateTransactionID(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.CreatePixPayment(ctx, pix); err != nil {
		return nil, err
	}

	out := baseOutcome(payment)
	pixDetails(out, pix)
	return out, nil
}

func pixDetails(out *PaymentOutcome, pix *models.PixPayment) {
	out.PaymentURL = pix.QRCodeData
	expiresAt := pix.ExpiresAt
	out.ExpiresAt = &expiresAt
	out.Details["pixKey"] = pix.PixKey
	out.Details["qrCodeData"] = pix.QRCodeData
	out.Details["transactionId"] = pix.TransactionID
	out.Details["description"] = pix.Description
	out.Details["paid"] = pix.Paid
	if pix.PaidAt != nil {
		out.Details["paidAt"] = pix.PaidAt.UTC().Format(time.RFC3339)
	}
}
