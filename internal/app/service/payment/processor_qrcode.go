package payment

import (
	"context"
	"time"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/types"
)

// qrCodeProcessor accepts the method but rejects every request; its rollback leaves nothing behind.
type qrCodeProcessor struct{}

func (p *qrCodeProcessor) Method() types.PaymentMethod { return types.PaymentMethodQRCode }

func (p *qrCodeProcessor) Validate(map[string]any, time.Time) (any, error) { return nil, nil }

func (p *qrCodeProcessor) Process(context.Context, store.Store, *models.Payment, any, time.Time) (*PaymentOutcome, error) {
	return nil, processingErr("QR code payment processing not implemented")
}
