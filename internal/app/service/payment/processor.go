package payment

import (
	"context"
	"time"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/types"
)

// processor is the per-method strategy that turns a validated request into detail records.
type processor interface {
	Method() types.PaymentMethod
	// Validate decodes paymentDetails and applies the method's rules at now.
	Validate(details map[string]any, now time.Time) (any, error)
	// Process runs inside the creation transaction, after the PENDING payment row is written.
	Process(ctx context.Context, tx store.Store, p *models.Payment, details any, now time.Time) (*PaymentOutcome, error)
}

// authorizer is implemented by processors that talk to an acquirer before anything is written.
type authorizer interface {
	Authorize(ctx context.Context) error
}

func newProcessors(v *requestValidator, delay DelayFunc, pixTTL time.Duration) map[types.PaymentMethod]processor {
	procs := []processor{
		&creditCardProcessor{validator: v, delay: delay},
		&pixProcessor{validator: v, defaultTTL: pixTTL},
		&qrCodeProcessor{},
	}
	out := make(map[types.PaymentMethod]processor, len(procs))
	for _, p := range procs {
		out[p.Method()] = p
	}
	return out
}

func baseOutcome(p *models.Payment) *PaymentOutcome {
	createdAt := p.CreatedAt
	return &PaymentOutcome{
		ID:            p.ID,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		Details:       map[string]any{},
		CreatedAt:     &createdAt,
	}
}
