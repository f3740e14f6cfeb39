package payment

import (
	"context"
	"time"

	"github.com/fatflowers/paygate/internal/app/store"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/card"
	"github.com/fatflowers/paygate/pkg/tool"
	"github.com/fatflowers/paygate/pkg/types"
)

// creditCardProcessor settles synchronously: the card is authorized and the payment completed in one go.
type creditCardProcessor struct {
	validator *requestValidator
	delay     DelayFunc
}

func (p *creditCardProcessor) Method() types.PaymentMethod { return types.PaymentMethodCreditCard }

func (p *creditCardProcessor) Validate(details map[string]any, now time.Time) (any, error) {
	return p.validator.validateCreditCard(details, now)
}

func (p *creditCardProcessor) Authorize(ctx context.Context) error {
	if err := p.delay(ctx); err != nil {
		return processingErr("card authorization interrupted: %v", err)
	}
	return nil
}

func (p *creditCardProcessor) Process(ctx context.Context, tx store.Store, payment *models.Payment, details any, now time.Time) (*PaymentOutcome, error) {
	d, ok := details.(*CreditCardDetails)
	if !ok || d == nil {
		return nil, processingErr("credit card details missing")
	}
	cc := &models.CreditCardPayment{
		PaymentID:         payment.ID,
		CardNumberHash:    card.Hash(d.CardNumber),
		CardHolderName:    d.CardHolderName,
		Installments:      *d.Installments,
		LastFourDigits:    card.LastFour(d.CardNumber),
		CardBrand:         card.DetectBrand(d.CardNumber),
		AuthorizationCode: tool.GenerateAuthorizationCode(),
		TransactionID:     tool.GenerateTransactionID(),
		ProcessedAt:       now,
		CreatedAt:         now,
	}
	if err := tx.CreateCreditCardPayment(ctx, cc); err != nil {
		return nil, err
	}
	if err := tx.TransitionPayment(ctx, &store.Transition{
		PaymentID: payment.ID,
		From:      types.PaymentStatusPending,
		To:        types.PaymentStatusCompleted,
		Reason:    types.StatusChangeReasonCardAuthorized,
		At:        now,
		Extra:     map[string]any{"authorizationCode": cc.AuthorizationCode, "transactionId": cc.TransactionID},
	}); err != nil {
		return nil, err
	}
	payment.Status = types.PaymentStatusCompleted
	payment.UpdatedAt = now

	out := baseOutcome(payment)
	creditCardDetails(out, cc)
	return out, nil
}

func creditCardDetails(out *PaymentOutcome, cc *models.CreditCardPayment) {
	out.Details["authorizationCode"] = cc.AuthorizationCode
	out.Details["transactionId"] = cc.TransactionID
	out.Details["cardBrand"] = cc.CardBrand
	out.Details["lastFourDigits"] = cc.LastFourDigits
	out.Details["installments"] = cc.Installments
}
