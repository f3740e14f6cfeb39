package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/paygate/pkg/types"
)

func TestCheckExpirationDate(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	for exp, ok := range map[string]bool{
		"06/26":   true,
		"07/26":   true,
		"01/27":   true,
		"05/26":   false,
		"12/25":   false,
		"13/27":   false,
		"6/26":    false,
		"06/2026": false,
		"":        false,
	} {
		err := checkExpirationDate(exp, now)
		if ok {
			assert.NoError(t, err, exp)
		} else {
			assert.ErrorIs(t, err, ErrInvalidCreditCard, exp)
		}
	}
}

func TestValidateCreate_CollectsFields(t *testing.T) {
	v := newRequestValidator()
	err := v.validateCreate(&CreatePaymentRequest{
		Amount:   decimal.RequireFromString("0.001"),
		Currency: "R$",
		NotificationPreferences: &types.NotificationPreferences{
			WebhookURL: "ftp://merchant.example.com",
			NotifyOn:   []string{"SHIPPED"},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, verr.Fields, "amount")
	assert.Contains(t, verr.Fields, "currency")
	assert.Contains(t, verr.Fields, "paymentMethod")
	assert.Contains(t, verr.Fields, "paymentDetails")
	assert.Contains(t, verr.Fields, "notificationPreferences.webhookUrl")
	assert.Contains(t, verr.Fields, "notificationPreferences.notifyOn")
	assert.Equal(t, "is required", verr.Fields["paymentMethod"])
}

func TestValidateCreate_AmountBounds(t *testing.T) {
	v := newRequestValidator()
	req := func(amount string) *CreatePaymentRequest {
		return &CreatePaymentRequest{
			Amount:         decimal.RequireFromString(amount),
			Currency:       "BRL",
			PaymentMethod:  types.PaymentMethodPix,
			PaymentDetails: map[string]any{"pixKey": "k"},
		}
	}
	require.NoError(t, v.validateCreate(req("0.01")))
	require.NoError(t, v.validateCreate(req("9999999999.99")))
	require.NoError(t, v.validateCreate(req("12.50")))
	require.ErrorIs(t, v.validateCreate(req("10000000000.00")), ErrValidation)
	require.ErrorIs(t, v.validateCreate(req("-5")), ErrValidation)
}

func TestDecodeDetails_Timestamps(t *testing.T) {
	v := newRequestValidator()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	d, err := v.validatePix(map[string]any{"pixKey": "k", "expiresAt": "2026-06-16T09:30:00"}, now)
	require.NoError(t, err)
	require.NotNil(t, d.ExpiresAt)
	assert.True(t, d.ExpiresAt.Equal(time.Date(2026, 6, 16, 9, 30, 0, 0, time.UTC)))

	d, err = v.validatePix(map[string]any{"pixKey": "k", "expiresAt": "2026-06-16T09:30:00.123-03:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, 12, d.ExpiresAt.UTC().Hour())

	_, err = v.validatePix(map[string]any{"pixKey": "k", "expiresAt": 42}, now)
	require.ErrorIs(t, err, ErrValidation)

	_, err = v.validatePix(nil, now)
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateCallback(t *testing.T) {
	v := newRequestValidator()
	require.NoError(t, v.validateCallback(&PixCallbackRequest{TransactionID: "E2E-1"}))

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	err := v.validateCallback(&PixCallbackRequest{TransactionID: string(long)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "transactionId")
}

func TestValidationError_Message(t *testing.T) {
	err := validationErr("invalid payment request", map[string]string{"currency": "is required", "amount": "must be at least 0.01"})
	assert.Equal(t, "validation error: invalid payment request (amount: must be at least 0.01; currency: is required)", err.Error())
}

func TestValidateCreditCard_Installments(t *testing.T) {
	v := newRequestValidator()
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	details := func(installments any) map[string]any {
		return map[string]any{
			"cardNumber":     "4111111111111111",
			"cardHolderName": "Ana Souza",
			"expirationDate": "12/30",
			"cvv":            "123",
			"installments":   installments,
		}
	}

	d, err := v.validateCreditCard(details(float64(3)), now)
	require.NoError(t, err)
	assert.Equal(t, 3, *d.Installments)

	d, err = v.validateCreditCard(details("6"), now)
	require.NoError(t, err)
	assert.Equal(t, 6, *d.Installments)

	for _, bad := range []any{2.7, 12.9, "2.5", 13, float64(0)} {
		_, err := v.validateCreditCard(details(bad), now)
		require.ErrorIs(t, err, ErrValidation, "%v", bad)
	}
}
