package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fatflowers/paygate/pkg/types"
)

func TestTableNames(t *testing.T) {
	require.Equal(t, "payments", Payment{}.TableName())
	require.Equal(t, "credit_card_payments", CreditCardPayment{}.TableName())
	require.Equal(t, "pix_payments", PixPayment{}.TableName())
	require.Equal(t, "payment_notifications", PaymentNotification{}.TableName())
	require.Equal(t, "payment_status_logs", PaymentStatusLog{}.TableName())
}

func TestPixPayment_ExpiredAt(t *testing.T) {
	now := time.Now()
	p := &PixPayment{ExpiresAt: now.Add(-time.Minute)}
	require.True(t, p.ExpiredAt(now))

	p.Paid = true
	require.False(t, p.ExpiredAt(now))

	fresh := &PixPayment{ExpiresAt: now.Add(time.Hour)}
	require.False(t, fresh.ExpiredAt(now))

	var missing *PixPayment
	require.False(t, missing.ExpiredAt(now))
}

func TestPayment_Preferences(t *testing.T) {
	var p *Payment
	require.Nil(t, p.Preferences())

	prefs := &types.NotificationPreferences{SmsNotification: true}
	p = &Payment{NotificationPreferences: datatypes.NewJSONType(prefs)}
	require.Equal(t, prefs, p.Preferences())
}

func TestModels_CamelCaseJSON(t *testing.T) {
	for _, m := range []any{&Payment{}, &CreditCardPayment{}, &PixPayment{}, &PaymentNotification{}} {
		raw, err := json.Marshal(m)
		require.NoError(t, err)
		var keys map[string]any
		require.NoError(t, json.Unmarshal(raw, &keys))
		for k := range keys {
			require.NotContains(t, k, "_", "%T", m)
		}
	}

	raw, err := json.Marshal(&PixPayment{PaymentID: "p-1", QRCodeData: "PIX*p-1"})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"paymentId":"p-1"`)
	require.Contains(t, string(raw), `"qrCodeData":"PIX*p-1"`)

	raw, err = json.Marshal(&CreditCardPayment{CardNumberHash: "secret", LastFourDigits: "1111"})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"lastFourDigits":"1111"`)
	require.NotContains(t, string(raw), "secret")
}
