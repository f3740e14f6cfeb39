package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusExpired, true},
		{PaymentStatusCompleted, PaymentStatusRefunded, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusPending, PaymentStatusPending, false},
		{PaymentStatusRefunded, PaymentStatusRefunded, false},
		{PaymentStatusRefunded, PaymentStatusCompleted, false},
		{PaymentStatusExpired, PaymentStatusCompleted, false},
		{PaymentStatusFailed, PaymentStatusCompleted, false},
		{PaymentStatusCompleted, PaymentStatusExpired, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			require.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	require.False(t, PaymentStatusPending.IsTerminal())
	require.False(t, PaymentStatusCompleted.IsTerminal())
	for _, s := range []PaymentStatus{PaymentStatusRefunded, PaymentStatusExpired, PaymentStatusFailed} {
		require.True(t, s.IsTerminal(), s)
	}
}

func TestPaymentMethod_Valid(t *testing.T) {
	require.True(t, PaymentMethodPix.Valid())
	require.False(t, PaymentMethod("BOLETO").Valid())
}

func TestNotificationPreferences_Channels(t *testing.T) {
	var nilPrefs *NotificationPreferences
	require.Empty(t, nilPrefs.Channels())
	require.True(t, nilPrefs.IsEmpty())

	p := &NotificationPreferences{EmailNotification: true, WebhookURL: "https://example.com/hook"}
	require.Equal(t, []NotificationType{NotificationTypeEmail, NotificationTypeWebhook}, p.Channels())
	require.False(t, p.IsEmpty())
}

func TestNotificationPreferences_Wants(t *testing.T) {
	var nilPrefs *NotificationPreferences
	require.False(t, nilPrefs.Wants(NotificationTriggerCreated))

	all := &NotificationPreferences{EmailNotification: true}
	require.True(t, all.Wants(NotificationTriggerExpired))

	some := &NotificationPreferences{EmailNotification: true, NotifyOn: []string{"COMPLETED", "REFUNDED"}}
	require.True(t, some.Wants(NotificationTriggerRefunded))
	require.False(t, some.Wants(NotificationTriggerCreated))
}

func TestNotificationTrigger_Message(t *testing.T) {
	require.Equal(t, "Payment has expired", NotificationTriggerExpired.Message())
	require.True(t, NotificationTriggerCompleted.Valid())
	require.False(t, NotificationTrigger("SETTLED").Valid())
}
