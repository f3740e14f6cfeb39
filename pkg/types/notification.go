package types

type NotificationType string

const (
	NotificationTypeEmail   NotificationType = "EMAIL"
	NotificationTypeSMS     NotificationType = "SMS"
	NotificationTypeWebhook NotificationType = "WEBHOOK"
)

// NotificationTrigger is the payment event a notification reports.
type NotificationTrigger string

const (
	NotificationTriggerCreated   NotificationTrigger = "CREATED"
	NotificationTriggerCompleted NotificationTrigger = "COMPLETED"
	NotificationTriggerRefunded  NotificationTrigger = "REFUNDED"
	NotificationTriggerExpired   NotificationTrigger = "EXPIRED"
)

var notificationMessages = map[NotificationTrigger]string{
	NotificationTriggerCreated:   "Payment has been created",
	NotificationTriggerCompleted: "Payment has been completed",
	NotificationTriggerRefunded:  "Payment has been refunded",
	NotificationTriggerExpired:   "Payment has expired",
}

func (t NotificationTrigger) Message() string {
	if m, ok := notificationMessages[t]; ok {
		return m
	}
	return "Payment has been updated"
}

// NotificationPreferences selects the channels used for a payment.
type NotificationPreferences struct {
	EmailNotification bool     `json:"emailNotification" mapstructure:"emailNotification"`
	SmsNotification   bool     `json:"smsNotification" mapstructure:"smsNotification"`
	WebhookURL        string   `json:"webhookUrl,omitempty" mapstructure:"webhookUrl" binding:"omitempty,url,startswith=http"`
	NotifyOn          []string `json:"notifyOn,omitempty" mapstructure:"notifyOn"`
}

// Channels returns the channels enabled by p, in a stable order.
func (p *NotificationPreferences) Channels() []NotificationType {
	if p == nil {
		return nil
	}
	var out []NotificationType
	if p.EmailNotification {
		out = append(out, NotificationTypeEmail)
	}
	if p.SmsNotification {
		out = append(out, NotificationTypeSMS)
	}
	if p.WebhookURL != "" {
		out = append(out, NotificationTypeWebhook)
	}
	return out
}

// IsEmpty reports whether p enables no channel.
func (p *NotificationPreferences) IsEmpty() bool {
	return len(p.Channels()) == 0
}

// Wants reports whether p subscribes to trigger. An empty NotifyOn subscribes to every trigger.
func (p *NotificationPreferences) Wants(trigger NotificationTrigger) bool {
	if p == nil {
		return false
	}
	if len(p.NotifyOn) == 0 {
		return true
	}
	for _, t := range p.NotifyOn {
		if NotificationTrigger(t) == trigger {
			return true
		}
	}
	return false
}

func (t NotificationTrigger) Valid() bool {
	_, ok := notificationMessages[t]
	return ok
}
