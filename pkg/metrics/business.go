package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var processDur = &Metric{
	ID:          "processDur",
	Name:        "process_dur_ms",
	Description: "Business step latency in milliseconds, partitioned by step and payment method.",
	Type:        "histogram_vec",
	Args:        []string{"type", "subtype"},
}

var paymentsCreated = &Metric{
	ID:          "paymentsCreated",
	Name:        "payments_created_total",
	Description: "Payments accepted, partitioned by method and resulting status.",
	Type:        "counter_vec",
	Args:        []string{"method", "status"},
}

var paymentTransitions = &Metric{
	ID:          "paymentTransitions",
	Name:        "payment_transitions_total",
	Description: "Payment status transitions after creation, partitioned by target status and reason.",
	Type:        "counter_vec",
	Args:        []string{"status", "reason"},
}

var notificationsSent = &Metric{
	ID:          "notificationsSent",
	Name:        "notifications_total",
	Description: "Notification delivery attempts, partitioned by channel, trigger and outcome.",
	Type:        "counter_vec",
	Args:        []string{"channel", "trigger", "outcome"},
}

var sweepExpired = &Metric{
	ID:          "sweepExpired",
	Name:        "sweep_expired_total",
	Description: "PIX payments expired by the sweeper.",
	Type:        "counter",
}

var businessMetrics = []*Metric{
	processDur,
	paymentsCreated,
	paymentTransitions,
	notificationsSent,
	sweepExpired,
}

// Business holds the domain level collectors. A nil *Business records nothing.
type Business struct {
	process     *prometheus.HistogramVec
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	notified    *prometheus.CounterVec
	expired     prometheus.Counter
}

// NewBusiness builds the business collectors and registers them on reg.
func NewBusiness(reg prometheus.Registerer, subsystem string) (*Business, error) {
	cs, err := registerAll(reg, subsystem, businessMetrics)
	if err != nil {
		return nil, err
	}
	return &Business{
		process:     cs[processDur].(*prometheus.HistogramVec),
		created:     cs[paymentsCreated].(*prometheus.CounterVec),
		transitions: cs[paymentTransitions].(*prometheus.CounterVec),
		notified:    cs[notificationsSent].(*prometheus.CounterVec),
		expired:     cs[sweepExpired].(prometheus.Counter),
	}, nil
}

// ObserveProcess records the latency of one business step, e.g. ("create_payment", "CREDIT_CARD").
func (b *Business) ObserveProcess(typ, subtype string, start time.Time) {
	if b == nil {
		return
	}
	b.process.WithLabelValues(typ, subtype).Observe(MillisecondsSince(start))
}

func (b *Business) PaymentCreated(method, status string) {
	if b == nil {
		return
	}
	b.created.WithLabelValues(method, status).Inc()
}

func (b *Business) PaymentTransitioned(status, reason string) {
	if b == nil {
		return
	}
	b.transitions.WithLabelValues(status, reason).Inc()
}

func (b *Business) NotificationSent(channel, trigger string, ok bool) {
	if b == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	b.notified.WithLabelValues(channel, trigger, outcome).Inc()
}

func (b *Business) PaymentsExpired(n int) {
	if b == nil || n <= 0 {
		return
	}
	b.expired.Add(float64(n))
}
