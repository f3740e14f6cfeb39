package types

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodQRCode     PaymentMethod = "QR_CODE"
)

var PaymentMethods = []PaymentMethod{PaymentMethodCreditCard, PaymentMethodPix, PaymentMethodQRCode}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodPix, PaymentMethodQRCode:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	// PaymentStatusProcessing is reserved for asynchronous acquirer flows; nothing enters it yet.
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusExpired    PaymentStatus = "EXPIRED"
)

var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusProcessing,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusRefunded,
	PaymentStatusExpired,
}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// paymentTransitions lists every legal status change. PENDING -> PENDING is
// not a transition: PIX and QR payments simply stay where they were created.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusExpired},
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

// CanTransitionTo reports whether a payment in status s may move to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, to := range paymentTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// StatusChangeReason is recorded with every status transition.
type StatusChangeReason string

const (
	StatusChangeReasonCreated        StatusChangeReason = "created"
	StatusChangeReasonCardAuthorized StatusChangeReason = "card_authorized"
	StatusChangeReasonPixSettled     StatusChangeReason = "pix_settled"
	StatusChangeReasonPixExpired     StatusChangeReason = "pix_expired"
	StatusChangeReasonRefund         StatusChangeReason = "refund"
)
