package handlers

import (
	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/internal/app/service/statistics"
	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespError wraps an ErrorDetail in the standard envelope.
type RespError struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    response.ErrorDetail     `json:"data"`
}

// RespPaymentOutcome wraps a PaymentOutcome in the standard envelope.
type RespPaymentOutcome struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    payment.PaymentOutcome   `json:"data"`
}

// RespSearchPayments wraps a SearchPaymentsResponse in the standard envelope.
type RespSearchPayments struct {
	Code    response.APIResponseCode       `json:"code"`
	Message string                         `json:"message"`
	Data    payment.SearchPaymentsResponse `json:"data"`
}

// RespNotifications wraps the notification history of a payment.
type RespNotifications struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    []models.PaymentNotification `json:"data"`
}

// RespPaymentStatistic wraps StatisticResponse in the standard envelope.
type RespPaymentStatistic struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}
