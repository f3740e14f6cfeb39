package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/pkg/idempotency"
	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/response"
	"github.com/fatflowers/paygate/pkg/types"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type searchPaymentsQuery struct {
	Status    string `form:"status"`
	Method    string `form:"method"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page,default=0" binding:"min=0"`
	Size      int    `form:"size,default=20" binding:"min=1,max=100"`
}

func (q *searchPaymentsQuery) toRequest() (*payment.SearchPaymentsRequest, map[string]string) {
	req := &payment.SearchPaymentsRequest{Page: q.Page, Size: q.Size}
	fields := map[string]string{}
	if q.Status != "" {
		s := types.PaymentStatus(q.Status)
		req.Status = &s
	}
	if q.Method != "" {
		m := types.PaymentMethod(q.Method)
		req.Method = &m
	}
	for name, raw := range map[string]string{"start_date": q.StartDate, "end_date": q.EndDate} {
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fields[name] = "must be an RFC3339 timestamp"
			continue
		}
		if name == "start_date" {
			req.StartDate = &t
		} else {
			req.EndDate = &t
		}
	}
	return req, fields
}

// @Summary      Create payment
// @Description  Validates and processes a payment. Credit card payments complete synchronously, PIX payments stay PENDING until the callback arrives.
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client supplied key; a repeated key is rejected with 409"
// @Param        request body payment.CreatePaymentRequest true "Payment request"
// @Success      201  {object}  handlers.RespPaymentOutcome
// @Failure      400  {object}  handlers.RespError
// @Failure      409  {object}  handlers.RespError
// @Failure      500  {object}  handlers.RespError
// @Router       /api/v1/payments [post]
func ApiCreatePayment(engine payment.Engine, idem idempotency.Store, ttl time.Duration, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.CreatePaymentRequest
		body, err := c.GetRawData()
		if err == nil {
			err = json.Unmarshal(body, &req)
		}
		if err != nil {
			writeBindError(c, err)
			return
		}

		ctx := c.Request.Context()
		key := c.GetHeader(IdempotencyKeyHeader)
		if key != "" {
			if err := idem.Reserve(ctx, key, ttl); err != nil {
				writeError(c, base, err)
				return
			}
		}

		out, err := engine.CreatePayment(ctx, &req)
		if err != nil {
			// creation failures roll back, so the key can be reused
			if key != "" {
				if rerr := idem.Release(context.WithoutCancel(ctx), key); rerr != nil {
					logctx.FromGin(c, base).Warnw("idempotency_release_failed", "key", key, "error", rerr)
				}
			}
			writeError(c, base, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(out))
	}
}

// @Summary      Get payment
// @Description  Returns a payment with its method specific details.
// @Tags         Payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200  {object}  handlers.RespPaymentOutcome
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/payments/{id} [get]
func ApiGetPayment(engine payment.Engine, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := engine.GetPayment(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Refund payment
// @Description  Refunds a COMPLETED payment. Any other status is rejected.
// @Tags         Payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200  {object}  handlers.RespPaymentOutcome
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/payments/{id}/refund [post]
func ApiRefundPayment(engine payment.Engine, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := engine.RefundPayment(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Search payments
// @Description  Lists payments by status, method and creation date, newest first.
// @Tags         Payments
// @Produce      json
// @Param        status     query string false "Payment status"
// @Param        method     query string false "Payment method"
// @Param        start_date query string false "RFC3339 lower bound on createdAt"
// @Param        end_date   query string false "RFC3339 upper bound on createdAt, defaults to now"
// @Param        page       query int    false "Zero based page" default(0)
// @Param        size       query int    false "Page size" default(20)
// @Success      200  {object}  handlers.RespSearchPayments
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/payments/search [get]
func ApiSearchPayments(engine payment.Engine, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q searchPaymentsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}
		req, fields := q.toRequest()
		if len(fields) > 0 {
			c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeValidation, "invalid search request", fields))
			return
		}
		res, err := engine.SearchPayments(c.Request.Context(), req)
		if err != nil {
			writeError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List payment notifications
// @Description  Returns every notification attempt recorded for a payment.
// @Tags         Payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200  {object}  handlers.RespNotifications
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/payments/{id}/notifications [get]
func ApiGetNotifications(engine payment.Engine, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := engine.GetNotifications(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      PIX settlement callback
// @Description  Called by the PIX arranger when the payer settles. Only the first callback for a payment succeeds.
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment ID"
// @Param        request body payment.PixCallbackRequest false "Settlement data"
// @Success      200  {object}  handlers.RespOK
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Failure      500  {object}  handlers.RespError
// @Router       /api/v1/payments/{id}/pix/callback [post]
func ApiPixCallback(engine payment.Engine, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.PixCallbackRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				writeBindError(c, err)
				return
			}
		}
		if err := engine.HandlePixCallback(c.Request.Context(), c.Param("id"), &req); err != nil {
			writeError(c, base, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](map[string]string{"id": c.Param("id"), "status": string(types.PaymentStatusCompleted)}))
	}
}

// PaymentRoutes bundles what the payment endpoints need.
type PaymentRoutes struct {
	Engine         payment.Engine
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
	Callback       gin.HandlerFunc
	Log            *zap.SugaredLogger
}

func RegisterPaymentRoutes(r gin.IRouter, p PaymentRoutes) {
	if p.Callback == nil {
		p.Callback = func(c *gin.Context) { c.Next() }
	}
	if p.Idempotency == nil {
		p.Idempotency = idempotency.NewMemoryStore()
	}
	if p.IdempotencyTTL <= 0 {
		p.IdempotencyTTL = 24 * time.Hour
	}
	r.POST("/payments", ApiCreatePayment(p.Engine, p.Idempotency, p.IdempotencyTTL, p.Log))
	r.GET("/payments/search", ApiSearchPayments(p.Engine, p.Log))
	r.GET("/payments/:id", ApiGetPayment(p.Engine, p.Log))
	r.POST("/payments/:id/refund", ApiRefundPayment(p.Engine, p.Log))
	r.GET("/payments/:id/notifications", ApiGetNotifications(p.Engine, p.Log))
	r.POST("/payments/:id/pix/callback", p.Callback, ApiPixCallback(p.Engine, p.Log))
}
