package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/service/payment"
	"github.com/fatflowers/paygate/pkg/idempotency"
	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/response"
)

const internalErrorMessage = "An unexpected error occurred"

// writeError maps engine errors onto HTTP status, envelope code and error code.
// Unclassified errors are logged and hidden behind a generic message.
func writeError(c *gin.Context, base *zap.SugaredLogger, err error) {
	var verr *payment.ValidationError
	switch {
	case errors.As(err, &verr) && errors.Is(err, payment.ErrInvalidCreditCard):
		c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeInvalidCard, verr.Reason, verr.Fields))
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeValidation, verr.Reason, verr.Fields))
	case errors.Is(err, payment.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeInvalidStatus, err.Error(), nil))
	case errors.Is(err, payment.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Fail(response.APIResponseCodeNotFound, response.ErrorCodeNotFound, err.Error(), nil))
	case errors.Is(err, idempotency.ErrDuplicate):
		c.JSON(http.StatusConflict, response.Fail(response.APIResponseCodeConflict, response.ErrorCodeDuplicateRequest, "a request with this Idempotency-Key was already accepted", nil))
	case errors.Is(err, payment.ErrProcessing):
		c.JSON(http.StatusInternalServerError, response.Fail(response.APIResponseCodeError, response.ErrorCodeProcessing, err.Error(), nil))
	default:
		logctx.FromGin(c, base).Errorw("unhandled_error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, response.Fail(response.APIResponseCodeError, response.ErrorCodeInternal, internalErrorMessage, nil))
	}
}

// writeBindError reports a request that could not be decoded or bound.
func writeBindError(c *gin.Context, err error) {
	if fields := payment.FieldErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeValidation, "invalid request", fields))
		return
	}
	c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeValidation, "malformed request: "+err.Error(), nil))
}
