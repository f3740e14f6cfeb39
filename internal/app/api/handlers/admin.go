package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/internal/app/service/statistics"
	"github.com/fatflowers/paygate/pkg/response"
)

// StatisticsProvider computes dashboard statistics.
type StatisticsProvider interface {
	GetPaymentStatistic(ctx context.Context, request *statistics.StatisticRequest) (*statistics.StatisticResponse, error)
}

// @Summary      Get Payment Statistics (Admin)
// @Description  Retrieves daily payment statistics. Filters use the payments column names.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.StatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespPaymentStatistic
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/admin/payment_statistic [post]
// ApiGetPaymentStatistic handles POST /api/v1/admin/payment_statistic
func ApiGetPaymentStatistic(svc StatisticsProvider, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if len(req.DataItems) == 0 {
			c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeValidation, "invalid statistic request",
				map[string]string{"data_items": "is required"}))
			return
		}
		res, err := svc.GetPaymentStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Fail(response.APIResponseCodeBadRequest, response.ErrorCodeValidation, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, stats StatisticsProvider, log *zap.SugaredLogger) {
	r.POST("/payment_statistic", ApiGetPaymentStatistic(stats, log))
}
