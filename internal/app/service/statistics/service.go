package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/paygate/internal/models"
	"github.com/fatflowers/paygate/pkg/types"
)

type StatisticType string

const (
	// Daily counts per payment method
	StatisticTypeDailyPaymentCount StatisticType = "daily_payment_count"
	// Daily completed amount per currency, in minor units
	StatisticTypeDailyPaymentAmount StatisticType = "daily_payment_amount"
	StatisticTypeDailyStatusCount   StatisticType = "daily_status_count"
	StatisticTypeStatusBreakdown    StatisticType = "status_breakdown"
	// Refunded share of settled payments per day, in basis points
	StatisticTypeDailyRefundRate StatisticType = "daily_refund_rate"
)

// StatisticFilterType names filters that only make sense for some statistic types.
// Any other filter field applies to every type.
type StatisticFilterType string

const (
	StatisticFilterTypeStatus StatisticFilterType = "status"
)

var validFilters = map[StatisticFilterType][]StatisticType{
	StatisticFilterTypeStatus: {StatisticTypeDailyPaymentCount, StatisticTypeDailyStatusCount, StatisticTypeStatusBreakdown},
}

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

// applies reports whether every filter of the request can be used for t.
func (r *StatisticRequest) applies(t StatisticType) bool {
	for _, f := range r.Filters {
		if allowed, ok := validFilters[StatisticFilterType(f.Field)]; ok && !lo.Contains(allowed, t) {
			return false
		}
	}
	return true
}

func (r *StatisticRequest) where() clause.Where {
	return clause.Where{Exprs: []clause.Expression{types.FiltersAnd(r.Filters)}}
}

type StatisticResponseDataItem struct {
	Date   string `json:"date,omitempty"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
	Value3 int64  `json:"value3,omitempty"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service aggregates payments for the admin dashboard.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

var Module = fx.Options(fx.Provide(New))

// dayExpr formats created_at as YYYY-MM-DD in the connected dialect.
func (s *Service) dayExpr() string {
	if s.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', created_at)"
	}
	return "TO_CHAR(created_at, 'YYYY-MM-DD')"
}

func (s *Service) payments(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(models.Payment{}.TableName())
}

func (s *Service) getDailyPaymentCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	q := s.payments(ctx).
		Select(day + " as date, payment_method as label, count(*) as value").
		Where(request.where()).
		Group(day).
		Group("payment_method").
		Order("date DESC, label ASC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyPaymentAmount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	q := s.payments(ctx).
		Select(day+" as date, currency as label, CAST(ROUND(SUM(amount) * 100) AS BIGINT) as value, count(*) as value2").
		Where("status = ?", types.PaymentStatusCompleted).
		Where(request.where()).
		Group(day).
		Group("currency").
		Order("date DESC, label ASC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyStatusCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	q := s.payments(ctx).
		Select(day + " as date, status as label, count(*) as value").
		Where(request.where()).
		Group(day).
		Group("status").
		Order("date DESC, label ASC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatusBreakdown(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.payments(ctx).
		Select("status as label, count(*) as value").
		Where(request.where()).
		Group("status").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyRefundRate(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := s.dayExpr()
	q := s.payments(ctx).
		Select(fmt.Sprintf(`%s as date,
  COALESCE(SUM(CASE WHEN status = '%s' THEN 1 ELSE 0 END) * 10000 / NULLIF(count(*), 0), 0) as value,
  count(*) as value2,
  SUM(CASE WHEN status = '%s' THEN 1 ELSE 0 END) as value3`,
			day, types.PaymentStatusRefunded, types.PaymentStatusRefunded)).
		Where("status IN ?", []types.PaymentStatus{types.PaymentStatusCompleted, types.PaymentStatusRefunded}).
		Where(request.where()).
		Group(day).
		Order("date DESC")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatistic(ctx context.Context, request *StatisticRequest, dataItem *StatisticDataItem) ([]StatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyPaymentCount:
		return s.getDailyPaymentCount(ctx, request)
	case StatisticTypeDailyPaymentAmount:
		return s.getDailyPaymentAmount(ctx, request)
	case StatisticTypeDailyStatusCount:
		return s.getDailyStatusCount(ctx, request)
	case StatisticTypeStatusBreakdown:
		return s.getStatusBreakdown(ctx, request)
	case StatisticTypeDailyRefundRate:
		return s.getDailyRefundRate(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetPaymentStatistic computes every requested data item concurrently.
// Items whose filters do not apply come back empty.
func (s *Service) GetPaymentStatistic(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	if request == nil {
		return nil, fmt.Errorf("nil request")
	}
	for _, f := range request.Filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []StatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			if !request.applies(di.ID) {
				resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: nil}
				return
			}
			res, err := s.getStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	wg.Wait()
	close(errChan)
	close(resChan)
	if err := <-errChan; err != nil {
		return nil, err
	}

	results := make(map[StatisticType][]StatisticResponseDataItem, len(request.DataItems))
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &StatisticResponse{DataItems: results}, nil
}
