package subscription

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	models "github.com/platewise/platewise/internal/models"
	types "github.com/platewise/platewise/pkg/types"
)

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ListSubscriptionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListSubscriptionsResponse struct {
	Items []*models.UserSubscription `json:"items"`
	Total int64                      `json:"total"`
}

// ListSubscriptions implements the paginated admin listing with filters.
func (s *Service) ListSubscriptions(ctx context.Context, req *ListSubscriptionsRequest) (*ListSubscriptionsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.UserSubscription{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.UserSubscription
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return &ListSubscriptionsResponse{Items: rows, Total: total}, nil
}

type StatisticsResponse struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	ActiveByPlan map[string]int64 `json:"active_by_plan"`
}

// Statistics aggregates subscription counts for the admin dashboard.
func (s *Service) Statistics(ctx context.Context) (*StatisticsResponse, error) {
	type statusRow struct {
		Status string
		Count  int64
	}
	var byStatus []statusRow
	if err := s.db.WithContext(ctx).
		Model(&models.UserSubscription{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}

	var active []*models.UserSubscription
	if err := s.db.WithContext(ctx).
		Where("status = ?", types.SubscriptionStatusActive).
		Find(&active).Error; err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	byPlan := lo.CountValuesBy(active, func(sub *models.UserSubscription) string {
		if sub.PlanID == nil {
			return "unassigned"
		}
		return *sub.PlanID
	})

	res := &StatisticsResponse{
		ByStatus:     map[string]int64{},
		ActiveByPlan: map[string]int64{},
	}
	for _, r := range byStatus {
		res.ByStatus[r.Status] = r.Count
		res.Total += r.Count
	}
	for planID, n := range byPlan {
		res.ActiveByPlan[planID] = int64(n)
	}
	return res, nil
}
