package plan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/platewise/platewise/internal/models"
)

// Service is the read-only plan catalog. Plans are seeded out of band; the
// application only resolves and lists them.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// ListActive returns all purchasable plans for the pricing page.
func (s *Service) ListActive(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var plans []*models.SubscriptionPlan
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_cents asc").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// GetByID returns the plan or nil when the id matches nothing.
func (s *Service) GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}
	return &p, nil
}

// GetByStripePriceID resolves a processor price id to a plan. A nil result is
// not an error: webhook events may reference prices this catalog no longer
// knows, and callers tolerate that drift.
func (s *Service) GetByStripePriceID(ctx context.Context, priceID string) (*models.SubscriptionPlan, error) {
	if priceID == "" {
		return nil, nil
	}
	var p models.SubscriptionPlan
	err := s.db.WithContext(ctx).Where("stripe_price_id = ?", priceID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve price %s: %w", priceID, err)
	}
	return &p, nil
}
